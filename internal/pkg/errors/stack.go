package errors

import (
	"path/filepath"
	"runtime"
)

// defaultCallerSkip skips runtime.Callers, captureStack and the public
// constructor (New/Wrap/...) so frame 0 points at the caller's code.
const defaultCallerSkip = 3

// StackFrame captures the execution context of a single call frame.
type StackFrame struct {
	File     string
	Line     int
	Function string
}

// captureStack collects up to 5 frames starting at the given skip depth.
func captureStack(skip int) []StackFrame {
	const maxFrames = 5
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	callersFrames := runtime.CallersFrames(pc[:n])

	frames := make([]StackFrame, 0, n)
	for {
		frame, more := callersFrames.Next()
		frames = append(frames, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: frame.Function,
		})
		if !more {
			break
		}
	}

	return frames
}
