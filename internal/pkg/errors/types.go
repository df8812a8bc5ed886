package errors

// ErrorType classifies an error by its nature and recovery semantics.
type ErrorType int

const (
	// Unknown is the zero value; avoid using it deliberately.
	Unknown ErrorType = iota

	// Internal marks application logic faults (bugs, impossible states).
	Internal

	// System marks system or infrastructure faults (disk, network, database).
	System

	// Unauthorized marks failed authentication (missing or bad app key).
	Unauthorized

	// InvalidInput marks validation failures on external input, including
	// feed records rejected by the normalizer.
	InvalidInput

	// Conflict marks resource conflicts (duplicate creation, concurrent runs).
	Conflict

	// NotFound marks a missing resource (unknown site ID, missing config file).
	NotFound

	// ExecutionFailed marks a failed business operation, such as a rejected
	// destination insert batch.
	ExecutionFailed

	// ParsingFailed marks data parsing or decoding failures (malformed feed XML).
	ParsingFailed

	// Timeout marks an operation that exceeded its deadline.
	Timeout

	// Unavailable marks a temporarily unreachable dependency (feed host down,
	// HTTP 5xx/429).
	Unavailable
)

// String returns the human-readable name of the error type.
func (t ErrorType) String() string {
	switch t {
	case Internal:
		return "Internal"
	case System:
		return "System"
	case Unauthorized:
		return "Unauthorized"
	case InvalidInput:
		return "InvalidInput"
	case Conflict:
		return "Conflict"
	case NotFound:
		return "NotFound"
	case ExecutionFailed:
		return "ExecutionFailed"
	case ParsingFailed:
		return "ParsingFailed"
	case Timeout:
		return "Timeout"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}
