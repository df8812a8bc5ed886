package fetcher

import (
	"io"
	"sync"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

const (
	// maxDrainBytes caps how much of an abandoned body is read back for
	// connection reuse; larger bodies cost more than a new connection.
	maxDrainBytes = 64 * 1024

	// MaxBodyBytes caps a feed document. The largest known production feed
	// is under 8 MB; 32 MB leaves headroom while still bounding memory.
	MaxBodyBytes = 32 * 1024 * 1024
)

// drainBufPool reuses drain buffers to avoid per-response allocations.
var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// drainAndCloseBody empties and closes a response body so the underlying
// keep-alive connection returns to the pool. Bodies over maxDrainBytes are
// abandoned; the connection is closed instead of reused.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}

// ReadBody reads a response body fully into memory, bounded by MaxBodyBytes.
// A body exceeding the bound is a System error: it indicates a broken feed
// export, not a transient condition.
func ReadBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "reading response body failed")
	}
	if len(data) > MaxBodyBytes {
		return nil, apperrors.Newf(apperrors.System, "response body exceeds the %d byte limit", MaxBodyBytes)
	}
	return data, nil
}
