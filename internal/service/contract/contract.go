// Package contract defines the seams between services so they depend on
// interfaces rather than on each other's concrete types.
package contract

import (
	"context"
	"sync"
)

// Service is the lifecycle contract every long-running service implements.
//
// Start must not block: it launches the service's goroutine(s) and returns.
// The service stops when serviceStopCtx is cancelled and signals completion
// by calling Done on serviceStopWG exactly once.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}

// NotificationSender delivers operational messages to the configured
// notification channel. Implementations must be safe for concurrent use and
// must never block a sync run on delivery.
type NotificationSender interface {
	// NotifySummary sends an informational run summary.
	NotifySummary(message string) error

	// NotifyError sends a message about a failure needing operator attention.
	NotifyError(message string) error
}
