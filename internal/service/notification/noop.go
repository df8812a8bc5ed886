package notification

import (
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

const noopComponent = "notification.noop"

// Noop is the sender used when no Telegram channel is configured. Messages
// go to the log so single-machine installs still see run outcomes.
type Noop struct{}

// NewNoop creates the log-only sender.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) NotifySummary(message string) error {
	applog.WithComponent(noopComponent).Info(message)
	return nil
}

func (n *Noop) NotifyError(message string) error {
	applog.WithComponent(noopComponent).Error(message)
	return nil
}
