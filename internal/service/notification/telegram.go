// Package notification delivers run summaries and failure alerts to the
// configured Telegram chat. Delivery is asynchronous: senders enqueue and a
// single worker goroutine talks to the Telegram API, so a slow or
// rate-limited API call never blocks a sync run.
package notification

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/smykkeguiden/feedsync/internal/config"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

const component = "notification.telegram"

const (
	// queueSize bounds pending messages. The pipeline produces at most a
	// few messages per run, so a full queue means the API is down.
	queueSize = 32

	// messagesPerSecond stays under Telegram's per-chat limit.
	messagesPerSecond = 1

	// drainTimeout bounds how long shutdown waits for queued messages.
	drainTimeout = 10 * time.Second

	// errorPrefix marks failure alerts so they stand out in the chat.
	errorPrefix = "⚠️ "
)

// botAPI is the slice of the Telegram client the sender uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is the Telegram-backed notification sender. It implements both
// the notification sending and the service lifecycle contracts.
type Telegram struct {
	bot    botAPI
	chatID int64

	queue   chan string
	limiter *rate.Limiter

	running   bool
	runningMu sync.Mutex
}

// NewTelegram connects the bot and creates the sender. The token is
// verified against the Telegram API during construction.
func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unauthorized, "telegram bot authorization failed")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_username": bot.Self.UserName,
		"chat_id":      cfg.ChatID,
	}).Info("telegram bot connected")

	return newTelegramWithBot(bot, cfg.ChatID), nil
}

func newTelegramWithBot(bot botAPI, chatID int64) *Telegram {
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		queue:   make(chan string, queueSize),
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), 1),
	}
}

// NotifySummary enqueues an informational message.
func (t *Telegram) NotifySummary(message string) error {
	return t.enqueue(message)
}

// NotifyError enqueues a failure alert.
func (t *Telegram) NotifyError(message string) error {
	return t.enqueue(errorPrefix + message)
}

func (t *Telegram) enqueue(message string) error {
	select {
	case t.queue <- message:
		return nil
	default:
		return apperrors.New(apperrors.Unavailable, "notification queue is full, message dropped")
	}
}

// Start launches the sender worker. It implements contract.Service.
func (t *Telegram) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	t.runningMu.Lock()
	defer t.runningMu.Unlock()

	if t.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("notification service is already running (duplicate start)")
		return nil
	}
	t.running = true

	go t.runSenderLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("notification service started")
	return nil
}

// runSenderLoop delivers queued messages until the stop signal, then drains
// what is left under a timeout so shutdown cannot hang on the API.
func (t *Telegram) runSenderLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case message := <-t.queue:
			t.deliver(serviceStopCtx, message)
		case <-serviceStopCtx.Done():
			t.drain()
			t.runningMu.Lock()
			t.running = false
			t.runningMu.Unlock()
			applog.WithComponent(component).Info("notification service stopped")
			return
		}
	}
}

func (t *Telegram) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case message := <-t.queue:
			t.deliver(ctx, message)
		default:
			return
		}
	}
}

// deliver sends one message, respecting the per-chat rate limit. Failures
// are logged and dropped: notifications are best effort and must never fail
// a run.
func (t *Telegram) deliver(ctx context.Context, message string) {
	if err := t.limiter.Wait(ctx); err != nil {
		applog.WithComponent(component).Warnf("notification dropped while waiting for rate limit: %v", err)
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, message)
	if _, err := t.bot.Send(msg); err != nil {
		applog.WithComponent(component).Errorf("sending telegram message failed: %v", err)
	}
}
