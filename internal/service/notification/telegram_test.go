package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// fakeBot records sent messages.
type fakeBot struct {
	mu   sync.Mutex
	sent []string
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, nil
	}
	b.mu.Lock()
	b.sent = append(b.sent, msg.Text)
	b.mu.Unlock()
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sent...)
}

func TestTelegramDeliversQueuedMessages(t *testing.T) {
	defer goleak.VerifyNone(t)

	bot := &fakeBot{}
	sender := newTelegramWithBot(bot, 42)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, sender.Start(ctx, &wg))

	require.NoError(t, sender.NotifySummary("all sites ok"))
	require.NoError(t, sender.NotifyError("site guldguiden failed"))

	assert.Eventually(t, func() bool {
		return len(bot.messages()) == 2
	}, 5*time.Second, 20*time.Millisecond)

	messages := bot.messages()
	assert.Equal(t, "all sites ok", messages[0])
	assert.Contains(t, messages[1], "site guldguiden failed")
	assert.NotEqual(t, messages[1], "site guldguiden failed", "error alerts carry a marker prefix")

	cancel()
	wg.Wait()
}

func TestTelegramDrainsQueueOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	bot := &fakeBot{}
	sender := newTelegramWithBot(bot, 42)
	// Queue before the worker starts, then stop immediately: the drain
	// pass must still deliver the pending message.
	require.NoError(t, sender.NotifySummary("queued before start"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, sender.Start(ctx, &wg))
	wg.Wait()

	require.Len(t, bot.messages(), 1)
	assert.Equal(t, "queued before start", bot.messages()[0])
}

func TestTelegramFullQueueRejects(t *testing.T) {
	sender := newTelegramWithBot(&fakeBot{}, 42)

	for i := 0; i < queueSize; i++ {
		require.NoError(t, sender.NotifySummary("fill"))
	}

	err := sender.NotifySummary("overflow")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

func TestNoopSenderNeverFails(t *testing.T) {
	sender := NewNoop()
	assert.NoError(t, sender.NotifySummary("summary"))
	assert.NoError(t, sender.NotifyError("error"))
}
