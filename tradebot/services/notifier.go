package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/tradebot/config"
	"golang.org/x/time/rate"
)

// DMClient is the part of the Discord REST client used to deliver direct
// messages. rest.Rest satisfies it.
type DMClient interface {
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// DMNotifier delivers trade events as direct messages. Notify only queues
// the event; a single worker sends them under a shared rate limit so bursts
// of trade activity cannot trip Discord's limits.
type DMNotifier struct {
	client  DMClient
	limiter *rate.Limiter
	queue   chan trading.Event

	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup
}

var _ trading.Notifier = (*DMNotifier)(nil)

func NewDMNotifier(client DMClient, perSecond float64, burst int) *DMNotifier {
	return &DMNotifier{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		queue:   make(chan trading.Event, config.DMQueueSize),
	}
}

// Start launches the delivery worker. It stops when ctx is done or Close is
// called.
func (n *DMNotifier) Start(ctx context.Context) {
	n.startOnce.Do(func() {
		n.wg.Add(1)
		go n.run(ctx)
	})
}

// Close stops accepting events and waits for queued ones to drain.
func (n *DMNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *DMNotifier) Notify(_ context.Context, event trading.Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- event:
	default:
		slog.Warn("Notification queue full, dropping event",
			slog.String("type", "notify"),
			slog.String("event", string(event.Type)),
			slog.String("recipient_id", event.RecipientID))
	}
}

func (n *DMNotifier) run(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-n.queue:
			if !ok {
				return
			}
			if err := n.limiter.Wait(ctx); err != nil {
				return
			}
			n.deliver(event)
		}
	}
}

func (n *DMNotifier) deliver(event trading.Event) {
	recipient, err := snowflake.Parse(event.RecipientID)
	if err != nil {
		slog.Warn("Notification recipient is not a Discord user",
			slog.String("type", "notify"),
			slog.String("recipient_id", event.RecipientID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DMSendTimeout)
	defer cancel()

	channel, err := n.client.CreateDMChannel(recipient, rest.WithCtx(ctx))
	if err != nil {
		slog.Error("Failed to open DM channel",
			slog.String("type", "notify"),
			slog.String("recipient_id", event.RecipientID),
			slog.Any("error", err))
		return
	}

	if _, err = n.client.CreateMessage(channel.ID(), RenderEvent(event), rest.WithCtx(ctx)); err != nil {
		slog.Error("Failed to send notification",
			slog.String("type", "notify"),
			slog.String("event", string(event.Type)),
			slog.String("recipient_id", event.RecipientID),
			slog.Any("error", err))
		return
	}

	slog.Debug("Notification delivered",
		slog.String("type", "notify"),
		slog.String("event", string(event.Type)),
		slog.String("recipient_id", event.RecipientID))
}

// LogNotifier only logs events. It stands in for DMs when they are disabled.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event trading.Event) {
	slog.Info("Trade event",
		slog.String("type", "notify"),
		slog.String("event", string(event.Type)),
		slog.String("recipient_id", event.RecipientID),
		slog.String("actor_id", event.ActorID))
}
