package eventpublisher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrQueueFull is returned when the in-memory event queue has no free slot.
var ErrQueueFull = errors.New("event queue is full")

// Sink delivers events to an external system.
type Sink interface {
	Publish(ctx context.Context, event domain.EntryAppendedEvent) error
}

// EventPublisher queues entry events and delivers them to a Sink from a
// background worker so that request latency does not depend on the broker.
type EventPublisher struct {
	sink         Sink
	logger       zerolog.Logger
	queue        chan domain.EntryAppendedEvent
	flushTimeout time.Duration
}

// Config for EventPublisher.
type Config struct {
	Sink         Sink
	Logger       zerolog.Logger
	BufferSize   int           // Number of events held before Publish rejects new ones
	FlushTimeout time.Duration // Time allowed to drain the queue on shutdown
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = 5 * time.Second
	}

	return &EventPublisher{
		sink:         cfg.Sink,
		logger:       cfg.Logger,
		queue:        make(chan domain.EntryAppendedEvent, cfg.BufferSize),
		flushTimeout: cfg.FlushTimeout,
	}
}

// Publish enqueues event without blocking. The caller's context is not
// consulted: an event is only published for an entry that is already durable.
func (ep *EventPublisher) Publish(_ context.Context, event domain.EntryAppendedEvent) error {
	select {
	case ep.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start delivers queued events until ctx is cancelled, then drains whatever
// is still queued within the flush timeout.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("buffer_size", cap(ep.queue)).
		Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.drain()
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		}
	}
}

func (ep *EventPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), ep.flushTimeout)
	defer cancel()

	for {
		select {
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		default:
			return
		}
	}
}

// deliver publishes a single event. Failures are logged and the event is dropped.
func (ep *EventPublisher) deliver(ctx context.Context, event domain.EntryAppendedEvent) {
	if err := ep.sink.Publish(ctx, event); err != nil {
		ep.logger.Error().
			Err(err).
			Str("entry_id", event.EntryID).
			Str("event_type", event.EventType).
			Msg("failed to publish event")
		return
	}

	ep.logger.Debug().
		Str("entry_id", event.EntryID).
		Str("event_type", event.EventType).
		Msg("event published")
}

// LogPublisher is a simple sink that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event domain.EntryAppendedEvent) error {
	p.logger.Info().
		Str("event_type", event.EventType).
		Str("entry_id", event.EntryID).
		Str("amount", event.Amount).
		Str("balance_before", event.BalanceBefore).
		Str("balance_after", event.BalanceAfter).
		Time("event_time", event.EventTime).
		Msg("EVENT PUBLISHED")

	return nil
}

var (
	_ usecase.EventPublisher = (*EventPublisher)(nil)
	_ Sink                   = (*LogPublisher)(nil)
	_ Sink                   = (*KafkaPublisher)(nil)
)
