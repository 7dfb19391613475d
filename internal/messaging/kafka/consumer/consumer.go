package consumer

import (
	"context"
	"errors"
	"time"

	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrPoison marks a message that can never be handled; it is committed and skipped.
var ErrPoison = errors.New("poison message")

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandlerFunc processes one message. Returning nil or ErrPoison commits it;
// any other error is retried in place.
type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
)

type runOptions struct {
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type Option func(*runOptions)

// WithBackoff sets the delay before the first retry of a failed message and
// the cap the doubling delay grows to.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(o *runOptions) {
		o.initialBackoff = initial
		o.maxBackoff = maxDelay
	}
}

// Run fetches and handles messages until ctx is cancelled. The reader does
// not redeliver a message it has already fetched, so a failing message is
// retried with backoff until it succeeds or turns out to be poison; it is
// never committed while failing. Cancelling ctx mid-retry leaves it
// uncommitted for the next consumer of the group.
func Run(ctx context.Context, name string, reader MessageReader, handle HandlerFunc, logger *zap.Logger, opts ...Option) {
	o := runOptions{initialBackoff: defaultInitialBackoff, maxBackoff: defaultMaxBackoff}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		msgCtx := ctx
		if rid := kafka.Header(msg, kafka.HeaderRequestID); rid != "" {
			msgCtx = contextutil.WithRequestID(ctx, rid)
		}
		fields := []zap.Field{
			zap.String("event_type", kafka.Header(msg, kafka.HeaderEventType)),
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset),
		}

		if err := handleWithRetry(msgCtx, msg, handle, o, log, fields); err != nil {
			if !errors.Is(err, ErrPoison) {
				log.Info("consumer stopped", fields...)
				return
			}
			log.Warn("skipping poison message", append(fields, zap.Error(err))...)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", append(fields, zap.Error(err))...)
		}
	}
}

// handleWithRetry returns nil, an ErrPoison error, or ctx's error once ctx is
// cancelled.
func handleWithRetry(ctx context.Context, msg kafkago.Message, handle HandlerFunc, o runOptions, log *zap.Logger, fields []zap.Field) error {
	delay := o.initialBackoff
	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil || errors.Is(err, ErrPoison) {
			return err
		}
		log.Error("handle message failed",
			append(fields, zap.Int("attempt", attempt), zap.Duration("retry_in", delay), zap.Error(err))...)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > o.maxBackoff {
			delay = o.maxBackoff
		}
	}
}
