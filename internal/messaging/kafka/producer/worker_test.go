package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{
		{ID: "o-1", RequestID: "req-1", AggregateType: "payroll_cycle", AggregateID: "cycle-1", EventType: "payroll_cycle_disbursed", Topic: "t", Payload: []byte(`{}`)},
		{ID: "o-2", AggregateType: "payroll_cycle", AggregateID: "cycle-2", EventType: "payroll_cycle_processed", Topic: "t", Payload: []byte(`{}`)},
	}}
	writer := &fakeWriter{failKey: "cycle-2"}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"o-1"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["o-2"])

	assert.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "cycle-1", string(msg.Key))
	assert.Equal(t, "payroll_cycle_disbursed", kafka.Header(msg, kafka.HeaderEventType))
	assert.Equal(t, "req-1", kafka.Header(msg, kafka.HeaderRequestID))
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := producer.ProcessPendingEvents(context.Background(), &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop())

	assert.NoError(t, err)
	assert.Zero(t, sent)
}
