package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kazini-payroll/internal/events"
	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/messaging/kafka/consumer"
	"kazini-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves queued messages, then cancels the run.
type fakeReader struct {
	queue     []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.queue) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

// fakeReports fails the first failures calls, or every call when always is
// set, and runs onCall after each one.
type fakeReports struct {
	calls    []string
	failures int
	always   bool
	onCall   func(n int)
}

func (f *fakeReports) GenerateReport(ctx context.Context, companyID, cycleID string) (string, error) {
	f.calls = append(f.calls, companyID+"/"+cycleID)
	n := len(f.calls)
	if f.onCall != nil {
		f.onCall(n)
	}
	if f.always || n <= f.failures {
		return "", errors.New("disk full")
	}
	return "reports/" + cycleID + ".xlsx", nil
}

var fastRetry = consumer.WithBackoff(time.Millisecond, 2*time.Millisecond)

func message(offset int64, eventType string, payload any) kafkago.Message {
	body, _ := json.Marshal(payload)
	return kafkago.Message{
		Offset: offset,
		Value:  body,
		Headers: []kafkago.Header{
			{Key: kafka.HeaderEventType, Value: []byte(eventType)},
			{Key: kafka.HeaderRequestID, Value: []byte("req-1")},
		},
	}
}

func TestConsumePayrollCycleDisbursed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafkago.Message{
		message(1, events.PayrollCycleProcessed, events.PayrollCycleProcessedEvent{CycleID: "cy-0"}),
		message(2, events.PayrollCycleDisbursed, events.PayrollCycleDisbursedEvent{CycleID: "cy-1", CompanyID: "co-1"}),
		{Offset: 3, Value: []byte("not json"), Headers: []kafkago.Header{{Key: kafka.HeaderEventType, Value: []byte(events.PayrollCycleDisbursed)}}},
	}}
	reports := &fakeReports{}

	consumer.ConsumePayrollCycleDisbursed(ctx, reader, reports, zap.NewNop())

	assert.Equal(t, []string{"co-1/cy-1"}, reports.calls)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestConsumePayrollCycleDisbursed_RetriesFailedReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafkago.Message{
		message(7, events.PayrollCycleDisbursed, events.PayrollCycleDisbursedEvent{CycleID: "cy-1", CompanyID: "co-1"}),
		message(8, events.PayrollCycleDisbursed, events.PayrollCycleDisbursedEvent{CycleID: "cy-2", CompanyID: "co-1"}),
	}}
	reports := &fakeReports{failures: 2}

	consumer.ConsumePayrollCycleDisbursed(ctx, reader, reports, zap.NewNop(), fastRetry)

	assert.Equal(t, []string{"co-1/cy-1", "co-1/cy-1", "co-1/cy-1", "co-1/cy-2"}, reports.calls)
	assert.Equal(t, []int64{7, 8}, reader.committed)
}

func TestConsumePayrollCycleDisbursed_StopWhileFailingLeavesMessageUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafkago.Message{
		message(7, events.PayrollCycleDisbursed, events.PayrollCycleDisbursedEvent{CycleID: "cy-1", CompanyID: "co-1"}),
		message(8, events.PayrollCycleDisbursed, events.PayrollCycleDisbursedEvent{CycleID: "cy-2", CompanyID: "co-1"}),
	}}
	reports := &fakeReports{always: true, onCall: func(n int) {
		if n == 3 {
			cancel()
		}
	}}

	consumer.ConsumePayrollCycleDisbursed(ctx, reader, reports, zap.NewNop(), fastRetry)

	assert.Equal(t, []string{"co-1/cy-1", "co-1/cy-1", "co-1/cy-1"}, reports.calls)
	assert.Empty(t, reader.committed)
	assert.Len(t, reader.queue, 1)
}

func TestRun_PropagatesRequestID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, queue: []kafkago.Message{message(1, "anything", map[string]string{})}}
	var seen string

	consumer.Run(ctx, "test", reader, func(ctx context.Context, msg kafkago.Message) error {
		seen = contextutil.GetRequestID(ctx)
		return nil
	}, zap.NewNop())

	assert.Equal(t, "req-1", seen)
}
