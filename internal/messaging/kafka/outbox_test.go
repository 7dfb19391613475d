package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-9")

	event, err := kafka.NewOutboxEvent(ctx, "wallet_funding_request", "f-1", "wallet_funding_completed", "topic", map[string]int64{"amount": 500000})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "req-9", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	var payload map[string]int64
	assert.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, int64(500000), payload["amount"])
	assert.NoError(t, kafka.ValidateOutboxEvent(event))
}

func TestValidateOutboxEvent(t *testing.T) {
	base := kafka.OutboxEvent{ID: "o-1", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending}

	missingTopic := base
	missingTopic.Topic = ""
	badStatus := base
	badStatus.Status = "queued"

	assert.NoError(t, kafka.ValidateOutboxEvent(base))
	assert.Error(t, kafka.ValidateOutboxEvent(missingTopic))
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}
