package kafka

import kafkago "github.com/segmentio/kafka-go"

const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderOutboxID      = "outbox_id"
	HeaderRequestID     = "request_id"
)

// Header returns the value of the named header, or "".
func Header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
