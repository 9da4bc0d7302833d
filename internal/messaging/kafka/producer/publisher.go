package producer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafkago.Writer the producers need.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type envelope struct {
	Topic     string
	Key       string
	EventType string
	RequestID string
	Payload   []byte
}

func toMessage(e envelope) kafkago.Message {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
	}
	if e.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(e.RequestID)})
	}

	return kafkago.Message{
		Topic:   e.Topic,
		Key:     []byte(e.Key),
		Value:   e.Payload,
		Headers: headers,
	}
}

func publishEvents(ctx context.Context, writer MessageWriter, batch []envelope) error {
	msgs := make([]kafkago.Message, len(batch))
	for i, e := range batch {
		msgs[i] = toMessage(e)
	}
	return writer.WriteMessages(ctx, msgs...)
}
