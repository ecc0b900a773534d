package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"conversation-insights-go/internal/types"
)

// Producer publishes processed records to the output topic as JSON, keyed by
// record id.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Producer) Publish(ctx context.Context, rec types.ConversationRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.ID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
