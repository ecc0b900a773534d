// Package bus connects the pipeline to Kafka: a durable consumer for inbound
// conversations, a producer for processed records, and ephemeral tail
// readers for dashboard fan-out.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// InboundMessage is the expected shape of messages on the input topic.
type InboundMessage struct {
	Conversation string `json:"conversation"`
}

// Handler processes one inbound conversation. A handler error is logged and
// the offset is committed anyway: one bad message never wedges the topic.
type Handler func(ctx context.Context, msg InboundMessage) error

type ConsumerConfig struct {
	Broker  string
	Topic   string
	GroupID string
}

// Consumer reads the input topic with a durable group. Offsets are committed
// only after the handler returns, giving at-least-once processing.
type Consumer struct {
	reader *kafka.Reader
	log    *logrus.Entry
}

func NewConsumer(cfg ConsumerConfig, log *logrus.Entry) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Broker},
			Topic:       cfg.Topic,
			GroupID:     cfg.GroupID,
			StartOffset: kafka.FirstOffset,
		}),
		log: log,
	}
}

// Run consumes until ctx is canceled.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		msgLog := c.log.WithFields(logrus.Fields{
			"partition": m.Partition,
			"offset":    m.Offset,
		})

		var inbound InboundMessage
		if err := json.Unmarshal(m.Value, &inbound); err != nil {
			msgLog.WithError(err).Error("skipping undecodable message")
		} else if err := handle(ctx, inbound); err != nil {
			msgLog.WithError(err).Error("error processing message")
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("commit offset: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// NewTailReader returns an ephemeral reader on topic: unique group, latest
// offset only. Each dashboard stream gets its own so broadcasts fan out.
func NewTailReader(broker, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     "tail-" + uuid.New().String(),
		StartOffset: kafka.LastOffset,
	})
}
