// Package publisher fans parsed articles out to a Kafka topic.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"changelogreader/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *slog.Logger
}

// NewKafka publishes to topic, keyed by article id so one article always lands
// on the same partition.
func NewKafka(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafka(w, topic, log)
}

func newKafka(w messageWriter, topic string, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		topic:  topic,
		log:    log.With(slog.String("component", "kafka-publisher"), slog.String("topic", topic)),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	msgs, err := messages(articles)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Error("Failed to write messages to Kafka", slog.Any("error", err))
		return fmt.Errorf("failed to publish %d articles: %w", len(msgs), err)
	}
	p.log.Debug("Articles published", slog.Int("count", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func messages(articles []domain.Article) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(articles))
	for _, a := range articles {
		value, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("failed to encode article %q: %w", a.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.ID),
			Value: value,
		})
	}
	return msgs, nil
}
