// Package publish emits activity zone reports to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per activity report.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

var _ contract.Publisher = &KafkaPublisher{} // Compile-time check

// NoopPublisher drops every report. It is used when no brokers are configured.
type NoopPublisher struct{}

var _ contract.Publisher = NoopPublisher{} // Compile-time check

// Publish implements contract.Publisher.
func (NoopPublisher) Publish(context.Context, []schema.ActivityReport) error { return nil }

// Close implements contract.Publisher.
func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher for brokers, or a NoopPublisher when
// brokers is empty.
func NewPublisher(brokers []string, topic string) contract.Publisher {
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

// Publish writes reports as a single batch keyed by activity id.
func (p *KafkaPublisher) Publish(ctx context.Context, reports []schema.ActivityReport) error {
	if len(reports) == 0 {
		return nil
	}
	ts := p.now().UTC()
	msgs := make([]kafka.Message, 0, len(reports))
	for _, r := range reports {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode report for activity %d: %w", r.Activity.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(r.Activity.ID, 10)),
			Value: payload,
			Time:  ts,
			Headers: []kafka.Header{
				{Key: "content-type", Value: []byte("application/json")},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	contract.Logger().Debug("Published zone reports", zap.String("topic", p.topic), zap.Int("messages", len(msgs)))
	return nil
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
