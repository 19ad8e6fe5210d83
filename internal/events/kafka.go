package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"

	"social-go/internal/social"
)

// KafkaSink publishes events as JSON to one topic. Messages are keyed by
// post ID so every event of a post lands on the same partition, in order.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Idempotent = true
	c.Producer.Retry.Max = 5
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Net.MaxOpenRequests = 1
	return c
}

// NewKafkaSink connects a synchronous producer to brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	producer, err := sarama.NewSyncProducer(brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return NewKafkaSinkFromProducer(producer, topic), nil
}

// NewKafkaSinkFromProducer wraps an existing producer.
func NewKafkaSinkFromProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// Publish sends all events in one batch. The ledger's event table is the
// source of truth, so a failed batch can be replayed from its Seq.
func (s *KafkaSink) Publish(ctx context.Context, events []*social.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding event %s: %w", e.ID, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(strconv.FormatInt(e.PostID, 10)),
			Value: sarama.ByteEncoder(value),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event-id"), Value: []byte(e.ID)},
				{Key: []byte("event-kind"), Value: []byte(e.Kind)},
			},
		})
	}

	if err := s.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("publishing %d events: %w", len(msgs), err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

var _ social.EventSink = (*KafkaSink)(nil)
