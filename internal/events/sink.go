// Package events publishes committed ledger events to outside consumers.
package events

import (
	"context"
	"fmt"

	"social-go/internal/config"
	"social-go/internal/social"
)

// NewSinkFromConfig creates an EventSink based on the events config type.
// An empty type publishes nowhere.
func NewSinkFromConfig(cfg config.EventsConfig, logger social.Logger) (social.EventSink, error) {
	switch cfg.Type {
	case "", "none":
		return NopSink{}, nil
	case "log":
		return NewLogSink(logger), nil
	case "kafka":
		if len(cfg.Brokers) == 0 {
			return nil, fmt.Errorf("kafka events require at least one broker")
		}
		if cfg.Topic == "" {
			return nil, fmt.Errorf("kafka events require a topic")
		}
		return NewKafkaSink(cfg.Brokers, cfg.Topic)
	default:
		return nil, fmt.Errorf("unknown events type: %s", cfg.Type)
	}
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, []*social.Event) error { return nil }
func (NopSink) Close() error                                 { return nil }

// LogSink writes one Info line per event.
type LogSink struct {
	logger social.Logger
}

func NewLogSink(logger social.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, events []*social.Event) error {
	for _, e := range events {
		s.logger.Info("event",
			"seq", e.Seq,
			"kind", string(e.Kind),
			"post_id", e.PostID,
			"account", string(e.Account),
			"amount", e.Amount,
		)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }

var (
	_ social.EventSink = NopSink{}
	_ social.EventSink = (*LogSink)(nil)
)
