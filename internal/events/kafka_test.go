package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"social-go/internal/social"
)

func testEvents() []*social.Event {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []*social.Event{
		{Seq: 1, ID: "id-1", Kind: social.EventPostCreated, PostID: 1, Account: "alice", Fingerprint: "0x01", CreatedAt: at},
		{Seq: 2, ID: "id-2", Kind: social.EventPostTipped, PostID: 1, Account: "bob", Amount: 7, CreatedAt: at},
	}
}

func TestKafkaSink_Publish(t *testing.T) {
	t.Run("sends one keyed json message per event", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		sink := NewKafkaSinkFromProducer(producer, "social.events")
		defer sink.Close()

		events := testEvents()
		for _, want := range events {
			want := want
			producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
				if msg.Topic != "social.events" {
					return fmt.Errorf("topic = %q", msg.Topic)
				}
				key, err := msg.Key.Encode()
				if err != nil {
					return err
				}
				if string(key) != "1" {
					return fmt.Errorf("key = %q, want post id", key)
				}
				value, err := msg.Value.Encode()
				if err != nil {
					return err
				}
				var got social.Event
				if err := json.Unmarshal(value, &got); err != nil {
					return err
				}
				if got.ID != want.ID || got.Kind != want.Kind || got.Amount != want.Amount {
					return fmt.Errorf("event = %+v, want %+v", got, want)
				}
				return nil
			})
		}

		if err := sink.Publish(context.Background(), events); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	})

	t.Run("empty batch sends nothing", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		sink := NewKafkaSinkFromProducer(producer, "social.events")
		defer sink.Close()

		if err := sink.Publish(context.Background(), nil); err != nil {
			t.Errorf("Publish(nil) error = %v", err)
		}
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		sink := NewKafkaSinkFromProducer(producer, "social.events")
		defer sink.Close()

		producer.ExpectSendMessageAndSucceed()
		producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

		err := sink.Publish(context.Background(), testEvents())
		if err == nil {
			t.Fatal("Publish() expected error")
		}
		if !errors.Is(err, sarama.ErrNotLeaderForPartition) {
			t.Errorf("Publish() error = %v, want %v", err, sarama.ErrNotLeaderForPartition)
		}
	})
}
