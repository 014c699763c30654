package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gamespace/internal/bookings"
	"gamespace/internal/shared/config"
	"gamespace/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func booking() bookings.Booking {
	return bookings.Booking{
		ID:              "b1",
		TableID:         "table-2",
		SeatID:          "seat-3",
		StartTime:       time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC),
		NumberOfPlayers: 1,
	}
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultKafkaProducerConfig(config.KafkaConfig{Brokers: []string{"k:9092"}, BookingTopic: "bookings", ClientID: "web"})
	sc := cfg.SaramaConfig()
	if sc.Producer.RequiredAcks != sarama.WaitForAll || !sc.Producer.Idempotent || sc.Net.MaxOpenRequests != 1 {
		t.Errorf("delivery settings = acks %v idempotent %v open %d", sc.Producer.RequiredAcks, sc.Producer.Idempotent, sc.Net.MaxOpenRequests)
	}
	if sc.ClientID != "web" || !sc.Producer.Return.Successes {
		t.Error("sync producer needs successes returned")
	}
}

func TestKafkaPublisherSendsKeyedEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "bookings" {
			return fmt.Errorf("topic = %s", msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "table-2" {
			return fmt.Errorf("key = %s", key)
		}
		raw, _ := msg.Value.Encode()
		var e BookingEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		if e.Type != EventBookingConfirmed || e.BookingID != "b1" || e.SeatID != "seat-3" || e.Username != "meeple" || e.Players != 1 {
			return fmt.Errorf("event = %+v", e)
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, &KafkaProducerConfig{Topic: "bookings", ClientID: "web"})
	if err := pub.BookingConfirmed(context.Background(), booking(), "meeple"); err != nil {
		t.Fatal(err)
	}
	if err := pub.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, &KafkaProducerConfig{Topic: "bookings"})
	err := pub.BookingConfirmed(context.Background(), booking(), "meeple")
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("err = %v", err)
	}
	_ = pub.Close()
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(logger.NewWithHandler(slog.NewTextHandler(&buf, nil)))
	if err := pub.BookingConfirmed(context.Background(), booking(), "meeple"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "BOOKING_CONFIRMED") || !strings.Contains(buf.String(), "table-2") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestParseBookingEvent(t *testing.T) {
	raw, _ := NewBookingConfirmed(booking(), "meeple", time.Now()).ToJSON()
	e, err := ParseBookingEvent(raw)
	if err != nil || e.TableID != "table-2" {
		t.Fatalf("event = %+v, %v", e, err)
	}
	if _, err := ParseBookingEvent([]byte(`{"type":"BOOKING_CONFIRMED"}`)); !errors.Is(err, ErrMissingTable) {
		t.Errorf("missing table: %v", err)
	}
	if _, err := ParseBookingEvent([]byte(`not json`)); err == nil {
		t.Error("garbage accepted")
	}
}

func TestHandlerRetries(t *testing.T) {
	calls := 0
	h := &groupHandler{
		config: &ConsumerConfig{MaxRetries: 2, RetryBackoffDuration: time.Millisecond},
		handler: func(ctx context.Context, e *BookingEvent) error {
			calls++
			if calls < 3 {
				return errors.New("redis busy")
			}
			return nil
		},
	}
	raw, _ := NewBookingConfirmed(booking(), "meeple", time.Now()).ToJSON()
	if err := h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: raw}); err != nil {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d", calls)
	}

	calls = -10
	if err := h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: raw}); err == nil {
		t.Error("exhausted retries should surface the error")
	}
}
