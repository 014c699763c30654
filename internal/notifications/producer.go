package notifications

import (
	"context"
	"fmt"
	"time"

	"gamespace/internal/bookings"
	"gamespace/internal/shared/config"
	"gamespace/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher announces confirmed bookings. It satisfies bookings.Notifier.
type Publisher interface {
	BookingConfirmed(ctx context.Context, b bookings.Booking, username string) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka booking producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	ClientID         string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig fills the delivery settings around cfg
func DefaultKafkaProducerConfig(cfg config.KafkaConfig) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.BookingTopic,
		ClientID:         cfg.ClientID,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// SaramaConfig is the producer configuration handed to sarama
func (c *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = c.ClientID

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes

	// idempotence needs a single in-flight request per connection
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// hash on the table id so one table's events stay ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher publishes booking events to Kafka
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	now      func() time.Time
}

func NewKafkaPublisher(cfg *KafkaProducerConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	logger.GetDefault().Info("Kafka booking producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewKafkaPublisherWithProducer(producer, cfg), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, cfg *KafkaProducerConfig) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, config: cfg, now: time.Now}
}

func (p *KafkaPublisher) BookingConfirmed(ctx context.Context, b bookings.Booking, username string) error {
	event := NewBookingConfirmed(b, username, p.now())
	value, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(value),
		Headers:   p.headers(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking event to Kafka: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "Booking event published", map[string]interface{}{
		"topic":      p.config.Topic,
		"partition":  partition,
		"offset":     offset,
		"booking_id": event.BookingID,
		"table_id":   event.TableID,
	})
	return nil
}

func (p *KafkaPublisher) headers(e *BookingEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(e.Type)},
		{Key: []byte("booking_id"), Value: []byte(e.BookingID)},
		{Key: []byte("table_id"), Value: []byte(e.TableID)},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte(p.config.ClientID)},
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// LogPublisher stands in when Kafka is disabled
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(l *logger.Logger) *LogPublisher {
	return &LogPublisher{log: l}
}

func (p *LogPublisher) BookingConfirmed(ctx context.Context, b bookings.Booking, username string) error {
	p.log.InfoWithContext(ctx, "Booking confirmed", map[string]interface{}{
		"event":      string(EventBookingConfirmed),
		"booking_id": b.ID,
		"table_id":   b.TableID,
		"seat_id":    b.SeatID,
		"username":   username,
	})
	return nil
}

func (p *LogPublisher) Close() error { return nil }
