package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gamespace/internal/shared/config"
	"gamespace/pkg/logger"

	"github.com/IBM/sarama"
)

// Handler reacts to one booking event
type Handler func(ctx context.Context, e *BookingEvent) error

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig(cfg config.KafkaConfig) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              cfg.Brokers,
		GroupID:              cfg.ConsumerGroup,
		Topics:               []string{cfg.BookingTopic},
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		MaxRetries:           3,
		RetryBackoffDuration: 200 * time.Millisecond,
	}
}

// BookingConsumer feeds booking events from other instances to a Handler
type BookingConsumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler Handler
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewBookingConsumer(cfg *ConsumerConfig, handler Handler) (*BookingConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	// only events after start up matter; older ones describe expired caches
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return &BookingConsumer{group: group, config: cfg, handler: handler}, nil
}

// Start consumes until Stop is called or ctx ends
func (c *BookingConsumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	logger.GetDefault().Info("Starting booking event consumer", "group", c.config.GroupID, "topics", c.config.Topics)

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			logger.GetDefault().WithError(err).Error("Consumer group error")
		}
	}()
	go func() {
		defer c.wg.Done()
		handler := &groupHandler{handler: c.handler, config: c.config}
		for {
			if err := c.group.Consume(ctx, c.config.Topics, handler); err != nil {
				logger.GetDefault().WithError(err).Warn("Error consuming booking events")
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *BookingConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	handler Handler
	config  *ConsumerConfig
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				logger.GetDefault().WithError(err).WithFields(map[string]interface{}{
					"topic":     message.Topic,
					"partition": message.Partition,
					"offset":    message.Offset,
				}).Warn("Dropping booking event")
			}
			// a failed event is not retried later; the caches expire anyway
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := ParseBookingEvent(message.Value)
	if err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}
	return h.executeWithRetry(ctx, event)
}

func (h *groupHandler) executeWithRetry(ctx context.Context, event *BookingEvent) error {
	backoff := h.config.RetryBackoffDuration
	var err error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if err = h.handler(ctx, event); err == nil {
			return nil
		}
		if attempt == h.config.MaxRetries {
			break
		}

		// Exponential backoff
		select {
		case <-time.After(backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
