package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes evaluation events.  All publications are best effort
// from the pipeline's point of view; callers log and continue on error.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer creates a Producer writing to the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		MaxAttempts:  maxRetries,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer, logger: log.Named("kafka")}
}

// NewProducerWithWriter wires a custom writer, used by tests.
func NewProducerWithWriter(writer WriterInterface, log logging.Logger) *Producer {
	return &Producer{writer: writer, logger: log.Named("kafka")}
}

// PublishSubmissionEvaluated emits a SubmissionEvaluatedEvent keyed by
// assessment so per-assessment ordering is preserved.
func (p *Producer) PublishSubmissionEvaluated(ctx context.Context, event *SubmissionEvaluatedEvent) error {
	return p.publish(ctx, TopicSubmissionEvaluated, event.AssessmentID, event)
}

// PublishIntegrityFlagged emits an IntegrityFlaggedEvent.
func (p *Producer) PublishIntegrityFlagged(ctx context.Context, event *IntegrityFlaggedEvent) error {
	return p.publish(ctx, TopicIntegrityFlagged, event.AssessmentID, event)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "event encode failed")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeEventPublishFailed, "event publish failed")
	}

	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("key", key))
	return nil
}

// Close flushes and closes the writer.  Idempotent.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
