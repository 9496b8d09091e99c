package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/TalentScreen/internal/testutil"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

type mockKafkaWriter struct {
	messages []kafka.Message
	writeErr error
	closeErr error
	closeCnt int
}

func (m *mockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closeCnt++
	return m.closeErr
}

func newTestProducer(writer WriterInterface) *Producer {
	return NewProducerWithWriter(writer, testutil.NewMockLogger())
}

func TestPublishSubmissionEvaluated(t *testing.T) {
	writer := &mockKafkaWriter{}
	p := newTestProducer(writer)

	event := &SubmissionEvaluatedEvent{
		SubmissionID: "sub-1",
		AssessmentID: "asmt-1",
		Percentage:   84.5,
		Percentile:   92,
		Status:       "shortlisted",
		EvaluatedAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishSubmissionEvaluated(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, TopicSubmissionEvaluated, msg.Topic)
	assert.Equal(t, "asmt-1", string(msg.Key))

	var decoded SubmissionEvaluatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestPublishIntegrityFlagged(t *testing.T) {
	writer := &mockKafkaWriter{}
	p := newTestProducer(writer)

	event := &IntegrityFlaggedEvent{
		SubmissionID:    "sub-2",
		AssessmentID:    "asmt-1",
		RiskScore:       65,
		IsBot:           true,
		FlagCount:       3,
		PlagiarismFlags: 1,
	}
	require.NoError(t, p.PublishIntegrityFlagged(context.Background(), event))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, TopicIntegrityFlagged, writer.messages[0].Topic)
}

func TestPublish_WriteFailureWrapsCode(t *testing.T) {
	writer := &mockKafkaWriter{writeErr: errors.New(errors.ErrCodeInternal, "broker unreachable")}
	p := newTestProducer(writer)

	err := p.PublishSubmissionEvaluated(context.Background(), &SubmissionEvaluatedEvent{AssessmentID: "a"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEventPublishFailed))
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	writer := &mockKafkaWriter{}
	p := newTestProducer(writer)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, writer.closeCnt)
}

func TestPublish_AfterCloseFails(t *testing.T) {
	writer := &mockKafkaWriter{}
	p := newTestProducer(writer)
	require.NoError(t, p.Close())

	err := p.PublishSubmissionEvaluated(context.Background(), &SubmissionEvaluatedEvent{AssessmentID: "a"})
	assert.ErrorIs(t, err, ErrProducerClosed)
	assert.Empty(t, writer.messages)
}
