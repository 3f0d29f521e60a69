package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesJSONMessage(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := domain.EntryAppendedEvent{
		EventType:     domain.EventTypeWalletDeposited,
		EntryID:       "01HX1",
		Amount:        "70",
		BalanceBefore: "0",
		BalanceAfter:  "70",
		EventTime:     at,
	}
	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "01HX1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, domain.EventTypeWalletDeposited, string(msg.Headers[0].Value))

	var decoded domain.EntryAppendedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "70", decoded.BalanceAfter)
	assert.True(t, decoded.EventTime.Equal(at))
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	pub := &KafkaPublisher{writer: &fakeWriter{err: writeErr}}

	err := pub.Publish(context.Background(), domain.EntryAppendedEvent{EntryID: "x"})
	assert.ErrorIs(t, err, writeErr)
}

func TestNewKafkaPublisherDefaultsTopic(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "")
	w, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.NoError(t, pub.Close())
}

func TestKafkaPublisherClose(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer}
	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}
