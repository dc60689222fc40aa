package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestKafkaPublisher_PublishCompletion(t *testing.T) {
	occurred := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		complete   bool
		writerErr  error
		wantHeader string
		wantErr    bool
	}{
		{name: "Success: Completed instance", complete: true, wantHeader: "instance.completed"},
		{name: "Success: Uncompleted instance", complete: false, wantHeader: "instance.uncompleted"},
		{name: "Error: Broker unavailable", complete: true, writerErr: errors.New("dial tcp: refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{err: tt.writerErr}
			p := &KafkaPublisher{writer: w, topic: DefaultCompletionTopic}

			ev := domain.CompletionEvent{
				UserID:     "u1",
				Date:       "2025-06-03",
				InstanceID: "inst_1",
				ActivityID: "act_1",
				Complete:   tt.complete,
				OccurredAt: occurred,
			}
			err := p.PublishCompletion(context.Background(), ev)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), DefaultCompletionTopic)
				return
			}
			require.NoError(t, err)
			require.Len(t, w.messages, 1)

			msg := w.messages[0]
			assert.Equal(t, "u1", string(msg.Key))
			assert.Equal(t, occurred, msg.Time)
			require.Len(t, msg.Headers, 1)
			assert.Equal(t, tt.wantHeader, string(msg.Headers[0].Value))

			var decoded domain.CompletionEvent
			require.NoError(t, json.Unmarshal(msg.Value, &decoded))
			assert.Equal(t, ev.InstanceID, decoded.InstanceID)
			assert.Equal(t, tt.complete, decoded.Complete)
		})
	}
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	assert.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "")
	defer p.Close()

	assert.Equal(t, DefaultCompletionTopic, p.topic)
}

func TestNopPublisher(t *testing.T) {
	var p domain.EventPublisher = NopPublisher{}
	assert.NoError(t, p.PublishCompletion(context.Background(), domain.CompletionEvent{}))
	assert.NoError(t, p.Close())
}
