package subscriber

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type mockDispatcher struct {
	dispatchFn func(ctx context.Context, nodeID string, msg domain.Message) (*domain.Result, error)
	topics     map[string][]string
}

func (m *mockDispatcher) Dispatch(ctx context.Context, nodeID string, msg domain.Message) (*domain.Result, error) {
	return m.dispatchFn(ctx, nodeID, msg)
}

func (m *mockDispatcher) Topics() map[string][]string {
	return m.topics
}

type fakeMQTTMessage struct {
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 1 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return "owntracks/me/phone" }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func TestHandleMessage_DispatchesToEveryNode(t *testing.T) {
	var nodes []string
	var msgs []domain.Message
	d := &mockDispatcher{
		dispatchFn: func(_ context.Context, nodeID string, msg domain.Message) (*domain.Result, error) {
			nodes = append(nodes, nodeID)
			msgs = append(msgs, msg)
			return &domain.Result{Outcome: domain.OutcomeEmitted}, nil
		},
	}
	sub := &MessageSubscriber{nodes: d}

	sub.handleMessage([]string{"home", "office"}, &fakeMQTTMessage{payload: []byte(`{"lat":52.1,"lon":4.3}`)})

	assert.Equal(t, []string{"home", "office"}, nodes)
	require.Len(t, msgs, 2)
	msg := msgs[0]
	assert.Equal(t, map[string]any{"lat": 52.1, "lon": 4.3}, msg["payload"])
	assert.Equal(t, "owntracks/me/phone", msg["topic"])
	assert.Equal(t, 1, msg["qos"])
	assert.NotEmpty(t, msg["_msgid"])

	lat, ok := msg.Lookup("payload.lat")
	assert.True(t, ok)
	assert.Equal(t, 52.1, lat)
}

func TestHandleMessage_NonJSONPayload(t *testing.T) {
	var got domain.Message
	d := &mockDispatcher{
		dispatchFn: func(_ context.Context, _ string, msg domain.Message) (*domain.Result, error) {
			got = msg
			return &domain.Result{Outcome: domain.OutcomeWaiting}, nil
		},
	}
	sub := &MessageSubscriber{nodes: d}

	sub.handleMessage([]string{"home"}, &fakeMQTTMessage{payload: []byte("ping")})

	require.NotNil(t, got)
	assert.Equal(t, "ping", got["payload"])
}

func TestHandleMessage_ErrorDoesNotStopOtherNodes(t *testing.T) {
	var calls int
	d := &mockDispatcher{
		dispatchFn: func(_ context.Context, nodeID string, _ domain.Message) (*domain.Result, error) {
			calls++
			if nodeID == "home" {
				return nil, errors.New("db down")
			}
			return &domain.Result{Outcome: domain.OutcomeEmitted}, nil
		},
	}
	sub := &MessageSubscriber{nodes: d}

	sub.handleMessage([]string{"home", "office"}, &fakeMQTTMessage{payload: []byte(`{}`)})
	assert.Equal(t, 2, calls)
}

func TestDecodeMessage_UniqueIDs(t *testing.T) {
	a := decodeMessage(&fakeMQTTMessage{payload: []byte(`1`)})
	b := decodeMessage(&fakeMQTTMessage{payload: []byte(`1`)})
	assert.NotEqual(t, a["_msgid"], b["_msgid"])
	assert.Equal(t, 1.0, a["payload"])
}
