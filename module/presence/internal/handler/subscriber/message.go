package subscriber

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

const dispatchTimeout = 10 * time.Second

type nodeDispatcher interface {
	Dispatch(ctx context.Context, nodeID string, msg domain.Message) (*domain.Result, error)
	Topics() map[string][]string
}

type MessageSubscriber struct {
	client mqtt.Client
	nodes  nodeDispatcher
}

func NewMessageSubscriber(client mqtt.Client, nodes nodeDispatcher) *MessageSubscriber {
	return &MessageSubscriber{client: client, nodes: nodes}
}

// Start subscribes to every node input topic.
func (s *MessageSubscriber) Start() error {
	for topic, nodeIDs := range s.nodes.Topics() {
		token := s.client.Subscribe(topic, 1, s.handlerFor(nodeIDs))
		token.Wait()
		if err := token.Error(); err != nil {
			return eris.Wrapf(err, "subscribe %s", topic)
		}
		zap.L().Info("subscribed", zap.String("topic", topic), zap.Strings("nodes", nodeIDs))
	}
	return nil
}

func (s *MessageSubscriber) handlerFor(nodeIDs []string) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		s.handleMessage(nodeIDs, m)
	}
}

func (s *MessageSubscriber) handleMessage(nodeIDs []string, m mqtt.Message) {
	msg := decodeMessage(m)

	for _, id := range nodeIDs {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		res, err := s.nodes.Dispatch(ctx, id, msg)
		cancel()
		if err != nil {
			zap.L().Error("presence evaluation failed",
				zap.String("node_id", id),
				zap.String("topic", m.Topic()),
				zap.Error(err),
			)
			continue
		}
		zap.L().Debug("presence evaluated",
			zap.String("node_id", id),
			zap.String("outcome", string(res.Outcome)),
			zap.String("status", res.Status.Text),
		)
	}
}

// decodeMessage wraps an MQTT delivery as a flow message. JSON bodies become
// structured payloads; anything else is kept as a string.
func decodeMessage(m mqtt.Message) domain.Message {
	var payload any
	if err := json.Unmarshal(m.Payload(), &payload); err != nil {
		payload = string(m.Payload())
	}
	return domain.Message{
		"_msgid":  uuid.NewString(),
		"topic":   m.Topic(),
		"qos":     int(m.Qos()),
		"retain":  m.Retained(),
		"payload": payload,
	}
}
