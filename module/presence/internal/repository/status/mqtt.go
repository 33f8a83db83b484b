package status

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

const publishTimeout = 5 * time.Second

type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTReporter publishes every status as a retained JSON message on
// <prefix>/<nodeID>/status.
type MQTTReporter struct {
	client mqttPublisher
	prefix string
}

func NewMQTTReporter(client mqtt.Client, prefix string) *MQTTReporter {
	return &MQTTReporter{client: client, prefix: prefix}
}

func (r *MQTTReporter) Topic(nodeID string) string {
	return r.prefix + "/" + nodeID + "/status"
}

func (r *MQTTReporter) Report(_ context.Context, nodeID string, s domain.Status) {
	body, err := json.Marshal(s)
	if err != nil {
		zap.L().Error("marshal status", zap.String("node_id", nodeID), zap.Error(err))
		return
	}

	topic := r.Topic(nodeID)
	token := r.client.Publish(topic, 0, true, body)
	// Report runs under the node lock; the token is checked off that path
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			zap.L().Warn("status publish timed out", zap.String("topic", topic))
			return
		}
		if err := token.Error(); err != nil {
			zap.L().Error("status publish", zap.String("topic", topic), zap.Error(err))
		}
	}()
}
