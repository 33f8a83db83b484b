package config

import (
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

const rabbitMQHeartbeat = 10 * time.Second

// NewRabbitMQ dials the presence event broker. The connection is named after
// the MQTT client id so it can be told apart in the management UI.
func NewRabbitMQ(cfg *Config) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(cfg.MQTTClientID)

	conn, err := amqp.DialConfig(cfg.RabbitMQURL, amqp.Config{
		Heartbeat:  rabbitMQHeartbeat,
		Locale:     "en_US",
		Properties: props,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "rabbitmq dial %s", redactURL(cfg.RabbitMQURL))
	}
	return conn, nil
}

// redactURL drops the userinfo part of a broker URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	return u.String()
}
