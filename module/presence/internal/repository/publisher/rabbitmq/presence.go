package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"

	"github.com/nandanugg/geopresence/module/presence/domain"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/publisher"
)

var _ publisher.PresencePublisher = (*PresencePublisher)(nil)

const (
	ExchangeName = "geopresence.events"
	QueueName    = "presence_events"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type PresencePublisher struct {
	ch channel
}

func NewPresencePublisher(conn *amqp.Connection) (*PresencePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, eris.Wrap(err, "rabbitmq channel")
	}

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, eris.Wrap(err, "declare exchange")
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, eris.Wrap(err, "declare queue")
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, eris.Wrap(err, "bind queue")
	}

	return &PresencePublisher{ch: ch}, nil
}

func (p *PresencePublisher) Publish(ctx context.Context, nodeID string, msg domain.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return eris.Wrap(err, "marshal presence message")
	}

	err = p.ch.PublishWithContext(ctx, ExchangeName, nodeID, false, false, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{"node_id": nodeID},
		Body:        body,
	})
	return eris.Wrapf(err, "publish presence for node %s", nodeID)
}
