package publisher

import (
	"context"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type PresencePublisher interface {
	Publish(ctx context.Context, nodeID string, msg domain.Message) error
}
