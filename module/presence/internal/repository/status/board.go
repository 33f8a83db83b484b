package status

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type Reporter interface {
	Report(ctx context.Context, nodeID string, s domain.Status)
}

// Board keeps the latest status of every node and forwards each report to
// the downstream reporters.
type Board struct {
	mu      sync.RWMutex
	latest  map[string]domain.Status
	forward []Reporter
}

func NewBoard(forward ...Reporter) *Board {
	return &Board{
		latest:  make(map[string]domain.Status),
		forward: forward,
	}
}

func (b *Board) Report(ctx context.Context, nodeID string, s domain.Status) {
	b.mu.Lock()
	b.latest[nodeID] = s
	b.mu.Unlock()

	zap.L().Debug("node status",
		zap.String("node_id", nodeID),
		zap.String("severity", string(s.Severity)),
		zap.String("text", s.Text),
	)

	for _, r := range b.forward {
		r.Report(ctx, nodeID, s)
	}
}

func (b *Board) Latest(nodeID string) (domain.Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.latest[nodeID]
	return s, ok
}
