package service

import (
	"context"
	"sync"

	"github.com/nandanugg/geopresence/module/presence/domain"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/publisher"
)

type registeredNode struct {
	mu  sync.Mutex
	svc *PresenceService
}

// NodeRegistry owns one PresenceService per configured node and serialises
// invocations of each node.
type NodeRegistry struct {
	nodes  map[string]*registeredNode
	order  []string
	topics map[string][]string
	state  database.ContextStore
}

func NewNodeRegistry(
	cfgs []domain.NodeConfig,
	state database.ContextStore,
	vars database.VariableRepository,
	pub publisher.PresencePublisher,
	status statusReporter,
) *NodeRegistry {
	r := &NodeRegistry{
		nodes:  make(map[string]*registeredNode, len(cfgs)),
		topics: make(map[string][]string),
		state:  state,
	}
	global := database.Scoped(vars, domain.GlobalScope)
	for _, cfg := range cfgs {
		flow := database.Scoped(vars, cfg.FlowScope())
		r.nodes[cfg.ID] = &registeredNode{
			svc: NewPresenceService(cfg, state, flow, global, pub, status),
		}
		r.order = append(r.order, cfg.ID)
		if cfg.InputTopic != "" {
			r.topics[cfg.InputTopic] = append(r.topics[cfg.InputTopic], cfg.ID)
		}
	}
	return r
}

func (r *NodeRegistry) Dispatch(ctx context.Context, nodeID string, msg domain.Message) (*domain.Result, error) {
	n, ok := r.nodes[nodeID]
	if !ok {
		return nil, domain.ErrUnknownNode
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.svc.Evaluate(ctx, msg)
}

func (r *NodeRegistry) Nodes() []domain.NodeConfig {
	out := make([]domain.NodeConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.nodes[id].svc.Config())
	}
	return out
}

func (r *NodeRegistry) Node(nodeID string) (domain.NodeConfig, bool) {
	n, ok := r.nodes[nodeID]
	if !ok {
		return domain.NodeConfig{}, false
	}
	return n.svc.Config(), true
}

// Topics maps each input topic to the nodes listening on it.
func (r *NodeRegistry) Topics() map[string][]string {
	out := make(map[string][]string, len(r.topics))
	for topic, ids := range r.topics {
		out[topic] = append([]string(nil), ids...)
	}
	return out
}

// Reset clears the persisted state of a node.
func (r *NodeRegistry) Reset(ctx context.Context, nodeID string) error {
	n, ok := r.nodes[nodeID]
	if !ok {
		return domain.ErrUnknownNode
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return r.state.Clear(ctx, nodeID)
}
