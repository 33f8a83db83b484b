package database

import "context"

// ContextStore persists node scoped state across invocations.
type ContextStore interface {
	Get(ctx context.Context, nodeID, key string) (any, bool, error)
	Set(ctx context.Context, nodeID, key string, value any) error
	Clear(ctx context.Context, nodeID string) error
}

// VariableRepository backs flow and global variables. Scope is either
// domain.GlobalScope or domain.FlowScope(flowID).
type VariableRepository interface {
	Get(ctx context.Context, scope, key string) (any, bool, error)
	Set(ctx context.Context, scope, key string, value any) error
	Delete(ctx context.Context, scope, key string) error
}

// VariableStore is a read-only view of one variable scope.
type VariableStore interface {
	Get(ctx context.Context, key string) (any, bool, error)
}

type scopedStore struct {
	repo  VariableRepository
	scope string
}

// Scoped narrows repo to a single scope.
func Scoped(repo VariableRepository, scope string) VariableStore {
	return &scopedStore{repo: repo, scope: scope}
}

func (s *scopedStore) Get(ctx context.Context, key string) (any, bool, error) {
	return s.repo.Get(ctx, s.scope, key)
}
