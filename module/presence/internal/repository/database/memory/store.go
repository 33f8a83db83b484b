package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
)

var (
	_ database.ContextStore       = (*ContextStore)(nil)
	_ database.VariableRepository = (*VariableRepo)(nil)
)

// table is a two level map of JSON encoded values. Values are stored encoded
// so reads return the same types the postgres driver does.
type table struct {
	mu   sync.RWMutex
	rows map[string]map[string][]byte
}

func newTable() *table {
	return &table{rows: make(map[string]map[string][]byte)}
}

func (t *table) get(owner, key string) (any, bool, error) {
	t.mu.RLock()
	raw, ok := t.rows[owner][key]
	t.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, eris.Wrap(err, "memory: decode value")
	}
	return v, true, nil
}

func (t *table) set(owner, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "memory: encode value")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rows[owner] == nil {
		t.rows[owner] = make(map[string][]byte)
	}
	t.rows[owner][key] = raw
	return nil
}

func (t *table) delete(owner, key string) {
	t.mu.Lock()
	delete(t.rows[owner], key)
	t.mu.Unlock()
}

func (t *table) clear(owner string) {
	t.mu.Lock()
	delete(t.rows, owner)
	t.mu.Unlock()
}

type ContextStore struct {
	t *table
}

func NewContextStore() *ContextStore {
	return &ContextStore{t: newTable()}
}

func (s *ContextStore) Get(_ context.Context, nodeID, key string) (any, bool, error) {
	return s.t.get(nodeID, key)
}

func (s *ContextStore) Set(_ context.Context, nodeID, key string, value any) error {
	return s.t.set(nodeID, key, value)
}

func (s *ContextStore) Clear(_ context.Context, nodeID string) error {
	s.t.clear(nodeID)
	return nil
}

type VariableRepo struct {
	t *table
}

func NewVariableRepo() *VariableRepo {
	return &VariableRepo{t: newTable()}
}

func (r *VariableRepo) Get(_ context.Context, scope, key string) (any, bool, error) {
	return r.t.get(scope, key)
}

func (r *VariableRepo) Set(_ context.Context, scope, key string, value any) error {
	return r.t.set(scope, key, value)
}

func (r *VariableRepo) Delete(_ context.Context, scope, key string) error {
	r.t.delete(scope, key)
	return nil
}
