package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/geopresence/module/presence/domain"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database/memory"
)

type mockVariableStore struct {
	getFn func(ctx context.Context, key string) (any, bool, error)
}

func (m *mockVariableStore) Get(ctx context.Context, key string) (any, bool, error) {
	return m.getFn(ctx, key)
}

func TestResolveValue_MessagePath(t *testing.T) {
	msg := domain.Message{"loc": map[string]any{"lat": 52.1}}

	v, ok, err := resolveValue(context.Background(), domain.Source{Kind: domain.SourceMessage, Key: "loc.lat"}, msg, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 52.1, v)

	_, ok, err = resolveValue(context.Background(), domain.Source{Kind: domain.SourceMessage, Key: "loc.missing"}, msg, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveValue_NilMessage(t *testing.T) {
	_, ok, err := resolveValue(context.Background(), domain.Source{Kind: domain.SourceMessage, Key: "payload.lat"}, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveValue_FlowAndGlobal(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewVariableRepo()
	require.NoError(t, repo.Set(ctx, domain.FlowScope("main"), "tracker.lat", 48.85))
	require.NoError(t, repo.Set(ctx, domain.GlobalScope, "tracker.lat", "52.1"))

	flow := database.Scoped(repo, domain.FlowScope("main"))
	global := database.Scoped(repo, domain.GlobalScope)

	// keys are looked up verbatim, dots included
	v, ok, err := resolveValue(ctx, domain.Source{Kind: domain.SourceFlow, Key: "tracker.lat"}, nil, flow, global)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 48.85, v)

	v, ok, err = resolveValue(ctx, domain.Source{Kind: domain.SourceGlobal, Key: "tracker.lat"}, nil, flow, global)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "52.1", v)

	_, ok, err = resolveValue(ctx, domain.Source{Kind: domain.SourceGlobal, Key: "absent"}, nil, flow, global)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveValue_StoreError(t *testing.T) {
	store := &mockVariableStore{
		getFn: func(_ context.Context, _ string) (any, bool, error) {
			return nil, false, errors.New("db down")
		},
	}
	_, _, err := resolveValue(context.Background(), domain.Source{Kind: domain.SourceFlow, Key: "lat"}, nil, store, nil)
	assert.Error(t, err)
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		want  float64
		valid bool
	}{
		{"float64", 52.1, 52.1, true},
		{"negative", -6.2088, -6.2088, true},
		{"int", 10, 10, true},
		{"int64", int64(-3), -3, true},
		{"float32", float32(0.5), 0.5, true},
		{"json number", json.Number("4.3"), 4.3, true},
		{"numeric string", "52.1", 52.1, true},
		{"padded string", " 52.1 ", 52.1, true},
		{"zero", 0.0, 0, true},
		{"partial string", "12abc", 0, false},
		{"empty string", "", 0, false},
		{"word", "north", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"map", map[string]any{"lat": 1.0}, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"inf string", "Infinity", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCoordinate(tt.raw)
			assert.Equal(t, tt.valid, got.valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.value, 1e-6)
			}
		})
	}
}
