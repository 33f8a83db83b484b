package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nandanugg/geopresence/module/presence/domain"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
)

// resolveValue reads the raw value a source points at: a dotted path into
// the inbound message, or a key in the flow or global variable store.
func resolveValue(ctx context.Context, src domain.Source, msg domain.Message, flow, global database.VariableStore) (any, bool, error) {
	switch src.Kind {
	case domain.SourceMessage:
		v, ok := msg.Lookup(src.Key)
		return v, ok, nil
	case domain.SourceFlow:
		return lookupVariable(ctx, flow, src.Key)
	case domain.SourceGlobal:
		return lookupVariable(ctx, global, src.Key)
	}
	return nil, false, nil
}

func lookupVariable(ctx context.Context, store database.VariableStore, key string) (any, bool, error) {
	if store == nil {
		return nil, false, nil
	}
	return store.Get(ctx, key)
}

type reading struct {
	value float64
	valid bool
}

// parseCoordinate converts a raw value to a finite float64. Strings must
// parse completely; "12abc" is invalid.
func parseCoordinate(raw any) reading {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return reading{}
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return reading{}
		}
		f = parsed
	default:
		return reading{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return reading{}
	}
	return reading{value: f, valid: true}
}
