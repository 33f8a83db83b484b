package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLookup(t *testing.T) {
	msg := Message{
		"payload": map[string]any{
			"loc":  map[string]any{"lat": 52.1},
			"list": []any{1.0},
			"name": "phone",
		},
		"loc": map[string]any{"lat": 1.5},
	}

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"loc.lat", 1.5, true},
		{"payload.loc.lat", 52.1, true},
		{"payload.name", "phone", true},
		{"payload.loc.missing", nil, false},
		{"payload.name.length", nil, false},
		{"payload.list.0", nil, false},
		{"missing.lat", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := msg.Lookup(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageLookup_NilValueIsFound(t *testing.T) {
	msg := Message{"payload": map[string]any{"lat": nil}}
	v, ok := msg.Lookup("payload.lat")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestMessageLookup_DottedFieldNotAddressable(t *testing.T) {
	msg := Message{"payload": map[string]any{"a.b": 1.0}}
	_, ok := msg.Lookup("payload.a.b")
	assert.False(t, ok)
}

func TestMessageLookup_NilMessage(t *testing.T) {
	var msg Message
	_, ok := msg.Lookup("payload")
	assert.False(t, ok)
	assert.Nil(t, msg.Payload())
	assert.Nil(t, msg.Clone())
}

func TestMessageClone_Deep(t *testing.T) {
	orig := Message{
		"payload": map[string]any{"loc": map[string]any{"lat": 1.0}},
		"tags":    []any{"a", map[string]any{"k": "v"}},
		"topic":   "t",
	}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c["payload"].(map[string]any)["loc"].(map[string]any)["lat"] = 2.0
	c["tags"].([]any)[1].(map[string]any)["k"] = "changed"
	c["topic"] = "other"

	assert.Equal(t, 1.0, orig["payload"].(map[string]any)["loc"].(map[string]any)["lat"])
	assert.Equal(t, "v", orig["tags"].([]any)[1].(map[string]any)["k"])
	assert.Equal(t, "t", orig["topic"])
}
