package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKindText(t *testing.T) {
	for _, name := range []string{"msg", "flow", "global"} {
		var k SourceKind
		require.NoError(t, k.UnmarshalText([]byte(name)))
		out, err := k.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(out))
	}

	var k SourceKind
	assert.Error(t, k.UnmarshalText([]byte("env")))
}

func TestTypeTagText(t *testing.T) {
	tests := []struct {
		in   string
		want TypeTag
	}{
		{"bool", TypeBool},
		{"str", TypeLiteral},
		{"num", TypeLiteral},
		{"json", TypeLiteral},
		{"Bool", TypeLiteral},
	}
	for _, tt := range tests {
		var tag TypeTag
		require.NoError(t, tag.UnmarshalText([]byte(tt.in)))
		assert.Equal(t, tt.want, tag, tt.in)
	}
}

func TestFlowScope(t *testing.T) {
	cfg := NodeConfig{Flow: "main"}
	assert.Equal(t, "flow:main", cfg.FlowScope())
	assert.Equal(t, "global", GlobalScope)
}
