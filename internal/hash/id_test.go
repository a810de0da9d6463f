package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestFieldID(t *testing.T) {
	t.Run("matches hash of joined identity", func(t *testing.T) {
		require.Equal(t, xxhash.Sum64String("telemetry\x00x"), FieldID("telemetry", "x"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		require.Equal(t, FieldID("model", "1deamzt"), FieldID("model", "1deamzt"))
	})

	t.Run("separator keeps boundaries distinct", func(t *testing.T) {
		require.NotEqual(t, FieldID("ab", "c"), FieldID("a", "bc"))
	})

	t.Run("same name in different sources differs", func(t *testing.T) {
		require.NotEqual(t, FieldID("telemetry", "x"), FieldID("model", "x"))
	})
}
