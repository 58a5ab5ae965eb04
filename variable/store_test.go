package variable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreLookup(t *testing.T) {
	vars := Store{
		"name": "Ada",
		"user": map[string]any{"address": map[string]any{"city": "London"}},
	}

	v, ok := vars.Lookup("name")
	require.True(t, ok)
	require.Equal(t, "Ada", v)

	v, ok = vars.Lookup("user.address.city")
	require.True(t, ok)
	require.Equal(t, "London", v)

	_, ok = vars.Lookup("user.phone")
	require.False(t, ok)
	_, ok = vars.Lookup("missing")
	require.False(t, ok)
	_, ok = vars.Lookup("name.first")
	require.False(t, ok)
	_, ok = vars.Lookup("user.")
	require.False(t, ok)
}

func TestStoreClone(t *testing.T) {
	vars := Store{"a": 1}
	clone := vars.Clone()
	clone.Set("a", 2)
	require.Equal(t, 1, vars["a"])
	require.Equal(t, 2, clone["a"])
}
