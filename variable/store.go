package variable

import (
	"strings"

	"github.com/oliveagle/jsonpath"
)

// Store is the live variable mapping of one render session. Keys are flat
// but values may be nested objects addressed with dot paths.
type Store map[string]any

// Lookup resolves name as an exact key first, then as a dot path walked from
// the value of its first segment. Missing or null intermediates report false.
func (s Store) Lookup(name string) (any, bool) {
	if v, ok := s[name]; ok {
		return v, true
	}
	if !strings.Contains(name, ".") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return nil, false
	}
	value, err := jsonpath.JsonPathLookup(map[string]any(s), "$."+name)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s Store) Set(name string, value any) {
	s[name] = value
}

func (s Store) Clone() Store {
	out := make(Store, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
