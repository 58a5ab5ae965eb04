package variable

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{([\w.]+)\}`)

// ResolveTemplate replaces {name} and {name.path} tokens with values from
// vars. Unresolvable tokens become the empty string.
func ResolveTemplate(template string, vars Store) string {
	if !strings.Contains(template, "{") {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		value, ok := vars.Lookup(token[1 : len(token)-1])
		if !ok {
			return ""
		}
		return Stringify(value)
	})
}

// ResolveProps returns a copy of props with every string, including those
// nested in objects and lists, passed through ResolveTemplate.
func ResolveProps(props map[string]any, vars Store) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = resolveValue(v, vars)
	}
	return out
}

func resolveValue(v any, vars Store) any {
	switch value := v.(type) {
	case string:
		return ResolveTemplate(value, vars)
	case map[string]any:
		return ResolveProps(value, vars)
	case []any:
		out := make([]any, len(value))
		for i := range value {
			out[i] = resolveValue(value[i], vars)
		}
		return out
	}
	return v
}

// Stringify renders a variable value the way it is displayed on screen.
// Numbers print without a trailing fraction when integral; objects and lists
// print as JSON.
func Stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case map[string]any, []any:
		data, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}
