package variable

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/mohitkumar/screenflow/model"
)

// Evaluate reports whether the condition holds for vars. A nil or empty
// condition holds, so elements are shown by default.
func Evaluate(c *model.Condition, vars Store) bool {
	if c == nil {
		return true
	}
	switch {
	case c.All != nil:
		for _, sub := range c.All {
			if !Evaluate(sub, vars) {
				return false
			}
		}
		return true
	case c.Any != nil:
		for _, sub := range c.Any {
			if Evaluate(sub, vars) {
				return true
			}
		}
		return false
	case c.Not != nil:
		return !Evaluate(c.Not, vars)
	case c.IsLeaf():
		actual, _ := vars.Lookup(c.Variable)
		return compare(c.Operator, actual, c.Value)
	}
	return true
}

func compare(op model.Operator, actual any, expected any) bool {
	switch op {
	case model.OP_EQUALS:
		return equal(actual, expected)
	case model.OP_NOT_EQUALS:
		return !equal(actual, expected)
	case model.OP_GREATER_THAN:
		a, b, ok := numericPair(actual, expected)
		return ok && a > b
	case model.OP_LESS_THAN:
		a, b, ok := numericPair(actual, expected)
		return ok && a < b
	case model.OP_CONTAINS:
		if s, ok := actual.(string); ok {
			return strings.Contains(s, Stringify(expected))
		}
		if items, ok := toSlice(actual); ok {
			return containsValue(items, expected)
		}
		return false
	case model.OP_IN:
		items, ok := toSlice(expected)
		return ok && containsValue(items, actual)
	case model.OP_IS_EMPTY:
		return isEmpty(actual)
	case model.OP_IS_NOT_EMPTY:
		return !isEmpty(actual)
	}
	return false
}

// equal is strict: no coercion between strings, numbers and booleans, and
// lists or objects are never equal to anything.
func equal(a, b any) bool {
	if af, ok := toNumber(a); ok {
		bf, ok := toNumber(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

// numericPair requires a numeric actual value; the expected value may be a
// number or a numeric string.
func numericPair(actual, expected any) (float64, float64, bool) {
	a, ok := toNumber(actual)
	if !ok {
		return 0, 0, false
	}
	b, ok := toNumber(expected)
	if !ok {
		s, isString := expected.(string)
		if !isString {
			return 0, 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, 0, false
		}
		b = f
	}
	return a, b, true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func containsValue(items []any, v any) bool {
	for _, item := range items {
		if equal(item, v) {
			return true
		}
	}
	return false
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	if items, ok := toSlice(v); ok {
		return len(items) == 0
	}
	return false
}
