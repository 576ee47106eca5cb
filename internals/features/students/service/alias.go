package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// alias is a key path into an upstream payload. "branch.name" walks into
// the nested branch object.
type alias []string

func aliases(paths ...string) []alias {
	out := make([]alias, 0, len(paths))
	for _, p := range paths {
		out = append(out, alias(strings.Split(p, ".")))
	}
	return out
}

func (a alias) lookup(raw map[string]any) (any, bool) {
	var cur any = raw
	for _, key := range a {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstString resolves a chain of aliases: the first alias holding a
// present scalar wins. nil, "", 0 and false count as absent, as do nested
// objects and lists, so "section" can fall through to a flat value when
// "section.name" is missing.
func firstString(raw map[string]any, chain []alias) *string {
	for _, a := range chain {
		v, ok := a.lookup(raw)
		if !ok || !present(v) {
			continue
		}
		if s, ok := scalarString(v); ok {
			return &s
		}
	}
	return nil
}

// firstNonNil is the nullish variant: any value other than nil counts.
func firstNonNil(raw map[string]any, chain []alias) any {
	for _, a := range chain {
		if v, ok := a.lookup(raw); ok && v != nil {
			return v
		}
	}
	return nil
}

// firstList returns the first alias that holds a list.
func firstList(raw map[string]any, chain []alias) []any {
	for _, a := range chain {
		if v, ok := a.lookup(raw); ok {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return nil
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// scalarString coerces JSON scalars to their string form. Numbers are
// printed without exponent or trailing zeros (2021, not 2021.000000).
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
