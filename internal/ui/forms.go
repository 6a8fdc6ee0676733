package ui

import (
	"strings"
)

// Field name prefixes for per-column inputs.
const (
	insertFieldPrefix = "insert."
	updateFieldPrefix = "update."
)

func formString(values map[string][]string, key string) string {
	if values == nil {
		return ""
	}
	return strings.TrimSpace(first(values[key]))
}

// formRaw returns the submitted value untrimmed. Column values are passed
// through as typed.
func formRaw(values map[string][]string, key string) string {
	if values == nil {
		return ""
	}
	return first(values[key])
}

func formBool(values map[string][]string, key string) bool {
	v := strings.ToLower(formString(values, key))
	return v == "true" || v == "1" || v == "on" || v == "yes"
}

// formSet returns the non-empty values submitted under key as a set.
func formSet(values map[string][]string, key string) map[string]bool {
	out := make(map[string]bool, len(values[key]))
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = true
		}
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
