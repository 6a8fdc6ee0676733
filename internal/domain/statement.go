package domain

import (
	"fmt"
	"strings"
)

// Mode selects how values appear in generated statement text.
type Mode int

const (
	// ModeLiteral embeds each value as a single-quoted string literal.
	ModeLiteral Mode = iota
	// ModeParameterized emits a ? placeholder per value for later binding.
	ModeParameterized
)

// String returns the canonical name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeParameterized:
		return "parameterized"
	default:
		return "literal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses "literal", "parameterized" or "param" (case-insensitive).
// An empty string selects ModeLiteral.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return ModeLiteral, nil
	case "parameterized", "param":
		return ModeParameterized, nil
	default:
		return ModeLiteral, fmt.Errorf("unsupported mode %q: use 'literal' or 'parameterized'", s)
	}
}

// StatementKind names the statement shape that was generated.
type StatementKind string

// KindInsert and KindUpdate are the two statement shapes the builder produces.
const (
	KindInsert StatementKind = "INSERT"
	KindUpdate StatementKind = "UPDATE"
)

// GeneratedStatement is the outcome of one build-and-validate call.
type GeneratedStatement struct {
	Kind StatementKind `json:"kind"`
	SQL  string        `json:"sql"`
	Mode Mode          `json:"mode"`
	// Args holds the values an executor would bind to the placeholders, in
	// placeholder order. Empty in literal mode.
	Args []string `json:"args,omitempty"`
	// Valid is the validator verdict for SQL.
	Valid bool `json:"valid"`
	// Diagnostic carries the validator or parser message when Valid is false.
	Diagnostic string `json:"diagnostic,omitempty"`
}
