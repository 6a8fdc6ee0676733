// Package validate decides whether generated SQL text is syntactically sound.
//
// It is a structural check only: table and column existence, types and
// dialect-specific keywords are not verified.
package validate

import (
	"fmt"
	"strings"

	"sqlgen/internal/sqlparse"
)

// Result is the verdict for one piece of SQL text.
type Result struct {
	Valid   bool   `json:"valid"`
	Units   int    `json:"units"`
	Message string `json:"message,omitempty"`
	// Placeholders counts ? and $n parameters across all units.
	Placeholders int `json:"placeholders"`
	// Tables lists the tables referenced by the units, lowercased.
	Tables []string `json:"tables,omitempty"`
}

// IsValid reports whether statement parses into at least one compound unit.
func IsValid(statement string) bool {
	return Check(statement).Valid
}

// Check parses statement and explains the verdict. It never panics.
func Check(statement string) (res Result) {
	if strings.TrimSpace(statement) == "" {
		return Result{Message: "empty statement"}
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Message: fmt.Sprintf("parser internal error: %v", r)}
		}
	}()

	units, err := parseScript(statement)
	if err != nil {
		return Result{Message: err.Error()}
	}
	if len(units) == 0 {
		return Result{Message: "empty statement"}
	}
	for i, unit := range units {
		if !unit.Compound() {
			return Result{
				Units:   len(units),
				Message: fmt.Sprintf("statement %d (%s) is not a complete statement", i+1, sqlparse.StatementKind(unit)),
			}
		}
	}

	res = Result{Valid: true, Units: len(units)}
	seen := map[string]bool{}
	for _, unit := range units {
		res.Placeholders += sqlparse.Placeholders(unit)
		for _, t := range sqlparse.CollectTableNames(unit) {
			if !seen[t] {
				seen[t] = true
				res.Tables = append(res.Tables, t)
			}
		}
	}
	return res
}

// parseScript is swapped in tests to exercise panic recovery.
var parseScript = sqlparse.ParseScript
