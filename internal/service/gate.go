package service

import (
	"strings"

	"sqlgen/internal/domain"
)

// MissingMandatory returns the mandatory column names whose positional value
// is empty or all whitespace. A value list shorter than mandatory counts the
// unmatched columns as missing.
func MissingMandatory(mandatory, values []string) []string {
	var missing []string
	for i, col := range mandatory {
		if i >= len(values) || strings.TrimSpace(values[i]) == "" {
			missing = append(missing, col)
		}
	}
	return missing
}

// CheckMandatory returns a MandatoryFieldMissingError naming every blank
// mandatory column, or nil when all are present.
func CheckMandatory(table string, mandatory, values []string) error {
	if missing := MissingMandatory(mandatory, values); len(missing) > 0 {
		return &domain.MandatoryFieldMissingError{Table: table, Columns: missing}
	}
	return nil
}
