package dml

import (
	"errors"
	"fmt"
	"strings"
)

// maxIdentifierLen is the longest name, in bytes, linting accepts.
const maxIdentifierLen = 128

// ValidateIdentifier explains why name cannot appear unquoted as one part of
// a catalog.schema.table target or in a column list: it must be 1 to 128
// bytes of ASCII letters, digits and underscores, not starting with a digit.
//
// The builders never call it; identifiers are emitted as given. Metadata
// linting does.
func ValidateIdentifier(name string) error {
	switch {
	case name == "":
		return errors.New("name is empty")
	case len(name) > maxIdentifierLen:
		return fmt.Errorf("name is %d bytes, longer than %d", len(name), maxIdentifierLen)
	case isDigit(name[0]):
		return fmt.Errorf("name starts with digit %q", name[0])
	}
	for i, r := range name {
		if r > 0x7f || !isWordByte(byte(r)) {
			return fmt.Errorf("name contains %q at offset %d", r, i)
		}
	}
	return nil
}

// BreaksLiteral reports whether value contains a single quote, which ends
// the '...' literal the builder wraps it in.
func BreaksLiteral(value string) bool {
	return strings.ContainsRune(value, '\'')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return c == '_' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z')
}
