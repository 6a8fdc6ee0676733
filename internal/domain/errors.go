// Package domain defines the metadata model, statement types, and errors
// shared by the statement builder, the validator, and their callers.
package domain

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a table or column was not found in the loaded metadata.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid caller input or metadata.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ContractViolationError indicates a builder precondition was broken, such as
// column and value lists of different lengths. No SQL text is produced.
type ContractViolationError struct {
	Op      string // builder operation, e.g. "insert"
	Message string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Message)
}

// MandatoryFieldMissingError lists the mandatory columns that had no
// non-blank value when an INSERT was requested.
type MandatoryFieldMissingError struct {
	Table   string
	Columns []string
}

func (e *MandatoryFieldMissingError) Error() string {
	return fmt.Sprintf("table %s: missing mandatory fields: %s", e.Table, strings.Join(e.Columns, ", "))
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrContractViolation creates a ContractViolationError for the given builder operation.
func ErrContractViolation(op, format string, args ...interface{}) *ContractViolationError {
	return &ContractViolationError{Op: op, Message: fmt.Sprintf(format, args...)}
}
