package errors

import (
	"fmt"
	"strings"

	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// SchemaError reports a structural problem with a statement: wrong value
// arity, a type mismatch, an unknown column, or an invalid table schema.
type SchemaError struct {
	Table  string // table name (empty when not known at the check site)
	Column string // column name (empty for table-level problems)
	Reason string // human-readable explanation
}

func (e *SchemaError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("schema error in %s.%s: %s", e.Table, e.Column, e.Reason)
	case e.Table != "":
		return fmt.Sprintf("schema error in %s: %s", e.Table, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("schema error in column '%s': %s", e.Column, e.Reason)
	default:
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
}

func NewArityMismatch(table string, want, got int) *SchemaError {
	return &SchemaError{
		Table:  table,
		Reason: fmt.Sprintf("expected %d values, got %d", want, got),
	}
}

func NewUnknownColumn(table, column string) *SchemaError {
	return &SchemaError{
		Table:  table,
		Column: column,
		Reason: "unknown column",
	}
}

func NewTypeMismatch(column, want, got string) *SchemaError {
	return &SchemaError{
		Column: column,
		Reason: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// ConstraintError reports a violation of a PRIMARY KEY or UNIQUE
// constraint: a duplicate non-null value, or NULL in a primary key.
type ConstraintError struct {
	Table      string      // table name
	Column     string      // column name
	Value      value.Value // offending value (Null for missing-key violations)
	Constraint string      // "primary_key" or "unique"
	Reason     string      // human-readable explanation
}

func (e *ConstraintError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if !e.Value.IsNull() {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}

func NewUniqueViolation(table, column string, v value.Value) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      v,
		Constraint: "unique",
		Reason:     "duplicate value",
	}
}

func NewPrimaryKeyViolation(table, column string, v value.Value) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      v,
		Constraint: "primary_key",
		Reason:     "duplicate primary key",
	}
}

func NewNullViolation(table, column string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value.Null(),
		Constraint: "primary_key",
		Reason:     "primary key cannot be NULL",
	}
}

// DuplicateTableError reports a CREATE TABLE against a name that is
// already registered in the catalog.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table '%s' already exists", e.Table)
}

// UnknownTableError reports a statement against a table name that is not
// in the catalog.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table '%s' doesn't exist", e.Table)
}
