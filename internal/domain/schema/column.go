package schema

import (
	"fmt"

	"github.com/kihiko-jay/mini-rdbms/internal/domain/errors"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// ColumnType is the declared scalar type of a column.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeText
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Constraint is the constraint kind declared on a column.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintPrimaryKey
	ConstraintUnique
)

func (c Constraint) String() string {
	switch c {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintUnique:
		return "UNIQUE"
	default:
		return ""
	}
}

// Column describes one field of a table: name, scalar type, and
// constraint kind. Columns are immutable after table creation.
type Column struct {
	Name       string
	Type       ColumnType
	Constraint Constraint
}

// Indexed reports whether the column carries a constraint that requires
// an index (PRIMARY KEY or UNIQUE).
func (c Column) Indexed() bool {
	return c.Constraint != ConstraintNone
}

// Validate checks a value against the column's declared type. NULL always
// passes; whether NULL is allowed is a constraint question and belongs to
// the table. There is no coercion in either direction: an INT column
// accepts only integer values and a TEXT column only text values.
func (c Column) Validate(v value.Value) (value.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch c.Type {
	case TypeInt:
		if v.Kind() != value.KindInt {
			return value.Value{}, errors.NewTypeMismatch(c.Name, TypeInt.String(), v.Kind().String())
		}
	case TypeText:
		if v.Kind() != value.KindText {
			return value.Value{}, errors.NewTypeMismatch(c.Name, TypeText.String(), v.Kind().String())
		}
	}
	return v, nil
}

// String renders the column the way it appears in a CREATE TABLE
// statement, e.g. "id INT PRIMARY KEY".
func (c Column) String() string {
	if c.Constraint == ConstraintNone {
		return fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("%s %s %s", c.Name, c.Type, c.Constraint)
}
