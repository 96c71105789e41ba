package schema

import (
	"fmt"

	"github.com/kihiko-jay/mini-rdbms/internal/domain/errors"
)

// Schema is an ordered, immutable sequence of columns.
type Schema struct {
	columns []Column
	names   []string
	byName  map[string]int
}

// NewSchema validates and builds a schema. It fails when the column list
// is empty, when two columns share a name, or when more than one column
// is declared PRIMARY KEY.
func NewSchema(columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, &errors.SchemaError{Reason: "table must have at least one column"}
	}

	byName := make(map[string]int, len(columns))
	names := make([]string, len(columns))
	primaryKeys := 0

	for i, col := range columns {
		if _, exists := byName[col.Name]; exists {
			return nil, &errors.SchemaError{
				Column: col.Name,
				Reason: "duplicate column name",
			}
		}
		byName[col.Name] = i
		names[i] = col.Name

		if col.Constraint == ConstraintPrimaryKey {
			primaryKeys++
		}
	}

	if primaryKeys > 1 {
		return nil, &errors.SchemaError{Reason: "table can have only one PRIMARY KEY"}
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Schema{columns: cols, names: names, byName: byName}, nil
}

// Columns returns the schema's columns in declaration order.
func (s *Schema) Columns() []Column {
	return s.columns
}

// Column returns the named column.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// ColumnNames returns the column names in declaration order. The slice is
// shared with every row of the owning table and must not be modified.
func (s *Schema) ColumnNames() []string {
	return s.names
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

func (s *Schema) String() string {
	out := ""
	for i, col := range s.columns {
		if i > 0 {
			out += ", "
		}
		out += col.String()
	}
	return fmt.Sprintf("(%s)", out)
}
