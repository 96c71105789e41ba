package data

import (
	"bytes"
	"encoding/json"

	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// Row is an ordered mapping from column name to Value. The column slice
// comes from the owning table's schema and is shared between rows; only
// the values belong to the row itself.
type Row struct {
	columns []string
	values  []value.Value
}

// NewRow builds a row over the given column order. It takes ownership of
// the values slice; callers must not retain it. Arity against the schema
// is the caller's responsibility.
func NewRow(columns []string, values []value.Value) Row {
	return Row{columns: columns, values: values}
}

// Get returns the value stored under the named column.
func (r Row) Get(name string) (value.Value, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return value.Value{}, false
}

// Set replaces the value stored under the named column. It reports false
// when the column does not exist in the row.
func (r *Row) Set(name string, v value.Value) bool {
	for i, col := range r.columns {
		if col == name {
			r.values[i] = v
			return true
		}
	}
	return false
}

// Copy creates a copy of the row whose values are independent of the
// original, so later in-place table mutation cannot alter it.
func (r Row) Copy() Row {
	values := make([]value.Value, len(r.values))
	copy(values, r.values)
	return Row{columns: r.columns, values: values}
}

// Columns returns the row's column names in order. The slice is shared
// with the owning schema and must not be modified.
func (r Row) Columns() []string {
	return r.columns
}

// Values returns a copy of the row's values in column order.
func (r Row) Values() []value.Value {
	values := make([]value.Value, len(r.values))
	copy(values, r.values)
	return values
}

// Project returns a new row holding only the named columns, in the order
// given. Unknown names are skipped; callers validate them beforehand.
func (r Row) Project(columns []string) Row {
	names := make([]string, 0, len(columns))
	values := make([]value.Value, 0, len(columns))
	for _, name := range columns {
		if v, ok := r.Get(name); ok {
			names = append(names, name)
			values = append(values, v)
		}
	}
	return Row{columns: names, values: values}
}

// MarshalJSON renders the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
