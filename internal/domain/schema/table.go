package schema

import (
	"log/slog"

	"github.com/kihiko-jay/mini-rdbms/internal/domain/data"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/errors"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// Table owns an ordered schema, the row store, and one index per PRIMARY
// KEY or UNIQUE column. Every mutation validates fully before touching
// rows or indexes, so a failed statement leaves the table exactly as it
// was. Tables are not safe for concurrent use; the engine documents the
// single-caller requirement.
type Table struct {
	name    string
	schema  *Schema
	rows    []data.Row
	indexes map[string]*data.Index
}

// NewTable creates an empty table over an already-validated schema, with
// one empty index per constrained column.
func NewTable(name string, schema *Schema) *Table {
	indexes := make(map[string]*data.Index)
	for _, col := range schema.Columns() {
		if col.Indexed() {
			indexes[col.Name] = data.NewIndex(col.Name)
		}
	}
	return &Table{
		name:    name,
		schema:  schema,
		indexes: indexes,
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Schema returns the table's schema.
func (t *Table) Schema() *Schema { return t.schema }

// RowCount returns the number of stored rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Insert appends a row built from the positional values. The values list
// must cover every column: omitting a value is an arity error, never an
// implicit NULL (write NULL explicitly). The whole call is all-or-nothing:
// every type and constraint check runs before the row store or any index
// is touched.
func (t *Table) Insert(values []value.Value) error {
	if len(values) != t.schema.Len() {
		return errors.NewArityMismatch(t.name, t.schema.Len(), len(values))
	}

	// 1. Validate types column by column.
	validated := make([]value.Value, len(values))
	for i, col := range t.schema.Columns() {
		v, err := col.Validate(values[i])
		if err != nil {
			return err
		}
		validated[i] = v
	}

	// 2. Check constraints against the current indexes.
	for i, col := range t.schema.Columns() {
		if !col.Indexed() {
			continue
		}
		v := validated[i]
		if v.IsNull() {
			if col.Constraint == ConstraintPrimaryKey {
				return errors.NewNullViolation(t.name, col.Name)
			}
			continue // any number of NULLs is fine on a UNIQUE column
		}
		if t.indexes[col.Name].Contains(v) {
			if col.Constraint == ConstraintPrimaryKey {
				return errors.NewPrimaryKeyViolation(t.name, col.Name, v)
			}
			return errors.NewUniqueViolation(t.name, col.Name, v)
		}
	}

	// 3. Everything passed: append the row, then update the indexes.
	pos := len(t.rows)
	t.rows = append(t.rows, data.NewRow(t.schema.ColumnNames(), validated))

	for i, col := range t.schema.Columns() {
		if !col.Indexed() || validated[i].IsNull() {
			continue
		}
		if err := t.indexes[col.Name].Insert(validated[i], pos); err != nil {
			return err
		}
	}

	slog.Debug("insert", "table", t.name, "position", pos)
	return nil
}

// Select returns copies of the rows matching the predicate, in insertion
// order. An equality predicate on an indexed column is a direct lookup
// (at most one row); anything else scans. The result is a snapshot, not a
// live view: later mutations do not alter returned rows.
func (t *Table) Select(p data.Predicate) ([]data.Row, error) {
	positions, err := t.match(p)
	if err != nil {
		return nil, err
	}

	rows := make([]data.Row, 0, len(positions))
	for _, pos := range positions {
		rows = append(rows, t.rows[pos].Copy())
	}

	slog.Debug("select", "table", t.name, "rows", len(rows))
	return rows, nil
}

// Update applies the assignments to every row matching the predicate and
// returns how many rows matched. All replacement values for all targets
// are validated before any row or index changes: if one target would
// violate a type or uniqueness constraint, the whole statement fails and
// the table is unchanged.
func (t *Table) Update(p data.Predicate, assignments []data.Assignment) (int, error) {
	targets, err := t.match(p)
	if err != nil {
		return 0, err
	}

	// 1. Validate the assignments themselves.
	cols := make([]Column, len(assignments))
	vals := make([]value.Value, len(assignments))
	for j, a := range assignments {
		col, ok := t.schema.Column(a.Column)
		if !ok {
			return 0, errors.NewUnknownColumn(t.name, a.Column)
		}
		v, err := col.Validate(a.Value)
		if err != nil {
			return 0, err
		}
		if col.Constraint == ConstraintPrimaryKey && v.IsNull() {
			return 0, errors.NewNullViolation(t.name, col.Name)
		}
		cols[j] = col
		vals[j] = v
	}

	if len(targets) == 0 {
		return 0, nil
	}

	// 2. Uniqueness pre-check. Assignments apply uniformly, so writing a
	// non-null value into an indexed column of two or more targets always
	// collides; for a single target the value may clash only with some
	// other row's index entry.
	for j, col := range cols {
		if !col.Indexed() || vals[j].IsNull() {
			continue
		}
		violation := func() error {
			if col.Constraint == ConstraintPrimaryKey {
				return errors.NewPrimaryKeyViolation(t.name, col.Name, vals[j])
			}
			return errors.NewUniqueViolation(t.name, col.Name, vals[j])
		}
		if len(targets) > 1 {
			return 0, violation()
		}
		if hit, found := t.indexes[col.Name].Lookup(vals[j]); found && hit != targets[0] {
			return 0, violation()
		}
	}

	// 3. Apply: per target, move each changed index entry from the old
	// value to the new one, then write the row.
	for _, pos := range targets {
		for j, col := range cols {
			newV := vals[j]
			if idx, indexed := t.indexes[col.Name]; indexed {
				oldV, _ := t.rows[pos].Get(col.Name)
				if !oldV.Equal(newV) {
					if !oldV.IsNull() {
						idx.Remove(oldV)
					}
					if !newV.IsNull() {
						if err := idx.Insert(newV, pos); err != nil {
							return 0, err
						}
					}
				}
			}
			t.rows[pos].Set(col.Name, newV)
		}
	}

	slog.Debug("update", "table", t.name, "rows", len(targets))
	return len(targets), nil
}

// Delete removes every row matching the predicate and returns how many
// were removed. Matching zero rows is a successful no-op. Index entries
// go first, then the row, then positions above it are renumbered.
func (t *Table) Delete(p data.Predicate) (int, error) {
	targets, err := t.match(p)
	if err != nil {
		return 0, err
	}

	// Walk targets from the highest position down so earlier removals do
	// not shift the positions still to be deleted.
	for i := len(targets) - 1; i >= 0; i-- {
		pos := targets[i]
		row := t.rows[pos]

		for name, idx := range t.indexes {
			if v, ok := row.Get(name); ok && !v.IsNull() {
				idx.Remove(v)
			}
		}

		t.rows = append(t.rows[:pos], t.rows[pos+1:]...)

		for _, idx := range t.indexes {
			idx.AdjustForDeletion(pos)
		}
	}

	slog.Debug("delete", "table", t.name, "rows", len(targets))
	return len(targets), nil
}

// match resolves a predicate to row positions in ascending order. An
// equality test on an indexed column with a non-null probe is a single
// index lookup; NULL probes and unindexed columns scan in insertion
// order. The predicate column must exist in the schema.
func (t *Table) match(p data.Predicate) ([]int, error) {
	if p.All {
		positions := make([]int, len(t.rows))
		for i := range t.rows {
			positions[i] = i
		}
		return positions, nil
	}

	if _, ok := t.schema.Column(p.Column); !ok {
		return nil, errors.NewUnknownColumn(t.name, p.Column)
	}

	if idx, ok := t.indexes[p.Column]; ok && !p.Value.IsNull() {
		if pos, found := idx.Lookup(p.Value); found {
			return []int{pos}, nil
		}
		return nil, nil
	}

	var positions []int
	for i, row := range t.rows {
		if p.Matches(row) {
			positions = append(positions, i)
		}
	}
	return positions, nil
}
