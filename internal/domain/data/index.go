package data

import (
	"fmt"

	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// Index is a hash index over one column, mapping each non-null value to
// the position of the row holding it. One index exists per PRIMARY KEY or
// UNIQUE column, and only its owning table mutates it, which keeps the
// entries exactly consistent with the table's rows.
type Index struct {
	column  string
	entries map[value.Value]int
}

// NewIndex creates an empty index for the named column.
func NewIndex(column string) *Index {
	return &Index{
		column:  column,
		entries: make(map[value.Value]int),
	}
}

// Column returns the name of the indexed column.
func (i *Index) Column() string {
	return i.column
}

// Insert records a value at a row position. Null values are never indexed
// and duplicates fail; the owning table checks both before calling, so an
// error here means a broken invariant, not bad user input.
func (i *Index) Insert(v value.Value, pos int) error {
	if v.IsNull() {
		return fmt.Errorf("index %q: NULL values are not indexed", i.column)
	}
	if _, exists := i.entries[v]; exists {
		return fmt.Errorf("index %q: duplicate entry for value %s", i.column, v)
	}
	i.entries[v] = pos
	return nil
}

// Remove drops the entry for a value. Removing an absent or null value is
// a no-op.
func (i *Index) Remove(v value.Value) {
	delete(i.entries, v)
}

// Lookup returns the row position stored for a value.
func (i *Index) Lookup(v value.Value) (int, bool) {
	pos, ok := i.entries[v]
	return pos, ok
}

// Contains reports whether a value is present in the index.
func (i *Index) Contains(v value.Value) bool {
	_, ok := i.entries[v]
	return ok
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// AdjustForDeletion renumbers entries after the row at the given position
// has been removed: every entry pointing past it shifts down by one. The
// deleted row's own entry must already have been removed.
func (i *Index) AdjustForDeletion(pos int) {
	for v, p := range i.entries {
		if p > pos {
			i.entries[v] = p - 1
		}
	}
}
