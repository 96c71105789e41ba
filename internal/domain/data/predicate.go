package data

import "github.com/kihiko-jay/mini-rdbms/internal/value"

// Predicate selects rows: either every row, or rows whose named column
// equals a value. Equality is structural, so NULL matches only NULL.
type Predicate struct {
	All    bool
	Column string
	Value  value.Value
}

// MatchAll returns the predicate that selects every row.
func MatchAll() Predicate {
	return Predicate{All: true}
}

// Equals returns the predicate selecting rows whose column equals v.
func Equals(column string, v value.Value) Predicate {
	return Predicate{Column: column, Value: v}
}

// Matches reports whether the row satisfies the predicate.
func (p Predicate) Matches(r Row) bool {
	if p.All {
		return true
	}
	v, ok := r.Get(p.Column)
	return ok && v.Equal(p.Value)
}

// Assignment names a column and the value an UPDATE writes into it.
type Assignment struct {
	Column string
	Value  value.Value
}
