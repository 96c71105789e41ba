package engine

import "github.com/kihiko-jay/mini-rdbms/internal/domain/data"

// Result is the outcome of one executed statement. Columns and Rows are
// set for SELECT; RowsAffected counts the rows an INSERT, UPDATE or
// DELETE touched. Message is a short human-readable summary either way.
type Result struct {
	Columns      []string
	Rows         []data.Row
	RowsAffected int
	Message      string
}
