// Package command defines the typed statements the engine executes.
// Every front end (SQL text, network requests, the HTTP adapter) lowers
// its input into one of these structs, so the engine never sees raw
// query strings.
package command

import (
	"github.com/kihiko-jay/mini-rdbms/internal/domain/data"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/schema"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// Command is the closed set of executable statements. Kind returns the
// statement verb for logs, traces, and error messages.
type Command interface {
	Kind() string
	isCommand()
}

// CreateTable registers a new table under Name with the given columns.
type CreateTable struct {
	Name    string
	Columns []schema.Column
}

func (*CreateTable) Kind() string { return "CREATE TABLE" }
func (*CreateTable) isCommand()   {}

// DropTable removes a table and everything in it.
type DropTable struct {
	Name string
}

func (*DropTable) Kind() string { return "DROP TABLE" }
func (*DropTable) isCommand()   {}

// Insert appends one row of positional values to a table. Values must
// cover every column in schema order.
type Insert struct {
	Table  string
	Values []value.Value
}

func (*Insert) Kind() string { return "INSERT" }
func (*Insert) isCommand()   {}

// Select reads the rows matching Predicate. Columns narrows the result
// to the named columns in the given order; nil means every column.
type Select struct {
	Table     string
	Predicate data.Predicate
	Columns   []string
}

func (*Select) Kind() string { return "SELECT" }
func (*Select) isCommand()   {}

// Update applies the assignments to every row matching Predicate.
type Update struct {
	Table       string
	Predicate   data.Predicate
	Assignments []data.Assignment
}

func (*Update) Kind() string { return "UPDATE" }
func (*Update) isCommand()   {}

// Delete removes every row matching Predicate.
type Delete struct {
	Table     string
	Predicate data.Predicate
}

func (*Delete) Kind() string { return "DELETE" }
func (*Delete) isCommand()   {}
