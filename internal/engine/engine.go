// Package engine executes commands against an in-memory table catalog.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/kihiko-jay/mini-rdbms/internal/command"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/errors"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/schema"
)

// Engine is the main entry point for the database system. It owns the
// table catalog and runs one statement at a time: callers that share an
// Engine across goroutines must serialize their calls, the engine does
// no locking of its own.
type Engine struct {
	tables     map[string]*schema.Table
	observers  []Observer // Observers for lifecycle events
	tracer     trace.Tracer
	statements metric.Int64Counter
}

// New creates a new Engine instance with an empty catalog.
func New() *Engine {
	statements, err := otel.Meter("minidb/engine").Int64Counter(
		"minidb.statements",
		metric.WithDescription("Statements executed, by kind and outcome."),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &Engine{
		tables:     make(map[string]*schema.Table),
		observers:  make([]Observer, 0),
		tracer:     otel.Tracer("minidb/engine"),
		statements: statements,
	}
}

// Execute runs a single command and returns its result. Every statement
// gets a fresh ID that ties together the trace span, the observer
// events, and the error, if any. Errors from the table layer pass
// through unchanged so callers can match on their concrete types.
func (e *Engine) Execute(ctx context.Context, cmd command.Command) (*Result, error) {
	stmtID := uuid.New().String()

	ctx, span := e.tracer.Start(ctx, cmd.Kind(), trace.WithAttributes(
		attribute.String("db.statement_id", stmtID),
		attribute.String("db.operation", cmd.Kind()),
	))
	defer span.End()

	e.notify(Event{Type: EventStatementStart, StatementID: stmtID, Data: cmd.Kind()})

	result, err := e.run(cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.notify(Event{Type: EventStatementError, StatementID: stmtID, Data: err.Error()})
		e.statements.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", cmd.Kind()),
			attribute.Bool("error", true),
		))
		return nil, err
	}

	e.notify(Event{Type: EventStatementEnd, StatementID: stmtID, Data: map[string]interface{}{
		"rows_affected": result.RowsAffected,
		"rows_returned": len(result.Rows),
	}})
	e.statements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", cmd.Kind()),
		attribute.Bool("error", false),
	))

	return result, nil
}

func (e *Engine) run(cmd command.Command) (*Result, error) {
	switch c := cmd.(type) {
	case *command.CreateTable:
		if _, err := e.CreateTable(c.Name, c.Columns); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' created", c.Name)}, nil

	case *command.DropTable:
		if err := e.DropTable(c.Name); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' dropped", c.Name)}, nil

	case *command.Insert:
		tbl, err := e.table(c.Table)
		if err != nil {
			return nil, err
		}
		if err := tbl.Insert(c.Values); err != nil {
			return nil, err
		}
		return &Result{RowsAffected: 1, Message: "INSERT 1"}, nil

	case *command.Select:
		tbl, err := e.table(c.Table)
		if err != nil {
			return nil, err
		}
		rows, err := tbl.Select(c.Predicate)
		if err != nil {
			return nil, err
		}
		columns := tbl.Schema().ColumnNames()
		if c.Columns != nil {
			for _, name := range c.Columns {
				if _, ok := tbl.Schema().Column(name); !ok {
					return nil, errors.NewUnknownColumn(c.Table, name)
				}
			}
			for i, row := range rows {
				rows[i] = row.Project(c.Columns)
			}
			columns = c.Columns
		}
		return &Result{
			Columns: columns,
			Rows:    rows,
			Message: fmt.Sprintf("Returned %d rows", len(rows)),
		}, nil

	case *command.Update:
		tbl, err := e.table(c.Table)
		if err != nil {
			return nil, err
		}
		n, err := tbl.Update(c.Predicate, c.Assignments)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: n, Message: fmt.Sprintf("UPDATE %d", n)}, nil

	case *command.Delete:
		tbl, err := e.table(c.Table)
		if err != nil {
			return nil, err
		}
		n, err := tbl.Delete(c.Predicate)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: n, Message: fmt.Sprintf("DELETE %d", n)}, nil

	default:
		return nil, fmt.Errorf("unsupported command type: %T", cmd)
	}
}

// CreateTable registers a new table. The column list goes through the
// same schema validation no matter which front end produced it.
func (e *Engine) CreateTable(name string, columns []schema.Column) (*schema.Table, error) {
	if _, exists := e.tables[name]; exists {
		return nil, &errors.DuplicateTableError{Table: name}
	}
	s, err := schema.NewSchema(columns)
	if err != nil {
		return nil, err
	}
	tbl := schema.NewTable(name, s)
	e.tables[name] = tbl

	slog.Info("table created", "table", name, "columns", len(columns))
	return tbl, nil
}

// DropTable removes a table and all of its rows.
func (e *Engine) DropTable(name string) error {
	if _, exists := e.tables[name]; !exists {
		return &errors.UnknownTableError{Table: name}
	}
	delete(e.tables, name)

	slog.Info("table dropped", "table", name)
	return nil
}

func (e *Engine) table(name string) (*schema.Table, error) {
	tbl, ok := e.tables[name]
	if !ok {
		return nil, &errors.UnknownTableError{Table: name}
	}
	return tbl, nil
}

// Tables returns the catalog's table names in sorted order.
func (e *Engine) Tables() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableInfo describes one table for the introspection surfaces.
type TableInfo struct {
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

// TableInfos describes every table in the catalog, keyed by name. The
// column entries render as "name TYPE CONSTRAINT".
func (e *Engine) TableInfos() map[string]TableInfo {
	infos := make(map[string]TableInfo, len(e.tables))
	for name, tbl := range e.tables {
		cols := make([]string, 0, tbl.Schema().Len())
		for _, col := range tbl.Schema().Columns() {
			cols = append(cols, col.String())
		}
		infos[name] = TableInfo{Columns: cols, RowCount: tbl.RowCount()}
	}
	return infos
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}

// Close shuts down observers that hold external resources, such as log
// shippers, collecting every error instead of stopping at the first.
func (e *Engine) Close() error {
	var err error
	for _, o := range e.observers {
		if closer, ok := o.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
	}
	return err
}
