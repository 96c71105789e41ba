package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

func TestSchemaErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *SchemaError
		want string
	}{
		{"arity", NewArityMismatch("users", 2, 3), "schema error in users: expected 2 values, got 3"},
		{"unknown column", NewUnknownColumn("users", "age"), "schema error in users.age: unknown column"},
		{"type mismatch", NewTypeMismatch("id", "INT", "TEXT"), "schema error in column 'id': expected INT, got TEXT"},
		{"bare", &SchemaError{Reason: "table must have at least one column"}, "schema error: table must have at least one column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstraintErrorMessages(t *testing.T) {
	err := NewPrimaryKeyViolation("users", "id", value.Int(1))
	msg := err.Error()

	for _, part := range []string{"users.id", "primary_key", "value=1", "duplicate primary key"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Expected message to contain %q, got %q", part, msg)
		}
	}

	nullErr := NewNullViolation("users", "id")
	if strings.Contains(nullErr.Error(), "value=") {
		t.Errorf("Null violation should not render a value, got %q", nullErr.Error())
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = NewUniqueViolation("users", "email", value.Text("a@b.c"))

	var cerr *ConstraintError
	if !stderrors.As(err, &cerr) {
		t.Fatal("Expected errors.As to match *ConstraintError")
	}
	if cerr.Column != "email" || cerr.Constraint != "unique" {
		t.Errorf("Unexpected fields: %+v", cerr)
	}

	var serr *SchemaError
	if stderrors.As(err, &serr) {
		t.Error("ConstraintError should not match *SchemaError")
	}
}

func TestTableErrors(t *testing.T) {
	dup := &DuplicateTableError{Table: "users"}
	if dup.Error() != "table 'users' already exists" {
		t.Errorf("Unexpected message: %q", dup.Error())
	}

	unknown := &UnknownTableError{Table: "ghosts"}
	if unknown.Error() != "table 'ghosts' doesn't exist" {
		t.Errorf("Unexpected message: %q", unknown.Error())
	}
}
