package schema

import (
	stderrors "errors"
	"testing"

	dberrors "github.com/kihiko-jay/mini-rdbms/internal/domain/errors"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

func TestColumnValidate(t *testing.T) {
	intCol := Column{Name: "id", Type: TypeInt}
	textCol := Column{Name: "name", Type: TypeText}

	tests := []struct {
		name    string
		col     Column
		v       value.Value
		wantErr bool
	}{
		{"int accepts int", intCol, value.Int(42), false},
		{"int rejects text", intCol, value.Text("42"), true},
		{"text accepts text", textCol, value.Text("alice"), false},
		{"text rejects int", textCol, value.Int(1), true},
		{"int accepts null", intCol, value.Null(), false},
		{"text accepts null", textCol, value.Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.col.Validate(tt.v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}
				var serr *dberrors.SchemaError
				if !stderrors.As(err, &serr) {
					t.Errorf("Expected *SchemaError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !got.Equal(tt.v) {
				t.Errorf("Validate changed the value: got %v, want %v", got, tt.v)
			}
		})
	}
}

func TestColumnString(t *testing.T) {
	tests := []struct {
		col  Column
		want string
	}{
		{Column{Name: "id", Type: TypeInt, Constraint: ConstraintPrimaryKey}, "id INT PRIMARY KEY"},
		{Column{Name: "email", Type: TypeText, Constraint: ConstraintUnique}, "email TEXT UNIQUE"},
		{Column{Name: "name", Type: TypeText}, "name TEXT"},
	}

	for _, tt := range tests {
		if got := tt.col.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColumnIndexed(t *testing.T) {
	if (Column{Name: "n", Type: TypeText}).Indexed() {
		t.Error("Unconstrained column should not be indexed")
	}
	if !(Column{Name: "id", Type: TypeInt, Constraint: ConstraintPrimaryKey}).Indexed() {
		t.Error("PRIMARY KEY column should be indexed")
	}
	if !(Column{Name: "email", Type: TypeText, Constraint: ConstraintUnique}).Indexed() {
		t.Error("UNIQUE column should be indexed")
	}
}
