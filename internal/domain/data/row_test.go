package data

import (
	"encoding/json"
	"testing"

	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

func testRow() Row {
	return NewRow(
		[]string{"id", "name", "nickname"},
		[]value.Value{value.Int(1), value.Text("alice"), value.Null()},
	)
}

func TestRowGet(t *testing.T) {
	row := testRow()

	v, ok := row.Get("name")
	if !ok {
		t.Fatal("Expected column 'name' to exist")
	}
	if !v.Equal(value.Text("alice")) {
		t.Errorf("Expected 'alice', got %v", v)
	}

	if _, ok := row.Get("email"); ok {
		t.Error("Expected column 'email' to be absent")
	}
}

func TestRowSet(t *testing.T) {
	row := testRow()

	if !row.Set("name", value.Text("bob")) {
		t.Fatal("Expected Set on existing column to succeed")
	}
	v, _ := row.Get("name")
	if !v.Equal(value.Text("bob")) {
		t.Errorf("Expected 'bob', got %v", v)
	}

	if row.Set("email", value.Text("x")) {
		t.Error("Expected Set on unknown column to report false")
	}
}

func TestRowCopyIsIndependent(t *testing.T) {
	row := testRow()
	cp := row.Copy()

	row.Set("name", value.Text("mutated"))

	v, _ := cp.Get("name")
	if !v.Equal(value.Text("alice")) {
		t.Errorf("Copy changed after mutating original: got %v", v)
	}
}

func TestRowProject(t *testing.T) {
	row := testRow()

	p := row.Project([]string{"name", "id"})

	cols := p.Columns()
	if len(cols) != 2 || cols[0] != "name" || cols[1] != "id" {
		t.Fatalf("Expected [name id], got %v", cols)
	}
	vals := p.Values()
	if !vals[0].Equal(value.Text("alice")) || !vals[1].Equal(value.Int(1)) {
		t.Errorf("Unexpected projected values: %v", vals)
	}
}

func TestRowMarshalJSONPreservesOrder(t *testing.T) {
	row := testRow()

	got, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	want := `{"id":1,"name":"alice","nickname":null}`
	if string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestPredicateMatches(t *testing.T) {
	row := testRow()

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"match all", MatchAll(), true},
		{"equal int", Equals("id", value.Int(1)), true},
		{"unequal int", Equals("id", value.Int(2)), false},
		{"equal text", Equals("name", value.Text("alice")), true},
		{"type mismatch never matches", Equals("id", value.Text("1")), false},
		{"null matches null", Equals("nickname", value.Null()), true},
		{"null does not match value", Equals("name", value.Null()), false},
		{"unknown column", Equals("email", value.Text("x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(row); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
