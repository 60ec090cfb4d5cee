package core

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestRowKeepsInsertionOrder(t *testing.T) {
	row := NewRow(F("id", 1), F("name", "Alice"))
	row.Set("age", Number(30))
	row.Set("id", Number(2))

	if diff := cmp.Diff([]string{"id", "name", "age"}, row.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := row.Value("id").Float(); v != 2 {
		t.Errorf("Expected id 2, got %v", v)
	}
}

func TestRowDelete(t *testing.T) {
	row := NewRow(F("a", 1), F("b", 2), F("c", 3))
	row.Delete("b")
	row.Delete("missing")

	if diff := cmp.Diff([]string{"a", "c"}, row.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if row.Has("b") {
		t.Error("Column b should be gone")
	}
}

func TestRowMergeSecondaryWins(t *testing.T) {
	primary := NewRow(F("id", 1), F("name", "John"), F("age", 20))
	secondary := NewRow(F("age", 30), F("email", "john@example.com"))

	merged := primary.Merge(secondary)

	if diff := cmp.Diff([]string{"id", "name", "age", "email"}, merged.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if age, _ := merged.Value("age").Float(); age != 30 {
		t.Errorf("Expected secondary age 30, got %v", age)
	}
	if age, _ := primary.Value("age").Float(); age != 20 {
		t.Errorf("Merge must not modify the primary row, got age %v", age)
	}
}

func TestRowCloneIsIndependent(t *testing.T) {
	row := NewRow(F("a", 1))
	clone := row.Clone()
	clone.Set("a", Number(5))
	clone.Set("b", Number(6))

	if v, _ := row.Value("a").Float(); v != 1 {
		t.Errorf("Original changed through clone: %v", v)
	}
	if row.Len() != 1 {
		t.Errorf("Expected 1 column in original, got %d", row.Len())
	}
}

func TestRowProjectMissingIsNull(t *testing.T) {
	row := NewRow(F("a", 1), F("b", "x"))
	projected := row.Project([]string{"b", "z"})

	if diff := cmp.Diff([]string{"b", "z"}, projected.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if !projected.Value("z").IsNull() {
		t.Error("Missing column should project to null")
	}
}

func TestFetchDataTypes(t *testing.T) {
	row := NewRow(F("name", "Alice"), F("age", 30), F("active", true), F("note", nil))
	types := FetchDataTypes(row)

	want := map[string]Kind{
		"name":   StringKind,
		"age":    NumberKind,
		"active": BoolKind,
		"note":   NullKind,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	if len(FetchDataTypes(NewRow())) != 0 {
		t.Error("Empty row should yield an empty type map")
	}
	if len(FetchDataTypes(Row{})) != 0 {
		t.Error("Zero row should yield an empty type map")
	}
}

func TestRowJSONRoundTripKeepsOrder(t *testing.T) {
	input := `{"z":1,"a":"x","m":true,"n":null,"f":2.5}`

	var row Row
	if err := json.Unmarshal([]byte(input), &row); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "m", "n", "f"}, row.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != input {
		t.Errorf("Expected %s, got %s", input, out)
	}
}

func TestRowJSONRejectsNested(t *testing.T) {
	var row Row
	if err := json.Unmarshal([]byte(`{"a":{"b":1}}`), &row); err == nil {
		t.Fatal("Expected error for nested object")
	}
}

func TestRowJSONNonFiniteIsNull(t *testing.T) {
	row := NewRow(F("x", math.NaN()), F("y", math.Inf(1)))
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"x":null,"y":null}` {
		t.Errorf("Unexpected JSON: %s", out)
	}
}

func TestRowFromMap(t *testing.T) {
	row, err := RowFromMap(map[string]any{"b": 2, "a": "x"}, "a", "b")
	if err != nil {
		t.Fatalf("RowFromMap failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, row.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := RowFromMap(map[string]any{"bad": []int{1}}); err == nil {
		t.Error("Expected error for unsupported value")
	}
}
