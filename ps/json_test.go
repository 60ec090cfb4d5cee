package ps

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nickyhof/CommitFrame/core"
)

func TestReadJSONArray(t *testing.T) {
	input := `[
		{"id": 1, "name": "Alice", "address": {"city": "Berlin", "geo": {"lat": 52.5}}},
		{"id": 2, "name": "Bob", "tags": ["a", "b"], "orders": [{"sku": "x1"}, {"sku": "y2"}], "manager": null}
	]`

	rows, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	want := []string{
		`{"id":1,"name":"Alice","address.city":"Berlin","address.geo.lat":52.5}`,
		`{"id":2,"name":"Bob","tags[0]":"a","tags[1]":"b","orders[0].sku":"x1","orders[1].sku":"y2","manager":null}`,
	}
	if diff := cmp.Diff(want, rowsJSON(t, rows)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONSingleObject(t *testing.T) {
	rows, err := ReadJSON(strings.NewReader(`{"z": true, "a": [[1, 2]]}`))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	want := []string{`{"z":true,"a[0][0]":1,"a[0][1]":2}`}
	if diff := cmp.Diff(want, rowsJSON(t, rows)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	rows, err = ReadJSON(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Len() != 0 {
		t.Errorf("Expected a single empty row, got %v", rowsJSON(t, rows))
	}
}

func TestReadJSONInvalid(t *testing.T) {
	for _, input := range []string{`[1, 2]`, `"text"`, `[{"a": }]`, `{"a": 1`} {
		if _, err := ReadJSON(strings.NewReader(input)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("ReadJSON(%s): expected ErrInvalidJSON, got %v", input, err)
		}
	}
}

func TestReadJSONEmpty(t *testing.T) {
	for _, input := range []string{"", "[]"} {
		rows, err := ReadJSON(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ReadJSON(%q) failed: %v", input, err)
		}
		if len(rows) != 0 {
			t.Errorf("ReadJSON(%q): expected no rows, got %d", input, len(rows))
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rows := []core.Row{
		core.NewRow(core.F("z", 1), core.F("a", "x"), core.F("n", nil)),
		core.NewRow(core.F("inf", math.Inf(1)), core.F("ok", true)),
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := `[{"z":1,"a":"x","n":null},{"inf":null,"ok":true}]` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("Expected [], got %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	rows := []core.Row{
		core.NewRow(core.F("id", 1), core.F("name", "Alice"), core.F("score", 9.75)),
		core.NewRow(core.F("id", 2), core.F("name", "Bob"), core.F("score", nil)),
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if diff := cmp.Diff(rowsJSON(t, rows), rowsJSON(t, got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
