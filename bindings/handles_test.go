package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, data []byte) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("Failed to parse response %s: %v", data, err)
	}
	return resp
}

func TestHandlesLifecycle(t *testing.T) {
	h := newHandles()

	first, err := h.open("")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	second, err := h.open(`{"maxBytes": 1024, "format": "csv"}`)
	if err != nil {
		t.Fatalf("open with options failed: %v", err)
	}
	if first == second {
		t.Fatalf("Expected distinct handles, got %d twice", first)
	}

	engine, err := h.get(second)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if engine.Options.MaxBytes != 1024 || engine.Options.Format != "csv" {
		t.Errorf("Options not applied: %+v", engine.Options)
	}

	h.close(first)
	resp := decode(t, h.execute(first, "SHOW TABLES"))
	if resp.Success || !strings.Contains(resp.Error, "invalid handle") {
		t.Errorf("Expected invalid handle error, got %+v", resp)
	}
}

func TestHandlesOpenInvalidOptions(t *testing.T) {
	if _, err := newHandles().open("maxBytes: [unterminated"); err == nil {
		t.Error("Expected error for malformed options")
	}
}

func TestHandlesExecute(t *testing.T) {
	h := newHandles()
	handle, err := h.open("")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scores.json")
	if err := os.WriteFile(path, []byte(`[{"team":"a","score":3},{"team":"b","score":5},{"team":"a","score":4}]`), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	resp := decode(t, h.execute(handle, "LOAD scores FROM '"+path+"'"))
	if !resp.Success || resp.Type != "command" {
		t.Fatalf("LOAD failed: %+v", resp)
	}
	var cr CommandResponse
	if err := json.Unmarshal(resp.Result, &cr); err != nil {
		t.Fatalf("Failed to parse command result: %v", err)
	}
	if cr.TablesCreated != 1 || cr.RecordsRead != 3 {
		t.Errorf("Unexpected command result %+v", cr)
	}

	resp = decode(t, h.execute(handle, "SELECT team, SUM(score) AS total FROM scores GROUP BY team ORDER BY team"))
	if !resp.Success || resp.Type != "query" {
		t.Fatalf("SELECT failed: %+v", resp)
	}
	var qr QueryResponse
	if err := json.Unmarshal(resp.Result, &qr); err != nil {
		t.Fatalf("Failed to parse query result: %v", err)
	}
	if diff := cmp.Diff([]string{"team", "total"}, qr.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"a", "7"}, {"b", "5"}}, qr.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	resp = decode(t, h.execute(handle, "SELECT * FROM nope"))
	if resp.Success || resp.Error == "" {
		t.Errorf("Expected error response, got %+v", resp)
	}
}
