// Package main provides a TCP statement server for CommitFrame.
package main

import (
	"github.com/goccy/go-json"
)

// Request represents a statement from the client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a statement.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "command" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

// CommandResponse contains the results of statements that change tables.
type CommandResponse struct {
	TablesCreated  int     `json:"tables_created,omitempty"`
	TablesReplaced int     `json:"tables_replaced,omitempty"`
	TablesDeleted  int     `json:"tables_deleted,omitempty"`
	ColumnsAltered int     `json:"columns_altered,omitempty"`
	RecordsRead    int     `json:"records_read,omitempty"`
	RecordsWritten int     `json:"records_written,omitempty"`
	TimeMs         float64 `json:"time_ms"`
}

// AuthResponse contains the result of a successful AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"` // seconds
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}
