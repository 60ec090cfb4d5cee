package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/nickyhof/CommitFrame"
	"github.com/nickyhof/CommitFrame/db"
	"github.com/nickyhof/CommitFrame/ps"
	"gopkg.in/yaml.v3"
)

var ErrInvalidHandle = errors.New("invalid handle")

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns         []string   `json:"columns"`
	Data            [][]string `json:"data"`
	RecordsRead     int        `json:"records_read"`
	ExecutionTimeMs float64    `json:"execution_time_ms"`
	ExecutionOps    int        `json:"execution_ops"`
}

type CommandResponse struct {
	TablesCreated   int     `json:"tables_created,omitempty"`
	TablesReplaced  int     `json:"tables_replaced,omitempty"`
	TablesDeleted   int     `json:"tables_deleted,omitempty"`
	ColumnsAltered  int     `json:"columns_altered,omitempty"`
	RecordsRead     int     `json:"records_read,omitempty"`
	RecordsWritten  int     `json:"records_written,omitempty"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	ExecutionOps    int     `json:"execution_ops"`
}

// handles maps integer handles to open instances.
type handles struct {
	mu        sync.Mutex
	instances map[int]*db.Engine
	next      int
}

var registry = newHandles()

func newHandles() *handles {
	return &handles{
		instances: make(map[int]*db.Engine),
		next:      1,
	}
}

func (h *handles) open(options string) (int, error) {
	var opts ps.Options
	if options != "" {
		if err := yaml.Unmarshal([]byte(options), &opts); err != nil {
			return 0, fmt.Errorf("invalid options: %w", err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	handle := h.next
	h.next++
	h.instances[handle] = CommitFrame.Open(opts).Engine()
	return handle, nil
}

func (h *handles) close(handle int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.instances, handle)
}

func (h *handles) get(handle int) (*db.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	engine, ok := h.instances[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, handle)
	}
	return engine, nil
}

// execute runs query on the handle's engine and encodes the outcome.
func (h *handles) execute(handle int, query string) []byte {
	engine, err := h.get(handle)
	if err != nil {
		return encode(errorResponse(err))
	}
	result, err := engine.Execute(query)
	if err != nil {
		return encode(errorResponse(err))
	}
	return encode(resultResponse(result))
}

func errorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

func resultResponse(result db.Result) Response {
	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:         r.Columns,
			Data:            r.Data,
			RecordsRead:     r.RecordsRead,
			ExecutionTimeMs: r.ExecutionTimeSec * 1000,
			ExecutionOps:    r.ExecutionOps,
		}
		data, _ := json.Marshal(qr)
		return Response{Success: true, Type: "query", Result: data}

	case db.CommandResult:
		cr := CommandResponse{
			TablesCreated:   r.TablesCreated,
			TablesReplaced:  r.TablesReplaced,
			TablesDeleted:   r.TablesDeleted,
			ColumnsAltered:  r.ColumnsAltered,
			RecordsRead:     r.RecordsRead,
			RecordsWritten:  r.RecordsWritten,
			ExecutionTimeMs: r.ExecutionTimeSec * 1000,
			ExecutionOps:    r.ExecutionOps,
		}
		data, _ := json.Marshal(cr)
		return Response{Success: true, Type: "command", Result: data}

	default:
		return Response{Success: true, Type: "unknown"}
	}
}

func encode(resp Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(errorResponse(err))
	}
	return data
}
