package core

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Field is a single column/value pair used to build rows.
type Field struct {
	Name  string
	Value Value
}

// F builds a Field from a plain Go value. It panics on unsupported types.
func F(name string, value any) Field {
	return Field{Name: name, Value: MustValue(value)}
}

// Row is an ordered mapping from column name to Value.
type Row struct {
	keys   []string
	values map[string]Value
}

func NewRow(fields ...Field) Row {
	row := Row{
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		row.Set(f.Name, f.Value)
	}
	return row
}

// RowFromMap builds a row from a map. Keys are added in the given order;
// keys of m not listed in order are appended in unspecified order.
func RowFromMap(m map[string]any, order ...string) (Row, error) {
	row := NewRow()
	for _, k := range order {
		v, ok := m[k]
		if !ok {
			continue
		}
		value, err := FromAny(v)
		if err != nil {
			return Row{}, fmt.Errorf("column %s: %w", k, err)
		}
		row.Set(k, value)
	}
	for k, v := range m {
		if row.Has(k) {
			continue
		}
		value, err := FromAny(v)
		if err != nil {
			return Row{}, fmt.Errorf("column %s: %w", k, err)
		}
		row.Set(k, value)
	}
	return row, nil
}

// Keys returns the column names in insertion order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r Row) Len() int {
	return len(r.keys)
}

func (r Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value of a column, or null if the row lacks it.
func (r Row) Value(name string) Value {
	return r.values[name]
}

// Set assigns a column. New columns are appended; existing ones keep their
// position.
func (r *Row) Set(name string, value Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

// Delete removes a column. It is a no-op when the column is absent.
func (r *Row) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, k := range r.keys {
		if k == name {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

func (r Row) Clone() Row {
	clone := Row{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(clone.keys, r.keys)
	for k, v := range r.values {
		clone.values[k] = v
	}
	return clone
}

// Merge returns a shallow merge of r and secondary. Columns of r keep their
// order, secondary wins on name collisions, and columns only present in
// secondary are appended.
func (r Row) Merge(secondary Row) Row {
	merged := r.Clone()
	for _, k := range secondary.keys {
		merged.Set(k, secondary.values[k])
	}
	return merged
}

// Project returns a row holding only the named columns. Columns the row
// lacks are set to null.
func (r Row) Project(names []string) Row {
	projected := Row{
		keys:   make([]string, 0, len(names)),
		values: make(map[string]Value, len(names)),
	}
	for _, name := range names {
		projected.Set(name, r.values[name])
	}
	return projected
}

// Map returns the row as a plain map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.values[k].Any()
	}
	return m
}

// FetchDataTypes returns the type tag of every column of row. An empty row
// yields an empty map.
func FetchDataTypes(row Row) map[string]Kind {
	types := make(map[string]Kind, len(row.keys))
	for _, k := range row.keys {
		types[k] = row.values[k].Kind()
	}
	return types
}

// MarshalJSON encodes the row as a JSON object in column order. Non-finite
// numbers are written as null.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, r.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case StringKind:
		s, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(s)
	case NumberKind:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
		}
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.b))
	default:
		buf.WriteString("null")
	}
	return nil
}

var ErrNestedValue = errors.New("nested values are not supported in a row")

// UnmarshalJSON decodes a flat JSON object, keeping key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	token, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", token)
	}

	row := NewRow()
	for dec.More() {
		token, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", token)
		}

		token, err = dec.Token()
		if err != nil {
			return err
		}
		value, err := ValueFromJSONToken(token)
		if err != nil {
			return fmt.Errorf("column %s: %w", key, err)
		}
		row.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}

// ValueFromJSONToken converts a scalar token from a json.Decoder (with
// UseNumber enabled) into a Value.
func ValueFromJSONToken(token json.Token) (Value, error) {
	switch t := token.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(n), nil
	case float64:
		return Number(t), nil
	case json.Delim:
		return Null(), ErrNestedValue
	default:
		return Null(), fmt.Errorf("unsupported JSON token %v", token)
	}
}
