package ps

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/nickyhof/CommitFrame/core"
)

var ErrInvalidJSON = errors.New("invalid JSON row set")

// ReadJSON reads either an array of objects or a single object. Nested
// objects are flattened into parent.child columns and array elements into
// key[i] columns, keeping document order.
func ReadJSON(r io.Reader) ([]core.Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	token, err := dec.Token()
	if err == io.EOF {
		return []core.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	rows := make([]core.Row, 0)
	switch token {
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			token, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
			if token != json.Delim('{') {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidJSON, i)
			}
			row := core.NewRow()
			if err := flattenObject(dec, "", &row); err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if err := closeToken(dec); err != nil {
			return nil, err
		}

	case json.Delim('{'):
		row := core.NewRow()
		if err := flattenObject(dec, "", &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)

	default:
		return nil, fmt.Errorf("%w: expected an array or object", ErrInvalidJSON)
	}
	return rows, nil
}

// flattenObject reads the members of an object whose opening brace was
// already consumed.
func flattenObject(dec *json.Decoder, prefix string, row *core.Row) error {
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("%w: expected object key, got %v", ErrInvalidJSON, token)
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if err := flattenValue(dec, key, row); err != nil {
			return err
		}
	}
	return closeToken(dec)
}

func flattenArray(dec *json.Decoder, prefix string, row *core.Row) error {
	for i := 0; dec.More(); i++ {
		if err := flattenValue(dec, prefix+"["+strconv.Itoa(i)+"]", row); err != nil {
			return err
		}
	}
	return closeToken(dec)
}

func closeToken(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func flattenValue(dec *json.Decoder, key string, row *core.Row) error {
	token, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch token {
	case json.Delim('{'):
		return flattenObject(dec, key, row)
	case json.Delim('['):
		return flattenArray(dec, key, row)
	}

	value, err := core.ValueFromJSONToken(token)
	if err != nil {
		return fmt.Errorf("%w: column %s: %v", ErrInvalidJSON, key, err)
	}
	row.Set(key, value)
	return nil
}

// WriteJSON writes rows as a JSON array of objects, keeping column order.
// Non-finite numbers are written as null.
func WriteJSON(w io.Writer, rows []core.Row) error {
	if rows == nil {
		rows = []core.Row{}
	}
	return json.NewEncoder(w).Encode(rows)
}
