package ps

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/nickyhof/CommitFrame/core"
)

// ReadFile reads a row set from path. The format comes from opts.Format or
// the file extension. Input is decoded to UTF-8 before parsing.
func ReadFile(ctx context.Context, path string, opts Options) ([]core.Row, error) {
	format, err := DetectFormat(path, opts.Format)
	if err != nil {
		return nil, err
	}

	r, err := Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := readAll(r, opts.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return Decode(bytes.NewReader(text), format, opts.CSV)
}

// Decode parses UTF-8 input in the given format.
func Decode(r io.Reader, format Format, csvOpts CSVOptions) ([]core.Row, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, csvOpts)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Encode writes rows in the given format.
func Encode(w io.Writer, rows []core.Row, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// WriteFile writes rows to path in the format from opts.Format or the file
// extension.
func WriteFile(ctx context.Context, path string, rows []core.Row, opts Options) error {
	format, err := DetectFormat(path, opts.Format)
	if err != nil {
		return err
	}

	w, err := Create(ctx, path, opts)
	if err != nil {
		return err
	}

	if err := Encode(w, rows, format); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return w.Close()
}

// readAll reads r fully, failing with ErrFileTooLarge once more than
// maxBytes have been read. Zero means no limit.
func readAll(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
