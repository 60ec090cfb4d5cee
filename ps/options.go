package ps

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrUnknownEncoding   = errors.New("unable to detect file encoding")
	ErrUnknownFormat     = errors.New("unknown file format")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrReadOnly          = errors.New("source does not support writing")
)

// Format is the serialization of a row set.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// DetectFormat returns explicit when set, otherwise the format named by the
// extension of location.
func DetectFormat(location string, explicit Format) (Format, error) {
	if explicit != "" {
		return ParseFormat(string(explicit))
	}
	// git sources may carry a trailing @ref
	if i := strings.LastIndex(location, "@"); i > strings.LastIndex(location, "/") {
		location = location[:i]
	}
	ext := strings.TrimPrefix(path.Ext(location), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: no extension in %s", ErrUnknownFormat, location)
	}
	return ParseFormat(ext)
}

// S3Config contains S3 authentication configuration. Empty fields fall back
// to the default AWS credential chain.
type S3Config struct {
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // Optional: custom S3-compatible endpoint
}

// Options control how row sets are read and written.
type Options struct {
	// Format overrides the format detected from the file extension.
	Format Format `yaml:"format"`
	// MaxBytes rejects inputs larger than this many bytes. Zero means no
	// limit.
	MaxBytes int64 `yaml:"maxBytes"`
	// HTTPTimeout bounds HTTP reads. Zero uses five minutes.
	HTTPTimeout time.Duration `yaml:"httpTimeout"`

	S3  S3Config   `yaml:"s3"`
	Git *GitAuth   `yaml:"git"`
	CSV CSVOptions `yaml:"csv"`
}

func (o Options) httpTimeout() time.Duration {
	if o.HTTPTimeout <= 0 {
		return 5 * time.Minute
	}
	return o.HTTPTimeout
}
