package ps

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8        = "UTF-8"
	EncodingUTF16LE     = "UTF-16LE"
	EncodingUTF16BE     = "UTF-16BE"
	EncodingWindows1252 = "WINDOWS-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding names the character encoding of data. Byte order marks
// decide first; otherwise valid UTF-8 is UTF-8 and any other text without
// NUL bytes is taken as Windows-1252.
func DetectEncoding(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE, nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE, nil
	case bytes.IndexByte(data, 0) >= 0:
		return "", ErrUnknownEncoding
	case utf8.Valid(data):
		return EncodingUTF8, nil
	default:
		return EncodingWindows1252, nil
	}
}

// DecodeText converts data to UTF-8 and strips any byte order mark.
func DecodeText(data []byte) ([]byte, error) {
	name, err := DetectEncoding(data)
	if err != nil {
		return nil, err
	}

	var enc encoding.Encoding
	switch name {
	case EncodingUTF8:
		return bytes.TrimPrefix(data, bomUTF8), nil
	case EncodingUTF16LE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		enc = charmap.Windows1252
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return out, nil
}
