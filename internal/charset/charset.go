// Package charset does pure buffer-to-buffer transcoding between named
// character encodings. MySQL-style names (utf8, utf8mb3, utf8mb4) are
// treated as UTF-8 on the Go side.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Auto asks Detect to pick the source encoding.
const Auto = "auto"

var aliases = map[string]string{
	"utf8":    "utf-8",
	"utf8mb3": "utf-8",
	"utf8mb4": "utf-8",
	"latin1":  "windows-1252",
}

func lookup(name string) (encoding.Encoding, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[normalized]; ok {
		normalized = alias
	}
	if normalized == "utf-8" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(normalized)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Detect guesses the encoding of raw bytes: valid UTF-8 is UTF-8,
// everything else is assumed windows-1252.
func Detect(data []byte) string {
	if utf8.Valid(data) {
		return "utf-8"
	}
	return "windows-1252"
}

// Decode converts data from the named encoding to UTF-8.
func Decode(data []byte, name string) ([]byte, error) {
	if name == Auto {
		name = Detect(data)
	}
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode from %s: %w", name, err)
	}
	return decoded, nil
}

// Encode converts UTF-8 data to the named encoding.
func Encode(data []byte, name string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	encoded, err := enc.NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encode to %s: %w", name, err)
	}
	return encoded, nil
}
