// Package charset converts between Go strings and bytes in a named text
// encoding. Names follow the WHATWG Encoding Standard labels
// ("utf-8", "latin1", "windows-1252", "shift_jis", "utf-16le", ...).
package charset

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is the encoding used when no name is given.
const Default = "utf-8"

// ErrUnknownEncoding is returned for labels the Encoding Standard does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Lookup returns the encoding registered under name.
// An empty name selects UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	return enc, nil
}

// Decode converts data in the named encoding to a string.
// Invalid sequences become U+FFFD.
func Decode(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}

	return string(out), nil
}

// Encode converts text to bytes in the named encoding. Characters the
// encoding cannot represent are an error.
func Encode(text, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	return out, nil
}
