// Package encoding provides text encoding utilities for model scripts.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns script bytes as UTF-8. A UTF-8 byte order mark is
// dropped; input that is not valid UTF-8 is read as Windows-1252, which is
// what older model authoring tools wrote. Trailing NUL and DOS EOF (0x1A)
// padding is trimmed.
func DecodeText(data []byte) []byte {
	data = TrimPadding(data)
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):]
	}
	if utf8.Valid(data) {
		return data
	}
	return Windows1252ToUTF8(data)
}

// Windows1252ToUTF8 converts Windows-1252 encoded bytes to UTF-8.
// Returns the original bytes if conversion fails.
func Windows1252ToUTF8(data []byte) []byte {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return data
	}
	return result
}

// UTF8ToWindows1252 converts a UTF-8 string to Windows-1252 bytes.
// Characters outside the code page are replaced.
func UTF8ToWindows1252(s string) []byte {
	enc := charmap.Windows1252.NewEncoder()
	result, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// TrimPadding removes trailing NUL and 0x1A bytes.
func TrimPadding(data []byte) []byte {
	return bytes.TrimRight(data, "\x00\x1a")
}
