package parser

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText turns raw statement bytes into a string. Brazilian bank
// exports are UTF-8 at best and latin-1 or cp1252 otherwise, so the
// decode ladder tries them in that order.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(out)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(out)
	}
	return string(data)
}
