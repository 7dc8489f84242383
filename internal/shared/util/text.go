package util

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Column converts a byte column to a column counted in UTF-16 code
// units. offset is the byte offset of the position in src and byteColumn its
// distance from the start of the line. Out-of-range input returns byteColumn.
func UTF16Column(src []byte, offset, byteColumn int) int {
	lineStart := offset - byteColumn
	if byteColumn <= 0 || lineStart < 0 || offset > len(src) {
		return byteColumn
	}
	col := 0
	for prefix := src[lineStart:offset]; len(prefix) > 0; {
		r, size := utf8.DecodeRune(prefix)
		if n := utf16.RuneLen(r); n > 0 {
			col += n
		} else {
			col++
		}
		prefix = prefix[size:]
	}
	return col
}

// TruncateRunes shortens s to at most limit bytes without splitting a rune.
func TruncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := max(limit, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
