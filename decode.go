package tac

import (
	"bytes"
	"unicode/utf8"
)

// Placeholder stands in for each maximal run of bytes that is not valid
// UTF-8.
const Placeholder = "\uFFFD"

var placeholder = []byte(Placeholder)

// TextLine is a decoded line.
type TextLine struct {
	Offset     int64
	Text       string
	Terminated bool
}

// Decode converts an assembled line to text. It must only ever see whole
// lines: a fragment cut at a chunk boundary may end inside a character.
func Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return string(bytes.ToValidUTF8(b, placeholder))
}

func decodeLine(l Line) TextLine {
	return TextLine{Offset: l.Offset, Text: Decode(l.Bytes), Terminated: l.Terminated}
}
