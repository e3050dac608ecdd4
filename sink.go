package tac

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// Sink receives the output of a run.
type Sink interface {
	// File is called before the lines of each file that opened.
	File(path string) error
	Line(path string, l TextLine) error
	Flush() error
}

type Format string

const (
	FormatText   Format = "text"
	FormatQuoted Format = "quoted"
	FormatJSON   Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatQuoted:
		return FormatQuoted, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// NewSink builds the writer for format. sep is the line terminator of the
// input, written back after each line. headers only affects the text format.
func NewSink(format Format, w io.Writer, headers bool, sep byte) (Sink, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case FormatText, "":
		return &textSink{w: bw, headers: headers, sep: sep}, nil
	case FormatQuoted:
		return &quotedSink{w: bw, sep: sep}, nil
	case FormatJSON:
		return &jsonSink{w: bw, enc: json.NewEncoder(bw)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// textSink writes every line followed by sep, including a first line that
// had no terminator in the input. Headers always end in a newline.
type textSink struct {
	w       *bufio.Writer
	headers bool
	sep     byte
	files   int
}

func (t *textSink) File(path string) error {
	t.files++
	if !t.headers {
		return nil
	}
	if t.files > 1 {
		if err := t.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(t.w, "==> %s <==\n", path)
	return err
}

func (t *textSink) Line(_ string, l TextLine) error {
	if _, err := t.w.WriteString(l.Text); err != nil {
		return err
	}
	return t.w.WriteByte(t.sep)
}

func (t *textSink) Flush() error {
	return t.w.Flush()
}

// quotedSink writes each line as a Go string literal, terminator included,
// one literal per output line.
type quotedSink struct {
	w   *bufio.Writer
	sep byte
}

func (q *quotedSink) File(string) error {
	return nil
}

func (q *quotedSink) Line(_ string, l TextLine) error {
	text := l.Text
	if l.Terminated {
		text += string(q.sep)
	}
	if _, err := q.w.WriteString(strconv.Quote(text)); err != nil {
		return err
	}
	return q.w.WriteByte('\n')
}

func (q *quotedSink) Flush() error {
	return q.w.Flush()
}

type jsonLine struct {
	File   string `json:"file"`
	Offset int64  `json:"offset"`
	Line   string `json:"line"`
}

// jsonSink writes one JSON object per line.
type jsonSink struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (j *jsonSink) File(string) error {
	return nil
}

func (j *jsonSink) Line(path string, l TextLine) error {
	return j.enc.Encode(jsonLine{File: path, Offset: l.Offset, Line: l.Text})
}

func (j *jsonSink) Flush() error {
	return j.w.Flush()
}
