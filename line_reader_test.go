package tac

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func bufferContent(s string) *BufferContent {
	c := NewBufferContent()
	c.ReadFrom(strings.NewReader(s))
	return c
}

// readBackward drains a reader, copying each line since the bytes are only
// valid until the next call.
func readBackward(t *testing.T, c Content, bufSize int, sep byte) []textLine {
	t.Helper()
	reader := NewBackwardLineReader(c, bufSize, sep)
	var got []textLine
	for {
		line, err := reader.ReadLine()
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		got = append(got, textLine{line.Offset, string(line.Bytes), line.Terminated})
	}
}

func texts(lines []textLine) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestBackwardLineReaderSuccess(t *testing.T) {
	for _, test := range []struct {
		input string
		lines []string
	}{
		{"", nil},
		{"0", []string{"0"}},
		{"\n", []string{""}},
		{"\n\n", []string{"", ""}},
		{"0123", []string{"0123"}},
		{"0123\n", []string{"0123"}},
		{"01234567890\n", []string{"01234567890"}},
		{"a\nb\nc", []string{"c", "b", "a"}},
		{"a\nb\n", []string{"b", "a"}},
		{"a\n\nb\n\n", []string{"", "b", "", "a"}},
		{"\nabc", []string{"abc", ""}},
		{"first\nsecond\nlong long long line", []string{"long long long line", "second", "first"}},
	} {
		for _, bufSize := range []int{1, 2, 3, 4, 7, 10, DefaultBufSize} {
			got := texts(readBackward(t, bufferContent(test.input), bufSize, '\n'))
			if !reflect.DeepEqual(got, test.lines) {
				t.Errorf("input=%q bufsize=%d Got=%q Want=%q", test.input, bufSize, got, test.lines)
			}
		}
	}
}

func TestBackwardLineReaderTerminated(t *testing.T) {
	for _, test := range []struct {
		input string
		want  []bool
	}{
		{"a\nb\nc", []bool{false, true, true}},
		{"a\nb\n", []bool{true, true}},
		{"\n", []bool{true}},
		{"abc", []bool{false}},
	} {
		var got []bool
		for _, l := range readBackward(t, bufferContent(test.input), 2, '\n') {
			got = append(got, l.Terminated)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("input=%q Got=%v Want=%v", test.input, got, test.want)
		}
	}
}

func TestBackwardLineReaderOffsets(t *testing.T) {
	input := "alpha\n\nbeta gamma\ndelta\n"
	for _, bufSize := range []int{1, 3, 5, 64} {
		for _, l := range readBackward(t, bufferContent(input), bufSize, '\n') {
			if got := input[l.Offset : l.Offset+int64(len(l.Text))]; got != l.Text {
				t.Errorf("bufsize=%d offset=%d Got=%q Want=%q", bufSize, l.Offset, got, l.Text)
			}
		}
	}
}

func TestBackwardLineReaderLongLine(t *testing.T) {
	long := strings.Repeat("0123456789", 1000)
	input := "short\n" + long + "\nend\n"
	for _, bufSize := range []int{1, 3, 64, 999} {
		got := texts(readBackward(t, bufferContent(input), bufSize, '\n'))
		want := []string{"end", long, "short"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("bufsize=%d: long line not reassembled", bufSize)
		}
	}
}

// reassemble puts emitted lines back in file order with their terminators.
func reassemble(lines []textLine, sep byte) []byte {
	var buf bytes.Buffer
	for i := len(lines) - 1; i >= 0; i-- {
		buf.WriteString(lines[i].Text)
		if lines[i].Terminated {
			buf.WriteByte(sep)
		}
	}
	return buf.Bytes()
}

func randomInput(r *rand.Rand) []byte {
	alphabet := []byte("ab\n\n\xc3\xa9\xff ")
	b := make([]byte, r.Intn(200))
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return b
}

func TestBackwardLineReaderRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		input := randomInput(r)
		var first []textLine
		for j, bufSize := range []int{1, 2, 3, 7, 64, DefaultBufSize} {
			lines := readBackward(t, bufferContent(string(input)), bufSize, '\n')
			if got := reassemble(lines, '\n'); !bytes.Equal(got, input) {
				t.Fatalf("input=%q bufsize=%d reassembled=%q", input, bufSize, got)
			}
			if j == 0 {
				first = lines
			} else if !reflect.DeepEqual(lines, first) {
				t.Fatalf("input=%q bufsize=%d differs from bufsize=1", input, bufSize)
			}
		}
	}
}

type failingContent struct {
	size   int64
	failAt int64
	reads  int
}

var errBrokenDisk = errors.New("broken disk")

func (f *failingContent) Size() int64 { return f.size }

func (f *failingContent) Slice(start, end int64) ([]byte, error) {
	f.reads++
	if start < f.failAt {
		return nil, fmt.Errorf("%w: %w", ErrRead, errBrokenDisk)
	}
	return bytes.Repeat([]byte("x\n"), int(end-start)/2), nil
}

func (f *failingContent) Close() error { return nil }

func TestBackwardLineReaderReadError(t *testing.T) {
	c := &failingContent{size: 8, failAt: 4}
	reader := NewBackwardLineReader(c, 4, '\n')
	var err error
	for err == nil {
		_, err = reader.ReadLine()
	}
	if !errors.Is(err, ErrRead) || !errors.Is(err, errBrokenDisk) {
		t.Fatalf("Got=%v Want ErrRead", err)
	}
	reads := c.reads
	if _, again := reader.ReadLine(); again != err {
		t.Errorf("Got=%v Want the same error again", again)
	}
	if c.reads != reads {
		t.Errorf("failed read was retried")
	}
}
