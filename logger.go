package tac

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Flush() error
}

var log Logger = NullLogger{}

// SetLogger replaces the package logger. A nil logger disables logging.
func SetLogger(l Logger) {
	if l == nil {
		l = NullLogger{}
	}
	log = l
}

type NullLogger struct{}

func (NullLogger) Info(format string, args ...interface{})  {}
func (NullLogger) Debug(format string, args ...interface{}) {}
func (NullLogger) Warn(format string, args ...interface{})  {}
func (NullLogger) Flush() error                             { return nil }

func FileLogger(filepath string) (Logger, error) {
	f, err := os.OpenFile(filepath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0664)
	if err != nil {
		return nil, err
	}
	return NewWriterLogger(f), nil
}

// NewWriterLogger logs to w, one line per message.
func NewWriterLogger(w io.Writer) Logger {
	return &fileLogger{buf: new(bytes.Buffer), out: w}
}

type fileLogger struct {
	mu  sync.Mutex
	buf *bytes.Buffer
	out io.Writer
	err error
}

type level int

const (
	info level = iota
	debug
	warn
)

func (l level) String() string {
	switch l {
	case info:
		return "Info"
	case debug:
		return "Debug"
	case warn:
		return "Warn"
	default:
		assert(false)
		return ""
	}
}

func (f *fileLogger) Info(format string, args ...interface{}) {
	f.log(info, format, args...)
}

func (f *fileLogger) Debug(format string, args ...interface{}) {
	f.log(debug, format, args...)
}

func (f *fileLogger) Warn(format string, args ...interface{}) {
	f.log(warn, format, args...)
	f.Flush()
}

func (f *fileLogger) log(lvl level, format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	format = fmt.Sprintf(
		"%s [%-5s] %s\n",
		time.Now().Format("15:04:05.000000"),
		lvl,
		format,
	)
	if _, err := fmt.Fprintf(f.buf, format, args...); err != nil && f.err == nil {
		f.err = err
	}
	if f.buf.Len() >= maxBufferedLog {
		f.flushLocked()
	}
}

// Debug logging emits a message per chunk, so the buffer is bounded.
const maxBufferedLog = 32 << 10

func (f *fileLogger) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushLocked()
}

func (f *fileLogger) flushLocked() error {
	if f.err != nil {
		return f.err
	}
	_, err := io.Copy(f.out, f.buf)
	f.buf.Reset()
	return err
}
