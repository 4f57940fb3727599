// Package logging provides the thin output abstraction used across the
// core. It is deliberately not a structured-logging framework: every stage
// either writes a human-readable line through an Output, or returns an
// error for the caller to decide what to do with.
package logging

import (
	"fmt"
	"io"
	"os"
)

// Level controls which messages reach the underlying Output.
type Level int

// Verbosity levels, from least to most chatty.
const (
	LevelQuiet Level = iota
	LevelInfo
	LevelVerbose
)

// Output defines a uniform interface to write to some stream.
type Output interface {
	Print(text string) (int, error)
	Println(text string) (int, error)
	Printf(format string, args ...interface{}) (int, error)
	Printfln(format string, args ...interface{}) (int, error)
}

// PlainOutput is an Output device which writes data in a raw format to
// an underlying io.Writer.
type PlainOutput struct {
	Device io.Writer
}

// Print writes text to this output stream.
func (o *PlainOutput) Print(text string) (int, error) {
	return fmt.Fprint(o.Device, text)
}

// Println writes text and a line break to this output stream.
func (o *PlainOutput) Println(text string) (int, error) {
	return fmt.Fprintln(o.Device, text)
}

// Printf writes text generated from a format string to this output stream.
func (o *PlainOutput) Printf(format string, args ...interface{}) (int, error) {
	return fmt.Fprintf(o.Device, format, args...)
}

// Printfln writes text and a line break, generated from a format string.
func (o *PlainOutput) Printfln(format string, args ...interface{}) (int, error) {
	return fmt.Fprintf(o.Device, format+"\n", args...)
}

// Logger wraps an Output with a verbosity gate, so callers can emit
// progress/debug lines that are silent unless --verbose-equivalent is set.
type Logger struct {
	out     Output
	level   Level
	Verbose bool
}

// New builds a Logger writing to stderr at the given level.
func New(level Level) *Logger {
	return &Logger{out: &PlainOutput{Device: os.Stderr}, level: level}
}

// Infof logs a message visible at LevelInfo and above.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.out.Printfln(format, args...)
	}
}

// Debugf logs a message visible only at LevelVerbose.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelVerbose {
		l.out.Printfln("debug: "+format, args...)
	}
}

// Warnf always logs a message; warnings are never suppressed.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.out.Printfln("warning: "+format, args...)
}
