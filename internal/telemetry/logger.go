// Package telemetry is a trimmed, generalized adaptation of the reference's
// hand-rolled leveled logger: the ambient logging facility for the
// collaborator package that has an operational story worth reporting on
// (vptreesync's lock contention). The core vptree package and geoindex take
// no logger at all.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Importance levels, highest-to-lowest. Named after the reference's
// level constants (logger.Debug .. logger.Fatal).
const (
	Debug   int = 9
	Info    int = 7
	Warning int = 5
	Error   int = 3
	Fatal   int = 1
)

const fatalExitCode = 3

// Logger is a mutex-protected leveled writer with an optional periodic
// reporting facility (see periodic.go). It should not be copied after
// first use.
type Logger struct {
	writeTo   io.Writer
	writeLock sync.Mutex
	Threshold int
}

// New creates a Logger that writes messages at or above level to w.
func New(w io.Writer, level int) *Logger {
	return &Logger{writeTo: w, Threshold: level}
}

// Log writes a formatted message if level is at or above the logger's
// threshold.
func (l *Logger) Log(level int, format string, args ...interface{}) {
	if level > l.Threshold {
		return
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	l.prefix(level)
	if len(args) == 0 {
		fmt.Fprint(l.writeTo, format)
	} else {
		fmt.Fprintf(l.writeTo, format, args...)
	}
	fmt.Fprintln(l.writeTo)
	if level == Fatal {
		os.Exit(fatalExitCode)
	}
}

func (l *Logger) prefix(level int) {
	if l.Threshold >= Debug {
		fmt.Fprint(l.writeTo, time.Now().Format("2006-01-02 15:04:05 "))
	}
	switch level {
	case Warning:
		fmt.Fprint(l.writeTo, "WARN: ")
	case Error:
		fmt.Fprint(l.writeTo, "ERROR: ")
	case Fatal:
		fmt.Fprint(l.writeTo, "FATAL: ")
	}
}

func (l *Logger) Debug(format string, args ...interface{})   { l.Log(Debug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.Log(Info, format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.Log(Warning, format, args...) }
func (l *Logger) Error(format string, args ...interface{})   { l.Log(Error, format, args...) }
func (l *Logger) Fatal(format string, args ...interface{})   { l.Log(Fatal, format, args...) }

// FatalIfErr does nothing if err is nil, otherwise logs "failed to <format>: err" at Fatal.
func (l *Logger) FatalIfErr(err error, format string, args ...interface{}) {
	if err != nil {
		args = append(args, err.Error())
		l.Fatal("failed to "+format+": %s", args...)
	}
}

// RoundDuration truncates d to a multiple of to, for terser log lines.
func RoundDuration(d, to time.Duration) string {
	d -= d % to
	return d.String()
}
