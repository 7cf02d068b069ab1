// errors.go: scanner failure classes and caret-snippet rendering
//
// Two failure classes exist, and they never mix:
//
//   - *FatalError: the environment violated an invariant — the source file
//     cannot be opened, the byte order mark is malformed, or a buffer
//     position left the known range. Scanning aborts; constructors return
//     the error, later failures surface through Scanner.Err.
//
//   - *SemError: a recoverable report, today only malformed or unrecognized
//     '#'-pragmas. These go through the Reporter capability with a precise
//     position and scanning continues unaffected.
//
// WrapErrorWithSource turns a positioned error into a readable snippet with
// a caret under the offending column:
//
//	LEX ERROR in a.psc at 3:1: unrecognized pragma: "pragma once"
//
//	   2 | method m()
//	   3 | #pragma once
//	     | ^
//	   4 | {}
//
// The snippet includes up to one line of context before and after, numbers
// the lines, and clamps out-of-range coordinates so rendering never fails.
// Output is plain text, suitable for logs and terminals.
package proofscript

import (
	"fmt"
	"strings"
)

// FatalError aborts scanning. It is distinct from ordinary lexical trouble:
// unclassifiable token text is emitted as a KindBad token for the parser,
// never as an error.
type FatalError struct {
	File string
	Msg  string
}

func (e *FatalError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("fatal: %s: %s", e.File, e.Msg)
	}
	return "fatal: " + e.Msg
}

// SemError is a recoverable diagnostic with a 1-based position.
type SemError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *SemError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

// Reporter receives recoverable diagnostics. Reporting never halts scanning.
type Reporter interface {
	SemErr(file string, line, col int, msg string)
}

// ErrorList is the default Reporter: it collects every report in order.
type ErrorList struct {
	list []*SemError
}

func (l *ErrorList) SemErr(file string, line, col int, msg string) {
	l.list = append(l.list, &SemError{File: file, Line: line, Col: col, Msg: msg})
}

// All returns the collected reports in arrival order.
func (l *ErrorList) All() []*SemError { return l.list }

func (l *ErrorList) Len() int { return len(l.list) }

// WrapErrorWithSource augments a *SemError with a caret-annotated snippet of
// the source it points into. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	if e, ok := err.(*SemError); ok {
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", e.File, e.Line, e.Col, e.Msg))
	}
	return err
}

// snippet builds the annotated context block. Coordinates are 1-based and
// clamped to the source bounds.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
