// Package contract reports programmer errors: broken preconditions that
// indicate a logic bug rather than bad runtime data.
package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Violation is the panic value raised by Assert and Failf.
type Violation struct {
	File    string
	Line    int
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("contract violation at %s:%d: %s", v.File, v.Line, v.Message)
}

// Assert panics with a *Violation when cond is false.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(newViolation(fmt.Sprintf(format, args...)))
}

// Failf always panics with a *Violation.
func Failf(format string, args ...any) {
	panic(newViolation(fmt.Sprintf(format, args...)))
}

func newViolation(msg string) *Violation {
	// skip newViolation and Assert/Failf
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "?"
	}
	return &Violation{File: filepath.Base(file), Line: line, Message: msg}
}
