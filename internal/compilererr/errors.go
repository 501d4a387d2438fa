// Package compilererr defines the two error categories the compiler ever
// returns: a rejected-but-well-formed source (CompileError) and an
// invariant violation inside the compiler itself (InternalError). Per the
// driver's contract, neither carries source-location information — just a
// message, printed verbatim to standard error.
package compilererr

import "fmt"

// CompileError signals that the input source is well-formed lexically and
// syntactically but is rejected by semantic analysis: a name collision, a
// type mismatch, an out-of-range literal, reassignment to an immutable
// place, a break outside a loop, a missing main, and so on.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return e.Message }

// NewCompileError formats a CompileError the way fmt.Errorf formats an
// error, without wrapping.
func NewCompileError(format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}

// InternalError signals a compiler invariant violation: a node id missing
// from a table a later pass is supposed to have filled, an unreachable
// switch arm taken, or similar. It is never expected to surface from a
// correct implementation running over source that passed earlier passes.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return e.Message }

// NewInternalError formats an InternalError the way fmt.Errorf formats an
// error, without wrapping.
func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
