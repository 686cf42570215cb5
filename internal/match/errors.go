package match

import (
	"fmt"

	"github.com/veloria-lang/veloria/internal/position"
)

// ErrorKind classifies fatal match-compilation errors.
type ErrorKind int

const (
	// ErrKindArity: an alternative's pattern count does not match the
	// number of major premises.
	ErrKindArity ErrorKind = iota
	// ErrKindUnhandledShape: no transition applies to a problem.
	ErrKindUnhandledShape
	// ErrKindDepth: the compilation tree grew past the recursion bound.
	ErrKindDepth
	// ErrKindInternal: a transition saw a pattern shape its guarding
	// predicate excludes, or a collaborator call failed. An engine bug,
	// not a user error.
	ErrKindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindArity:
		return "arity-mismatch"
	case ErrKindUnhandledShape:
		return "unhandled-shape"
	case ErrKindDepth:
		return "depth-exceeded"
	case ErrKindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// CompileError is a fatal error aborting the whole compilation. It carries
// the alternative span or problem description that triggered it.
type CompileError struct {
	Kind    ErrorKind
	Msg     string
	AltIdx  int // offending alternative, -1 when not tied to one
	Span    position.Span
	Problem string // rendering of the offending problem, if any
	Wrapped error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("match compilation failed [%s]: %s", e.Kind, e.Msg)
	if e.AltIdx >= 0 {
		msg = fmt.Sprintf("%s (alternative #%d)", msg, e.AltIdx+1)
	}
	if e.Span.IsValid() {
		msg = fmt.Sprintf("%s at %s", msg, e.Span)
	}
	return msg
}

// Unwrap exposes the collaborator error, if any.
func (e *CompileError) Unwrap() error { return e.Wrapped }

func arityError(altIdx, got, want int, span position.Span) *CompileError {
	return &CompileError{
		Kind:   ErrKindArity,
		Msg:    fmt.Sprintf("alternative has %d patterns but there are %d major premises", got, want),
		AltIdx: altIdx,
		Span:   span,
	}
}

func unhandledShapeError(p *Problem) *CompileError {
	return &CompileError{
		Kind:    ErrKindUnhandledShape,
		Msg:     "no compilation step applies to the remaining alternatives; this shape is not yet implemented",
		AltIdx:  -1,
		Problem: p.String(),
	}
}

func depthError(depth int) *CompileError {
	return &CompileError{
		Kind:   ErrKindDepth,
		Msg:    fmt.Sprintf("exceeded maximum depth %d; likely non-terminating match compilation", depth),
		AltIdx: -1,
	}
}

func internalError(p *Problem, format string, args ...any) *CompileError {
	e := &CompileError{
		Kind:   ErrKindInternal,
		Msg:    fmt.Sprintf(format, args...),
		AltIdx: -1,
	}
	if p != nil {
		e.Problem = p.String()
	}
	return e
}

func hostError(p *Problem, op string, err error) *CompileError {
	e := &CompileError{
		Kind:    ErrKindInternal,
		Msg:     fmt.Sprintf("%s failed: %v", op, err),
		AltIdx:  -1,
		Wrapped: err,
	}
	if p != nil {
		e.Problem = p.String()
	}
	return e
}
