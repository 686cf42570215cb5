// Package diagnostics turns match-compilation outcomes into leveled,
// span-annotated diagnostics: missing cases become errors carrying the
// counterexample shapes, and alternatives that can never fire become
// warnings pointing at the alternative.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/veloria-lang/veloria/internal/match"
	"github.com/veloria-lang/veloria/internal/position"
)

// Level represents the severity level of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category represents the category of diagnostic.
type Category int

const (
	CategoryMissingCases Category = iota
	CategoryRedundantAlternative
	CategoryCompilerError
)

func (c Category) String() string {
	switch c {
	case CategoryMissingCases:
		return "missing-cases"
	case CategoryRedundantAlternative:
		return "redundant-alternative"
	case CategoryCompilerError:
		return "compiler-error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable finding about a match definition.
type Diagnostic struct {
	Level    Level
	Category Category
	Message  string
	Span     position.Span
}

// String renders the diagnostic in the compiler's one-line format.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Span.IsValid() {
		fmt.Fprintf(&b, "%s: ", d.Span)
	}
	fmt.Fprintf(&b, "%s[%s]: %s", d.Level, d.Category, d.Message)
	return b.String()
}

// Report collects the diagnostics of one definition.
type Report struct {
	Target      string
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// String renders every diagnostic, one per line.
func (r *Report) String() string {
	lines := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// FromResult builds the report for a compiled match definition. alts must
// be the same alternatives the compiler consumed, for span lookup.
func FromResult(target string, result *match.ElimResult, alts []match.AltLHS) *Report {
	r := &Report{Target: target}
	for _, row := range result.CounterExamples {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Level:    LevelError,
			Category: CategoryMissingCases,
			Message:  fmt.Sprintf("missing case: %s", match.FormatExamples(row)),
		})
	}
	for _, idx := range result.UnusedAltIdxs {
		d := Diagnostic{
			Level:    LevelWarning,
			Category: CategoryRedundantAlternative,
			Message:  fmt.Sprintf("alternative #%d can never be selected", idx+1),
		}
		if idx < len(alts) {
			d.Span = alts[idx].Span
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}
	return r
}

// FromError builds the report for a fatal compilation error.
func FromError(target string, err error) *Report {
	d := Diagnostic{
		Level:    LevelError,
		Category: CategoryCompilerError,
		Message:  err.Error(),
	}
	var ce *match.CompileError
	if errors.As(err, &ce) {
		d.Span = ce.Span
	}
	return &Report{Target: target, Diagnostics: []Diagnostic{d}}
}
