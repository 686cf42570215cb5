package match

import (
	"strings"

	"github.com/veloria-lang/veloria/internal/position"
	"github.com/veloria-lang/veloria/internal/term"
)

// AltLHS is one user-written alternative as handed to the compiler: the
// pattern variables it declares, and one pattern per major premise.
type AltLHS struct {
	Span     position.Span
	Entries  []term.LocalDecl
	Patterns []Pattern
}

// Alt is one working alternative inside the compilation. Alternatives are
// immutable; every transition that touches one produces a replacement.
type Alt struct {
	// Idx is the alternative's position in the user's definition. Several
	// working alternatives may share an index after a wildcard has been
	// expanded into constructors.
	Idx      int
	RHS      term.Expr
	Entries  []term.LocalDecl
	Patterns []Pattern
}

func (a *Alt) String() string {
	parts := make([]string, len(a.Patterns))
	for i, p := range a.Patterns {
		parts[i] = p.String()
	}
	rhs := "?"
	if a.RHS != nil {
		rhs = a.RHS.String()
	}
	return "| " + strings.Join(parts, ", ") + " => " + rhs
}

// firstPattern returns the alternative's leading pattern, or nil if none
// remain.
func (a *Alt) firstPattern() Pattern {
	if len(a.Patterns) == 0 {
		return nil
	}
	return a.Patterns[0]
}

// popPattern drops the leading pattern.
func (a *Alt) popPattern() *Alt {
	return &Alt{Idx: a.Idx, RHS: a.RHS, Entries: a.Entries, Patterns: a.Patterns[1:]}
}

// withPatterns replaces the pattern list.
func (a *Alt) withPatterns(ps []Pattern) *Alt {
	return &Alt{Idx: a.Idx, RHS: a.RHS, Entries: a.Entries, Patterns: ps}
}

// applySubst rewrites the right-hand side, the entry types, and every
// pattern along a goal-level substitution.
func (a *Alt) applySubst(s term.Subst) *Alt {
	if s.IsEmpty() {
		return a
	}
	return &Alt{
		Idx:      a.Idx,
		RHS:      s.Apply(a.RHS),
		Entries:  term.LocalContext(a.Entries).ApplySubst(s),
		Patterns: applySubstPatterns(a.Patterns, s),
	}
}

// bindVar resolves the pattern variable id to the term e: the variable's
// entry disappears and every occurrence in the right-hand side, the
// remaining entry types, and the remaining patterns is replaced.
func (a *Alt) bindVar(id term.FVarID, e term.Expr) *Alt {
	s := term.Singleton(id, e)
	return &Alt{
		Idx:      a.Idx,
		RHS:      s.Apply(a.RHS),
		Entries:  term.LocalContext(a.Entries).Remove(id).ApplySubst(s),
		Patterns: applySubstPatterns(a.Patterns, s),
	}
}
