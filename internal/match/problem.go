package match

import (
	"fmt"
	"strings"

	"github.com/veloria-lang/veloria/internal/term"
)

// Problem is one node of the compilation tree: an open goal, the major
// premises still to be matched, the alternatives still reachable at this
// node, and the example witnesses accumulated for the original majors.
// A problem is consumed by exactly one transition; its goal handle must not
// be reused afterwards.
type Problem struct {
	Goal   term.GoalID
	Majors []term.Expr
	Alts   []*Alt
	// Examples holds one witness per original major premise. Case splits
	// refine the witness of the split variable in place, so a leaf that ran
	// out of alternatives can report the full input shape.
	Examples []Example
}

func (p *Problem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "goal ?m.%d", p.Goal)
	if len(p.Majors) > 0 {
		parts := make([]string, len(p.Majors))
		for i, m := range p.Majors {
			parts[i] = m.String()
		}
		fmt.Fprintf(&b, " majors [%s]", strings.Join(parts, ", "))
	}
	for _, a := range p.Alts {
		b.WriteString("\n  ")
		b.WriteString(a.String())
	}
	return b.String()
}

// replaceExampleVar refines the witness of one split variable in every
// example slot and rewrites the remaining witnesses along the split
// substitution.
func (p *Problem) replaceExampleVar(id term.FVarID, with Example, s term.Subst) []Example {
	out := make([]Example, len(p.Examples))
	for i, ex := range p.Examples {
		out[i] = ex.ReplaceVar(id, with).ApplySubst(s)
	}
	return out
}

// State is the accumulator threaded through one whole compilation. It is
// owned by the top-level Compile call; branches update it depth-first,
// left to right.
type State struct {
	// Used holds the indices of alternatives that closed some leaf.
	Used map[int]bool
	// CounterExamples holds one row of example witnesses per unreachable
	// leaf, in the order the leaves were discovered.
	CounterExamples [][]Example
}

// NewState creates an empty accumulator.
func NewState() *State {
	return &State{Used: make(map[int]bool)}
}

// ElimResult is the outcome of one match compilation.
type ElimResult struct {
	// Compiled is the closed elimination term, abstracted over the motive,
	// the major premises, and one minor premise per alternative.
	Compiled term.Expr
	// CounterExamples lists input shapes no alternative covers, one row of
	// witnesses per original major premise.
	CounterExamples [][]Example
	// UnusedAltIdxs lists alternatives that can never fire, in declaration
	// order.
	UnusedAltIdxs []int
}
