package match

import (
	"sort"

	"github.com/veloria-lang/veloria/internal/term"
)

// Compile builds the elimination term for one match definition. motiveType
// is the dependent return type, with one leading binder per major premise;
// lhs holds the user's alternatives, each with exactly one pattern per
// major premise.
//
// The compiled term abstracts the motive, the major premises, and one
// minor premise per alternative, in that order. Missing cases do not abort
// compilation: the corresponding branches are admitted and reported as
// counterexamples, and the caller decides whether to reject the
// definition. All other failures are fatal.
func Compile(host Host, name term.Name, motiveType term.Expr, lhs []AltLHS) (*ElimResult, error) {
	majorDecls, _ := term.DecomposePis(motiveType)
	for i, alt := range lhs {
		if len(alt.Patterns) != len(majorDecls) {
			return nil, arityError(i, len(alt.Patterns), len(majorDecls), alt.Span)
		}
	}

	motive := host.FreshFVar(name.Append("motive"), motiveType)
	majors := term.LocalContext(majorDecls).FVarExprs()

	// one minor premise per alternative: the right-hand side abstracted
	// over the alternative's pattern variables, at the motive instantiated
	// with its patterns
	alts := make([]*Alt, len(lhs))
	minors := make([]term.LocalDecl, len(lhs))
	for i, alt := range lhs {
		patTerms := make([]term.Expr, len(alt.Patterns))
		for j, p := range alt.Patterns {
			patTerms[j] = p.ToExpr()
		}
		minorType := term.MkForall(alt.Entries, term.MkApp(motive.FVarExpr(), patTerms...))
		minors[i] = host.FreshFVar(name.Append("h"), minorType)
		alts[i] = &Alt{
			Idx:      i,
			RHS:      term.MkApp(minors[i].FVarExpr(), term.LocalContext(alt.Entries).FVarExprs()...),
			Entries:  alt.Entries,
			Patterns: alt.Patterns,
		}
	}

	lctx := make(term.LocalContext, 0, 1+len(majorDecls)+len(minors))
	lctx = append(lctx, motive)
	lctx = append(lctx, majorDecls...)
	lctx = append(lctx, minors...)
	root := host.NewGoal(lctx, term.MkApp(motive.FVarExpr(), majors...))

	examples := make([]Example, len(majors))
	for i, m := range majors {
		examples[i] = &VarExample{ID: m.(*term.FVar).ID}
	}

	c := &compiler{host: host, state: NewState()}
	problem := &Problem{Goal: root, Majors: majors, Alts: alts, Examples: examples}
	if err := c.process(problem, 0); err != nil {
		return nil, err
	}

	body := host.Instantiate(&term.Meta{ID: root})
	compiled := term.MkLambda(lctx, body)

	var unused []int
	for i := range lhs {
		if !c.state.Used[i] {
			unused = append(unused, i)
		}
	}
	sort.Ints(unused)

	return &ElimResult{
		Compiled:        compiled,
		CounterExamples: c.state.CounterExamples,
		UnusedAltIdxs:   unused,
	}, nil
}
