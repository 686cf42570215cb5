package match

import "github.com/veloria-lang/veloria/internal/term"

// Host is the capability set the match compiler consumes from the
// elaborator: the three case-split primitives and the term-level helpers.
// All calls are synchronous; the compiler owns the goal handles it passes
// in and a split consumes the goal it is given.
type Host interface {
	// CaseOnVariable splits the goal exhaustively on an inductive-typed
	// variable, one case per constructor.
	CaseOnVariable(goal term.GoalID, scrut term.FVarID) ([]term.CtorCase, error)

	// CaseOnValues splits the goal on a variable against literal values,
	// one case per value plus a final "none matched" case.
	CaseOnValues(goal term.GoalID, scrut term.FVarID, values []term.Expr) ([]term.ValueCase, error)

	// CaseOnArrayLength splits the goal on an array-typed variable against
	// literal lengths, one case per length plus a final case for every
	// other length.
	CaseOnArrayLength(goal term.GoalID, scrut term.FVarID, lengths []int) ([]term.ArrayCase, error)

	// ConstructorsOf returns the constructor signatures of an inductive
	// type, in declaration order.
	ConstructorsOf(typ term.Expr) ([]term.CtorInfo, error)

	// Whnf reduces a term far enough to expose its head.
	Whnf(e term.Expr) (term.Expr, error)

	// AsCtorApp reduces a term and decomposes it as a constructor
	// application.
	AsCtorApp(e term.Expr) (term.Name, []term.Expr, bool)

	// NewGoal opens a fresh goal.
	NewGoal(lctx term.LocalContext, target term.Expr) term.GoalID

	// AssignGoal closes a goal with a value.
	AssignGoal(goal term.GoalID, value term.Expr) error

	// AdmitGoal closes a goal with an admitted hole.
	AdmitGoal(goal term.GoalID) error

	// FreshFVar allocates a fresh free-variable declaration.
	FreshFVar(name term.Name, typ term.Expr) term.LocalDecl

	// Instantiate resolves assigned metavariables in a term.
	Instantiate(e term.Expr) term.Expr
}
