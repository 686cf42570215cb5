package match

import (
	"fmt"
	"strings"

	"github.com/veloria-lang/veloria/internal/term"
)

// Example witnesses the shape forced on one major premise by the splits a
// compilation branch has taken. When a branch runs out of alternatives, the
// accumulated examples become the counterexample reported for the missing
// case.
type Example interface {
	fmt.Stringer
	exampleNode()
	// ReplaceVar substitutes an example for every occurrence of the
	// variable witness with the given id.
	ReplaceVar(id term.FVarID, with Example) Example
	// ApplySubst rewrites variable witnesses along a term substitution:
	// variables mapped to variables are renamed, variables mapped to
	// structured terms are decomposed, anything else is erased.
	ApplySubst(s term.Subst) Example
}

// VarExample is an unconstrained position, rendered as "_".
type VarExample struct {
	ID term.FVarID
}

func (e *VarExample) exampleNode() {}

func (e *VarExample) String() string { return "_" }

func (e *VarExample) ReplaceVar(id term.FVarID, with Example) Example {
	if e.ID == id {
		return with
	}
	return e
}

func (e *VarExample) ApplySubst(s term.Subst) Example {
	rep, ok := s[e.ID]
	if !ok {
		return e
	}
	return exampleOfExpr(rep)
}

// UnderscoreExample is a position whose witness was erased.
type UnderscoreExample struct{}

func (e *UnderscoreExample) exampleNode() {}

func (e *UnderscoreExample) String() string { return "_" }

func (e *UnderscoreExample) ReplaceVar(term.FVarID, Example) Example { return e }

func (e *UnderscoreExample) ApplySubst(term.Subst) Example { return e }

// CtorExample is a position forced to a constructor shape.
type CtorExample struct {
	Name term.Name
	Args []Example
}

func (e *CtorExample) exampleNode() {}

func (e *CtorExample) String() string {
	if len(e.Args) == 0 {
		return string(e.Name)
	}
	parts := make([]string, 0, len(e.Args)+1)
	parts = append(parts, string(e.Name))
	for _, a := range e.Args {
		s := a.String()
		if strings.ContainsRune(s, ' ') {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (e *CtorExample) ReplaceVar(id term.FVarID, with Example) Example {
	args := make([]Example, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.ReplaceVar(id, with)
	}
	return &CtorExample{Name: e.Name, Args: args}
}

func (e *CtorExample) ApplySubst(s term.Subst) Example {
	args := make([]Example, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.ApplySubst(s)
	}
	return &CtorExample{Name: e.Name, Args: args}
}

// ValExample is a position forced to one literal value.
type ValExample struct {
	Term term.Expr
}

func (e *ValExample) exampleNode() {}

func (e *ValExample) String() string { return e.Term.String() }

func (e *ValExample) ReplaceVar(term.FVarID, Example) Example { return e }

func (e *ValExample) ApplySubst(term.Subst) Example { return e }

// ArrayLitExample is a position forced to an array literal of a fixed
// length.
type ArrayLitExample struct {
	Elems []Example
}

func (e *ArrayLitExample) exampleNode() {}

func (e *ArrayLitExample) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "#[" + strings.Join(parts, ", ") + "]"
}

func (e *ArrayLitExample) ReplaceVar(id term.FVarID, with Example) Example {
	elems := make([]Example, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.ReplaceVar(id, with)
	}
	return &ArrayLitExample{Elems: elems}
}

func (e *ArrayLitExample) ApplySubst(s term.Subst) Example {
	elems := make([]Example, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.ApplySubst(s)
	}
	return &ArrayLitExample{Elems: elems}
}

// exampleOfExpr rebuilds an example from the term a variable witness was
// substituted by. Heads the engine cannot name collapse to underscore.
func exampleOfExpr(e term.Expr) Example {
	switch x := e.(type) {
	case *term.FVar:
		return &VarExample{ID: x.ID}
	case *term.Lit:
		return &ValExample{Term: x}
	case *term.ArrayLit:
		elems := make([]Example, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = exampleOfExpr(el)
		}
		return &ArrayLitExample{Elems: elems}
	default:
		head, args := term.Spine(e)
		if c, ok := head.(*term.Const); ok {
			exArgs := make([]Example, len(args))
			for i, a := range args {
				exArgs[i] = exampleOfExpr(a)
			}
			return &CtorExample{Name: c.Name, Args: exArgs}
		}
		return &UnderscoreExample{}
	}
}

// varExamples builds one variable witness per declaration.
func varExamples(decls []term.LocalDecl) []Example {
	out := make([]Example, len(decls))
	for i, d := range decls {
		out[i] = &VarExample{ID: d.ID}
	}
	return out
}

// FormatExamples renders one counterexample row the way the frontend
// reports missing cases.
func FormatExamples(row []Example) string {
	parts := make([]string, len(row))
	for i, e := range row {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
