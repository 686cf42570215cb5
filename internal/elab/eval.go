package elab

import (
	"fmt"
	"strings"

	"github.com/veloria-lang/veloria/internal/term"
)

// maxWhnfSteps bounds head reduction so that a malformed decision term
// cannot loop the elaborator.
const maxWhnfSteps = 10000

// Whnf reduces e to weak-head normal form: beta reduction, metavariable
// instantiation, and iota reduction of the case principles emitted by the
// split primitives. Reduction stops as soon as the head is a constructor,
// literal, variable, or stuck constant.
func (el *Elaborator) Whnf(e term.Expr) (term.Expr, error) {
	for step := 0; step < maxWhnfSteps; step++ {
		head, args := term.Spine(e)
		switch h := head.(type) {
		case *term.Meta:
			v, ok := el.store.Assignment(h.ID)
			if !ok {
				return e, nil
			}
			e = term.MkApp(v, args...)
		case *term.Lam:
			if len(args) == 0 {
				return e, nil
			}
			body := term.Singleton(h.Param, args[0]).Apply(h.Body)
			e = term.MkApp(body, args[1:]...)
		case *term.Const:
			next, reduced, err := el.iota(h.Name, args)
			if err != nil {
				return nil, err
			}
			if !reduced {
				return e, nil
			}
			e = next
		default:
			return e, nil
		}
	}
	return nil, fmt.Errorf("head reduction of %s exceeded %d steps", e, maxWhnfSteps)
}

// AsCtorApp reduces e to weak-head normal form and decomposes it as a
// constructor application.
func (el *Elaborator) AsCtorApp(e term.Expr) (term.Name, []term.Expr, bool) {
	v, err := el.Whnf(e)
	if err != nil {
		return "", nil, false
	}
	head, args := term.Spine(v)
	c, ok := head.(*term.Const)
	if !ok {
		return "", nil, false
	}
	if _, ok := el.env.Constructor(c.Name); !ok {
		return "", nil, false
	}
	return c.Name, args, true
}

// iota performs one case-principle reduction step, if name heads one.
func (el *Elaborator) iota(name term.Name, args []term.Expr) (term.Expr, bool, error) {
	switch {
	case name == ValCasesConst:
		return el.iotaValues(args)
	case name == ArrayCasesConst:
		return el.iotaArray(args)
	case strings.HasSuffix(string(name), ".cases"):
		indName := term.Name(strings.TrimSuffix(string(name), ".cases"))
		ind, ok := el.env.Inductive(indName)
		if !ok {
			return nil, false, nil
		}
		return el.iotaCtor(ind, args)
	default:
		return nil, false, nil
	}
}

func (el *Elaborator) iotaCtor(ind *Inductive, args []term.Expr) (term.Expr, bool, error) {
	// layout: scrutinee, one minor per constructor
	if len(args) < 1+len(ind.Ctors) {
		return nil, false, nil
	}
	scrut, err := el.Whnf(args[0])
	if err != nil {
		return nil, false, err
	}
	cn, fields, ok := el.AsCtorApp(scrut)
	if !ok {
		return nil, false, nil
	}
	for i, name := range ind.Ctors {
		if name == cn {
			minor := args[1+i]
			rest := args[1+len(ind.Ctors):]
			return term.MkApp(minor, append(fields, rest...)...), true, nil
		}
	}
	return nil, false, fmt.Errorf("constructor %s does not belong to %s", cn, ind.Name)
}

func (el *Elaborator) iotaValues(args []term.Expr) (term.Expr, bool, error) {
	// layout: scrutinee, value/branch pairs, fallback
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, false, nil
	}
	scrut, err := el.Whnf(args[0])
	if err != nil {
		return nil, false, err
	}
	if _, ok := scrut.(*term.Lit); !ok {
		return nil, false, nil
	}
	for i := 1; i+1 < len(args)-1; i += 2 {
		if term.Eq(scrut, args[i]) {
			return args[i+1], true, nil
		}
	}
	return args[len(args)-1], true, nil
}

func (el *Elaborator) iotaArray(args []term.Expr) (term.Expr, bool, error) {
	// layout: scrutinee, length/branch pairs, fallback
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, false, nil
	}
	scrut, err := el.Whnf(args[0])
	if err != nil {
		return nil, false, err
	}
	arr, ok := scrut.(*term.ArrayLit)
	if !ok {
		return nil, false, nil
	}
	for i := 1; i+1 < len(args)-1; i += 2 {
		lit, ok := args[i].(*term.Lit)
		if !ok || lit.Val.Kind != term.LitNat {
			continue
		}
		if lit.Val.Nat == uint64(len(arr.Elems)) {
			return term.MkApp(args[i+1], arr.Elems...), true, nil
		}
	}
	return args[len(args)-1], true, nil
}
