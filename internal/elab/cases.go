package elab

import (
	"fmt"

	"github.com/veloria-lang/veloria/internal/term"
)

// AdmitConst closes goals that no alternative covers; the resulting term is
// well-formed but marked as admitted.
const AdmitConst = term.Name("Veloria.admit")

// ValCasesConst is the head of a literal-value decision term: the scrutinee,
// then value/branch pairs, then the fallback branch.
const ValCasesConst = term.Name("Veloria.valCases")

// ArrayCasesConst is the head of an array-length decision term: the
// scrutinee, then length/branch pairs, then the fallback branch.
const ArrayCasesConst = term.Name("Veloria.arrayCases")

// Elaborator implements the capabilities the match compiler consumes: the
// three case-split primitives plus term-level helpers, all backed by one
// goal store and one declaration environment.
type Elaborator struct {
	env   *Env
	store *term.GoalStore
}

// New creates an elaborator over the given environment and goal store.
func New(env *Env, store *term.GoalStore) *Elaborator {
	return &Elaborator{env: env, store: store}
}

// Env returns the declaration environment.
func (el *Elaborator) Env() *Env { return el.env }

// Store returns the goal store.
func (el *Elaborator) Store() *term.GoalStore { return el.store }

// FreshFVar allocates a fresh free variable declaration.
func (el *Elaborator) FreshFVar(name term.Name, typ term.Expr) term.LocalDecl {
	return el.store.FreshFVar(name, typ)
}

// NewGoal opens a fresh goal.
func (el *Elaborator) NewGoal(lctx term.LocalContext, target term.Expr) term.GoalID {
	return el.store.NewGoal(lctx, target)
}

// AssignGoal closes a goal with the given value.
func (el *Elaborator) AssignGoal(goal term.GoalID, value term.Expr) error {
	return el.store.Assign(goal, value)
}

// AdmitGoal closes a goal with an admitted hole.
func (el *Elaborator) AdmitGoal(goal term.GoalID) error {
	return el.store.Assign(goal, &term.Const{Name: AdmitConst})
}

// Instantiate resolves assigned metavariables in e.
func (el *Elaborator) Instantiate(e term.Expr) term.Expr {
	return el.store.Instantiate(e)
}

// ConstructorsOf returns the constructor signatures of the inductive type
// typ, in declaration order.
func (el *Elaborator) ConstructorsOf(typ term.Expr) ([]term.CtorInfo, error) {
	ind, err := el.env.InductiveOf(typ)
	if err != nil {
		return nil, err
	}
	infos := make([]term.CtorInfo, 0, len(ind.Ctors))
	for _, cn := range ind.Ctors {
		c, ok := el.env.Constructor(cn)
		if !ok {
			return nil, fmt.Errorf("constructor %s of %s is not declared", cn, ind.Name)
		}
		fields := make([]term.CtorField, len(c.Fields))
		for i, f := range c.Fields {
			fields[i] = term.CtorField{Name: f.Name, Type: f.Type}
		}
		infos = append(infos, term.CtorInfo{Name: cn, Fields: fields})
	}
	return infos, nil
}

// CaseOnVariable splits the goal on the inductive-typed variable scrut,
// producing one subgoal per constructor. The parent goal is closed with the
// inductive's case principle applied to the scrutinee and one minor premise
// per subgoal, and its handle is consumed.
func (el *Elaborator) CaseOnVariable(goal term.GoalID, scrut term.FVarID) ([]term.CtorCase, error) {
	g, decl, err := el.splitTarget(goal, scrut)
	if err != nil {
		return nil, err
	}
	ind, err := el.env.InductiveOf(decl.Type)
	if err != nil {
		return nil, fmt.Errorf("cannot case split %s: %w", decl, err)
	}
	cases := make([]term.CtorCase, 0, len(ind.Ctors))
	minors := make([]term.Expr, 0, len(ind.Ctors))
	for _, cn := range ind.Ctors {
		c, _ := el.env.Constructor(cn)
		fields := make([]term.LocalDecl, len(c.Fields))
		for i, f := range c.Fields {
			fields[i] = el.store.FreshFVar(f.Name, f.Type)
		}
		fieldExprs := term.LocalContext(fields).FVarExprs()
		sub := term.Singleton(scrut, term.MkApp(&term.Const{Name: cn}, fieldExprs...))
		lctx := g.LCtx.Replace(scrut, fields).ApplySubst(sub)
		subgoal := el.store.NewGoal(lctx, sub.Apply(g.Target))
		cases = append(cases, term.CtorCase{Goal: subgoal, Ctor: cn, Fields: fields, Subst: sub})
		minors = append(minors, term.MkLambda(fields, &term.Meta{ID: subgoal}))
	}
	value := term.MkApp(&term.Const{Name: ind.CasesConst()},
		append([]term.Expr{decl.FVarExpr()}, minors...)...)
	if err := el.closeParent(goal, value); err != nil {
		return nil, err
	}
	return cases, nil
}

// CaseOnValues splits the goal on a variable against a list of literal
// values, producing one subgoal per value plus a final subgoal in which none
// of the values matched. In the final subgoal the variable stays in scope.
func (el *Elaborator) CaseOnValues(goal term.GoalID, scrut term.FVarID, values []term.Expr) ([]term.ValueCase, error) {
	g, decl, err := el.splitTarget(goal, scrut)
	if err != nil {
		return nil, err
	}
	cases := make([]term.ValueCase, 0, len(values)+1)
	args := []term.Expr{decl.FVarExpr()}
	for _, v := range values {
		sub := term.Singleton(scrut, v)
		lctx := g.LCtx.Remove(scrut).ApplySubst(sub)
		subgoal := el.store.NewGoal(lctx, sub.Apply(g.Target))
		cases = append(cases, term.ValueCase{Goal: subgoal, Subst: sub})
		args = append(args, v, &term.Meta{ID: subgoal})
	}
	fallback := el.store.NewGoal(g.LCtx, g.Target)
	cases = append(cases, term.ValueCase{Goal: fallback, Subst: term.Subst{}})
	args = append(args, &term.Meta{ID: fallback})
	if err := el.closeParent(goal, term.MkApp(&term.Const{Name: ValCasesConst}, args...)); err != nil {
		return nil, err
	}
	return cases, nil
}

// CaseOnArrayLength splits the goal on an array-typed variable against a
// list of literal lengths, producing one subgoal per length (with that many
// fresh element variables) plus a final subgoal for every other length.
func (el *Elaborator) CaseOnArrayLength(goal term.GoalID, scrut term.FVarID, lengths []int) ([]term.ArrayCase, error) {
	g, decl, err := el.splitTarget(goal, scrut)
	if err != nil {
		return nil, err
	}
	elemType := arrayElemType(decl.Type)
	cases := make([]term.ArrayCase, 0, len(lengths)+1)
	args := []term.Expr{decl.FVarExpr()}
	for _, n := range lengths {
		elems := make([]term.LocalDecl, n)
		for i := range elems {
			elems[i] = el.store.FreshFVar(term.Name(fmt.Sprintf("%s_%d", decl.Name, i)), elemType)
		}
		elemExprs := term.LocalContext(elems).FVarExprs()
		sub := term.Singleton(scrut, &term.ArrayLit{Elem: elemType, Elems: elemExprs})
		lctx := g.LCtx.Replace(scrut, elems).ApplySubst(sub)
		subgoal := el.store.NewGoal(lctx, sub.Apply(g.Target))
		cases = append(cases, term.ArrayCase{Goal: subgoal, Elems: elems, Subst: sub})
		args = append(args,
			&term.Lit{Val: term.Literal{Kind: term.LitNat, Nat: uint64(n)}},
			term.MkLambda(elems, &term.Meta{ID: subgoal}))
	}
	fallback := el.store.NewGoal(g.LCtx, g.Target)
	cases = append(cases, term.ArrayCase{Goal: fallback, Subst: term.Subst{}})
	args = append(args, &term.Meta{ID: fallback})
	if err := el.closeParent(goal, term.MkApp(&term.Const{Name: ArrayCasesConst}, args...)); err != nil {
		return nil, err
	}
	return cases, nil
}

// splitTarget validates a split request: the goal must be live and the
// scrutinee must be declared in its context.
func (el *Elaborator) splitTarget(goal term.GoalID, scrut term.FVarID) (*term.Goal, term.LocalDecl, error) {
	g, err := el.store.Goal(goal)
	if err != nil {
		return nil, term.LocalDecl{}, err
	}
	if g.IsConsumed() {
		return nil, term.LocalDecl{}, fmt.Errorf("goal ?m.%d was already consumed by a case split", goal)
	}
	decl, ok := g.LCtx.Find(scrut)
	if !ok {
		return nil, term.LocalDecl{}, fmt.Errorf("variable _fvar.%d is not in the context of goal ?m.%d", scrut, goal)
	}
	return g, decl, nil
}

func (el *Elaborator) closeParent(goal term.GoalID, value term.Expr) error {
	if err := el.store.Assign(goal, value); err != nil {
		return err
	}
	return el.store.Consume(goal)
}

func arrayElemType(typ term.Expr) term.Expr {
	head, args := term.Spine(typ)
	if c, ok := head.(*term.Const); ok && c.Name == "Array" && len(args) >= 1 {
		return args[0]
	}
	return typ
}
