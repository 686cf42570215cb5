package term

import "fmt"

// LocalDecl is one typed binder in a local context.
type LocalDecl struct {
	ID   FVarID
	Name Name
	Type Expr
}

// FVarExpr returns the free-variable expression referring to this binder.
func (d LocalDecl) FVarExpr() *FVar {
	return &FVar{ID: d.ID, DisplayName: d.Name}
}

func (d LocalDecl) String() string {
	return fmt.Sprintf("(%s : %s)", binderName(d.Name, d.ID), d.Type)
}

// LocalContext is an ordered telescope of local declarations; later types
// may depend on earlier binders.
type LocalContext []LocalDecl

// IndexOf returns the position of the declaration with the given id, or -1.
func (l LocalContext) IndexOf(id FVarID) int {
	for i, d := range l {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Find looks up a declaration by id.
func (l LocalContext) Find(id FVarID) (LocalDecl, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l[i], true
	}
	return LocalDecl{}, false
}

// Replace substitutes the declaration with the given id by the replacement
// declarations, in place in the order. The receiver is not mutated.
func (l LocalContext) Replace(id FVarID, repl []LocalDecl) LocalContext {
	i := l.IndexOf(id)
	if i < 0 {
		return l
	}
	out := make(LocalContext, 0, len(l)-1+len(repl))
	out = append(out, l[:i]...)
	out = append(out, repl...)
	out = append(out, l[i+1:]...)
	return out
}

// Remove drops the declaration with the given id. The receiver is not
// mutated.
func (l LocalContext) Remove(id FVarID) LocalContext {
	return l.Replace(id, nil)
}

// ApplySubst rewrites every declaration type. The receiver is not mutated.
func (l LocalContext) ApplySubst(s Subst) LocalContext {
	if s.IsEmpty() {
		return l
	}
	out := make(LocalContext, len(l))
	for i, d := range l {
		out[i] = LocalDecl{ID: d.ID, Name: d.Name, Type: s.Apply(d.Type)}
	}
	return out
}

// FVarExprs returns the free-variable expressions of all declarations.
func (l LocalContext) FVarExprs() []Expr {
	out := make([]Expr, len(l))
	for i, d := range l {
		out[i] = d.FVarExpr()
	}
	return out
}

// MkForall folds a telescope of declarations into nested Pi binders over
// body.
func MkForall(decls []LocalDecl, body Expr) Expr {
	e := body
	for i := len(decls) - 1; i >= 0; i-- {
		d := decls[i]
		e = &Pi{Param: d.ID, ParamName: d.Name, ParamType: d.Type, Body: e}
	}
	return e
}

// MkLambda folds a telescope of declarations into nested lambdas over body.
func MkLambda(decls []LocalDecl, body Expr) Expr {
	e := body
	for i := len(decls) - 1; i >= 0; i-- {
		d := decls[i]
		e = &Lam{Param: d.ID, ParamName: d.Name, ParamType: d.Type, Body: e}
	}
	return e
}

// DecomposePis strips leading Pi binders, returning them as local
// declarations together with the remaining body.
func DecomposePis(e Expr) ([]LocalDecl, Expr) {
	var decls []LocalDecl
	for {
		pi, ok := e.(*Pi)
		if !ok {
			return decls, e
		}
		decls = append(decls, LocalDecl{ID: pi.Param, Name: pi.ParamName, Type: pi.ParamType})
		e = pi.Body
	}
}
