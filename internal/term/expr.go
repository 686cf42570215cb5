// Package term provides the term-level surface of the Veloria type theory
// that the elaborator compiles against: names, universe levels, expressions,
// local contexts, substitution, and goal (metavariable) bookkeeping.
// The match compiler treats everything here as host infrastructure; it never
// inspects terms beyond head constructors and free-variable identity.
package term

import (
	"fmt"
	"strings"
)

// Name identifies a declaration (inductive, constructor, definition).
// Hierarchical names use '.' separators, e.g. "Nat.succ".
type Name string

// String returns the name itself.
func (n Name) String() string { return string(n) }

// Append extends the name with one more component.
func (n Name) Append(component string) Name {
	if n == "" {
		return Name(component)
	}
	return Name(string(n) + "." + component)
}

// Level is a universe level. The match compiler only carries levels through
// constructor patterns; it never computes with them.
type Level string

// LevelZero is the bottom universe level.
const LevelZero Level = "0"

// FVarID identifies a free variable in a local context.
type FVarID uint64

// MVarID identifies a metavariable / open goal.
type MVarID uint64

// GoalID names an open goal handle. Goals are metavariables whose assignment
// is still pending.
type GoalID = MVarID

// Expr is an expression of the Veloria core language.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// FVar is a reference to a free variable. Two FVars are the same variable
// iff their IDs match; DisplayName is carried only for rendering.
type FVar struct {
	ID          FVarID
	DisplayName Name
}

func (e *FVar) exprNode() {}

func (e *FVar) String() string {
	if e.DisplayName != "" {
		return string(e.DisplayName)
	}
	return fmt.Sprintf("_fvar.%d", e.ID)
}

// Const is a reference to a global declaration, possibly at specific
// universe levels.
type Const struct {
	Name   Name
	Levels []Level
}

func (e *Const) exprNode() {}

func (e *Const) String() string { return string(e.Name) }

// App is a binary application. N-ary applications are left-nested spines;
// use MkApp and Spine to build and inspect them.
type App struct {
	Fn  Expr
	Arg Expr
}

func (e *App) exprNode() {}

func (e *App) String() string {
	head, args := Spine(e)
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, head.String())
	for _, a := range args {
		s := a.String()
		if strings.ContainsRune(s, ' ') {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Lam is a lambda abstraction binding the free variable Param inside Body.
// Binder identifiers are globally fresh, so substitution does not need to
// rename.
type Lam struct {
	Param     FVarID
	ParamName Name
	ParamType Expr
	Body      Expr
}

func (e *Lam) exprNode() {}

func (e *Lam) String() string {
	return fmt.Sprintf("fun (%s : %s) => %s", binderName(e.ParamName, e.Param), e.ParamType, e.Body)
}

// Pi is a dependent function type binding Param inside Body.
type Pi struct {
	Param     FVarID
	ParamName Name
	ParamType Expr
	Body      Expr
}

func (e *Pi) exprNode() {}

func (e *Pi) String() string {
	return fmt.Sprintf("(%s : %s) -> %s", binderName(e.ParamName, e.Param), e.ParamType, e.Body)
}

// Sort is a universe.
type Sort struct {
	Level Level
}

func (e *Sort) exprNode() {}

func (e *Sort) String() string {
	if e.Level == LevelZero {
		return "Type"
	}
	return fmt.Sprintf("Type %s", e.Level)
}

// LitKind discriminates literal values.
type LitKind int

const (
	LitNat LitKind = iota
	LitStr
)

// Literal is a primitive literal value with decidable equality.
type Literal struct {
	Kind LitKind
	Nat  uint64
	Str  string
}

// Eq reports whether two literals are the same value.
func (l Literal) Eq(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case LitNat:
		return l.Nat == other.Nat
	case LitStr:
		return l.Str == other.Str
	default:
		return false
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitNat:
		return fmt.Sprintf("%d", l.Nat)
	case LitStr:
		return fmt.Sprintf("%q", l.Str)
	default:
		return "<lit>"
	}
}

// Lit is a literal expression.
type Lit struct {
	Val Literal
}

func (e *Lit) exprNode() {}

func (e *Lit) String() string { return e.Val.String() }

// ArrayLit is a fixed-length array literal.
type ArrayLit struct {
	Elem  Expr // element type
	Elems []Expr
}

func (e *ArrayLit) exprNode() {}

func (e *ArrayLit) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "#[" + strings.Join(parts, ", ") + "]"
}

// Meta is a reference to a metavariable (an open or assigned goal).
type Meta struct {
	ID MVarID
}

func (e *Meta) exprNode() {}

func (e *Meta) String() string { return fmt.Sprintf("?m.%d", e.ID) }

func binderName(n Name, id FVarID) string {
	if n != "" {
		return string(n)
	}
	return fmt.Sprintf("_x.%d", id)
}

// MkApp builds a left-nested application spine fn a1 ... an.
func MkApp(fn Expr, args ...Expr) Expr {
	e := fn
	for _, a := range args {
		e = &App{Fn: e, Arg: a}
	}
	return e
}

// Spine decomposes a (possibly nested) application into its head and
// argument list.
func Spine(e Expr) (Expr, []Expr) {
	var args []Expr
	for {
		app, ok := e.(*App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		e = app.Fn
	}
	// args were collected innermost-first
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return e, args
}

// Eq reports structural equality of two expressions. Free variables compare
// by identifier; display names are ignored.
func Eq(a, b Expr) bool {
	switch x := a.(type) {
	case *FVar:
		y, ok := b.(*FVar)
		return ok && x.ID == y.ID
	case *Const:
		y, ok := b.(*Const)
		if !ok || x.Name != y.Name || len(x.Levels) != len(y.Levels) {
			return false
		}
		for i := range x.Levels {
			if x.Levels[i] != y.Levels[i] {
				return false
			}
		}
		return true
	case *App:
		y, ok := b.(*App)
		return ok && Eq(x.Fn, y.Fn) && Eq(x.Arg, y.Arg)
	case *Lam:
		y, ok := b.(*Lam)
		return ok && x.Param == y.Param && Eq(x.ParamType, y.ParamType) && Eq(x.Body, y.Body)
	case *Pi:
		y, ok := b.(*Pi)
		return ok && x.Param == y.Param && Eq(x.ParamType, y.ParamType) && Eq(x.Body, y.Body)
	case *Sort:
		y, ok := b.(*Sort)
		return ok && x.Level == y.Level
	case *Lit:
		y, ok := b.(*Lit)
		return ok && x.Val.Eq(y.Val)
	case *ArrayLit:
		y, ok := b.(*ArrayLit)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		if (x.Elem == nil) != (y.Elem == nil) {
			return false
		}
		if x.Elem != nil && !Eq(x.Elem, y.Elem) {
			return false
		}
		for i := range x.Elems {
			if !Eq(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Meta:
		y, ok := b.(*Meta)
		return ok && x.ID == y.ID
	default:
		return false
	}
}
