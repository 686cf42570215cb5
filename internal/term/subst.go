package term

// Subst maps free variables to replacement expressions. Binder identifiers
// are globally fresh, so application never captures.
type Subst map[FVarID]Expr

// Singleton builds a substitution replacing one variable.
func Singleton(id FVarID, e Expr) Subst {
	return Subst{id: e}
}

// IsEmpty reports whether the substitution has no entries.
func (s Subst) IsEmpty() bool { return len(s) == 0 }

// Apply rewrites every mapped free variable in e, returning a new
// expression. Unmapped subtrees are shared, not copied.
func (s Subst) Apply(e Expr) Expr {
	if len(s) == 0 || e == nil {
		return e
	}
	switch x := e.(type) {
	case *FVar:
		if rep, ok := s[x.ID]; ok {
			return rep
		}
		return e
	case *Const, *Sort, *Lit, *Meta:
		return e
	case *App:
		fn, arg := s.Apply(x.Fn), s.Apply(x.Arg)
		if fn == x.Fn && arg == x.Arg {
			return e
		}
		return &App{Fn: fn, Arg: arg}
	case *Lam:
		ty, body := s.Apply(x.ParamType), s.Apply(x.Body)
		if ty == x.ParamType && body == x.Body {
			return e
		}
		return &Lam{Param: x.Param, ParamName: x.ParamName, ParamType: ty, Body: body}
	case *Pi:
		ty, body := s.Apply(x.ParamType), s.Apply(x.Body)
		if ty == x.ParamType && body == x.Body {
			return e
		}
		return &Pi{Param: x.Param, ParamName: x.ParamName, ParamType: ty, Body: body}
	case *ArrayLit:
		elems := make([]Expr, len(x.Elems))
		changed := false
		for i, el := range x.Elems {
			elems[i] = s.Apply(el)
			changed = changed || elems[i] != el
		}
		elemTy := s.Apply(x.Elem)
		if !changed && elemTy == x.Elem {
			return e
		}
		return &ArrayLit{Elem: elemTy, Elems: elems}
	default:
		return e
	}
}

// ApplyAll rewrites a list of expressions.
func (s Subst) ApplyAll(es []Expr) []Expr {
	if len(s) == 0 {
		return es
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = s.Apply(e)
	}
	return out
}
