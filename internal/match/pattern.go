// Package match implements the dependent-pattern-match compiler of the
// Veloria elaborator. Given the alternatives of a user-written match
// definition over a list of major premises, it produces one closed term
// built from case-analysis principles, together with the diagnostics the
// frontend needs: alternatives that can never fire and concrete
// counterexamples for inputs no alternative covers.
package match

import (
	"fmt"
	"strings"

	"github.com/veloria-lang/veloria/internal/term"
)

// Pattern is one pattern position of a match alternative. Every variable
// bound by a pattern must be declared exactly once among the alternative's
// local entries.
type Pattern interface {
	fmt.Stringer
	patternNode()
	// ApplySubst rewrites the terms embedded in the pattern. Pattern
	// variables are identifiers, not terms; they are renamed only through
	// Alt rewrites.
	ApplySubst(s term.Subst) Pattern
	// ToExpr renders the pattern as the term it matches, with pattern
	// variables as free variables.
	ToExpr() term.Expr
}

// InaccessiblePattern is a position fixed by dependent typing; the engine
// may discriminate on its head constructor but the user cannot bind it.
type InaccessiblePattern struct {
	Term term.Expr
}

func (p *InaccessiblePattern) patternNode() {}

func (p *InaccessiblePattern) String() string { return ".(" + p.Term.String() + ")" }

func (p *InaccessiblePattern) ApplySubst(s term.Subst) Pattern {
	return &InaccessiblePattern{Term: s.Apply(p.Term)}
}

func (p *InaccessiblePattern) ToExpr() term.Expr { return p.Term }

// VarPattern matches anything and binds the declared variable.
type VarPattern struct {
	ID          term.FVarID
	DisplayName term.Name
}

func (p *VarPattern) patternNode() {}

func (p *VarPattern) String() string {
	if p.DisplayName != "" {
		return string(p.DisplayName)
	}
	return fmt.Sprintf("_x.%d", p.ID)
}

func (p *VarPattern) ApplySubst(s term.Subst) Pattern { return p }

func (p *VarPattern) ToExpr() term.Expr {
	return &term.FVar{ID: p.ID, DisplayName: p.DisplayName}
}

// CtorPattern matches one constructor application. Params carries the
// inductive's parameters as already-elaborated terms; Fields are matched
// recursively.
type CtorPattern struct {
	Name   term.Name
	Levels []term.Level
	Params []term.Expr
	Fields []Pattern
}

func (p *CtorPattern) patternNode() {}

func (p *CtorPattern) String() string {
	if len(p.Fields) == 0 {
		return string(p.Name)
	}
	parts := make([]string, 0, len(p.Fields)+1)
	parts = append(parts, string(p.Name))
	for _, f := range p.Fields {
		s := f.String()
		if strings.ContainsRune(s, ' ') {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (p *CtorPattern) ApplySubst(s term.Subst) Pattern {
	fields := make([]Pattern, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = f.ApplySubst(s)
	}
	return &CtorPattern{Name: p.Name, Levels: p.Levels, Params: s.ApplyAll(p.Params), Fields: fields}
}

func (p *CtorPattern) ToExpr() term.Expr {
	args := make([]term.Expr, 0, len(p.Params)+len(p.Fields))
	args = append(args, p.Params...)
	for _, f := range p.Fields {
		args = append(args, f.ToExpr())
	}
	return term.MkApp(&term.Const{Name: p.Name, Levels: p.Levels}, args...)
}

// ValPattern matches one literal value by decidable equality.
type ValPattern struct {
	Term term.Expr
}

func (p *ValPattern) patternNode() {}

func (p *ValPattern) String() string { return p.Term.String() }

func (p *ValPattern) ApplySubst(s term.Subst) Pattern {
	return &ValPattern{Term: s.Apply(p.Term)}
}

func (p *ValPattern) ToExpr() term.Expr { return p.Term }

// ArrayLitPattern matches a fixed-length array literal elementwise.
type ArrayLitPattern struct {
	ElemType term.Expr
	Elems    []Pattern
}

func (p *ArrayLitPattern) patternNode() {}

func (p *ArrayLitPattern) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "#[" + strings.Join(parts, ", ") + "]"
}

func (p *ArrayLitPattern) ApplySubst(s term.Subst) Pattern {
	elems := make([]Pattern, len(p.Elems))
	for i, e := range p.Elems {
		elems[i] = e.ApplySubst(s)
	}
	return &ArrayLitPattern{ElemType: s.Apply(p.ElemType), Elems: elems}
}

func (p *ArrayLitPattern) ToExpr() term.Expr {
	elems := make([]term.Expr, len(p.Elems))
	for i, e := range p.Elems {
		elems[i] = e.ToExpr()
	}
	return &term.ArrayLit{Elem: p.ElemType, Elems: elems}
}

// AsPattern binds the whole matched value and keeps matching the inner
// pattern.
type AsPattern struct {
	ID          term.FVarID
	DisplayName term.Name
	Inner       Pattern
}

func (p *AsPattern) patternNode() {}

func (p *AsPattern) String() string {
	name := string(p.DisplayName)
	if name == "" {
		name = fmt.Sprintf("_x.%d", p.ID)
	}
	return fmt.Sprintf("%s@%s", name, p.Inner)
}

func (p *AsPattern) ApplySubst(s term.Subst) Pattern {
	return &AsPattern{ID: p.ID, DisplayName: p.DisplayName, Inner: p.Inner.ApplySubst(s)}
}

func (p *AsPattern) ToExpr() term.Expr { return p.Inner.ToExpr() }

// varPatterns builds one variable pattern per declaration.
func varPatterns(decls []term.LocalDecl) []Pattern {
	out := make([]Pattern, len(decls))
	for i, d := range decls {
		out[i] = &VarPattern{ID: d.ID, DisplayName: d.Name}
	}
	return out
}

func applySubstPatterns(ps []Pattern, s term.Subst) []Pattern {
	if s.IsEmpty() {
		return ps
	}
	out := make([]Pattern, len(ps))
	for i, p := range ps {
		out[i] = p.ApplySubst(s)
	}
	return out
}
