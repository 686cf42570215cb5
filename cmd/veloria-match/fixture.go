package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/veloria-lang/veloria/internal/diagnostics"
	"github.com/veloria-lang/veloria/internal/elab"
	"github.com/veloria-lang/veloria/internal/match"
	"github.com/veloria-lang/veloria/internal/position"
	"github.com/veloria-lang/veloria/internal/term"
)

// fixtureFormatConstraint is the range of fixture format versions this
// harness understands.
const fixtureFormatConstraint = "^1.0"

// Fixture describes one match-compilation scenario: an inductive
// environment, the major premises, and the user's alternatives in a
// compact textual notation.
type Fixture struct {
	FormatVersion string        `json:"formatVersion"`
	Name          string        `json:"name"`
	Inductives    []FixtureInd  `json:"inductives"`
	Majors        []FixtureDecl `json:"majors"`
	Alternatives  []FixtureAlt  `json:"alternatives"`
}

// FixtureInd declares one inductive type.
type FixtureInd struct {
	Name         string        `json:"name"`
	Constructors []FixtureCtor `json:"constructors"`
}

// FixtureCtor declares one constructor.
type FixtureCtor struct {
	Name   string        `json:"name"`
	Fields []FixtureDecl `json:"fields"`
}

// FixtureDecl is one named, typed binder.
type FixtureDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FixtureAlt is one match alternative. Patterns use the harness notation:
// constructor applications ("Nat.succ m"), binders declared in "binders",
// "_" wildcards, natural-number literals ("42"), array literals
// ("[a, b]"), and as-patterns ("x@(Nat.succ m)").
type FixtureAlt struct {
	Binders  []FixtureDecl `json:"binders"`
	Patterns []string      `json:"patterns"`
	Line     int           `json:"line"`
}

// LoadFixture reads and validates one fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.checkFormat(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *Fixture) checkFormat() error {
	if f.FormatVersion == "" {
		return fmt.Errorf("fixture has no formatVersion")
	}
	v, err := semver.NewVersion(f.FormatVersion)
	if err != nil {
		return fmt.Errorf("invalid formatVersion %q: %w", f.FormatVersion, err)
	}
	c, err := semver.NewConstraint(fixtureFormatConstraint)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("formatVersion %s is outside the supported range %s", v, fixtureFormatConstraint)
	}
	return nil
}

// CompileOutcome is the result of running one fixture.
type CompileOutcome struct {
	Name     string
	Compiled term.Expr
	Report   *diagnostics.Report
}

// Compile elaborates the fixture and runs the match compiler on it.
func (f *Fixture) Compile(path string) (*CompileOutcome, error) {
	store := term.NewGoalStore()
	env := elab.NewEnv()
	for _, ind := range f.Inductives {
		ctors := make([]*elab.Constructor, len(ind.Constructors))
		for i, c := range ind.Constructors {
			fields := make([]elab.Field, len(c.Fields))
			for j, fd := range c.Fields {
				typ, err := parseType(fd.Type)
				if err != nil {
					return nil, fmt.Errorf("field %s of %s: %w", fd.Name, c.Name, err)
				}
				fields[j] = elab.Field{Name: term.Name(fd.Name), Type: typ}
			}
			ctors[i] = &elab.Constructor{Name: term.Name(c.Name), Fields: fields}
		}
		if _, err := env.AddInductive(term.Name(ind.Name), ctors); err != nil {
			return nil, err
		}
	}
	el := elab.New(env, store)

	majors := make([]term.LocalDecl, len(f.Majors))
	for i, m := range f.Majors {
		typ, err := parseType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("major %s: %w", m.Name, err)
		}
		majors[i] = store.FreshFVar(term.Name(m.Name), typ)
	}
	motiveType := term.MkForall(majors, &term.Sort{Level: term.LevelZero})

	alts := make([]match.AltLHS, len(f.Alternatives))
	for i, a := range f.Alternatives {
		lhs, err := a.elaborate(env, store, majors, path)
		if err != nil {
			return nil, fmt.Errorf("alternative #%d: %w", i+1, err)
		}
		alts[i] = lhs
	}

	name := f.Name
	if name == "" {
		name = "match"
	}
	res, err := match.Compile(el, term.Name(name), motiveType, alts)
	if err != nil {
		return &CompileOutcome{Name: name, Report: diagnostics.FromError(name, err)}, nil
	}
	return &CompileOutcome{
		Name:     name,
		Compiled: res.Compiled,
		Report:   diagnostics.FromResult(name, res, alts),
	}, nil
}

func (a *FixtureAlt) elaborate(env *elab.Env, store *term.GoalStore, majors []term.LocalDecl, path string) (match.AltLHS, error) {
	p := &altParser{env: env, store: store, binders: map[string]term.LocalDecl{}}
	for _, b := range a.Binders {
		typ, err := parseType(b.Type)
		if err != nil {
			return match.AltLHS{}, fmt.Errorf("binder %s: %w", b.Name, err)
		}
		decl := store.FreshFVar(term.Name(b.Name), typ)
		p.binders[b.Name] = decl
		p.entries = append(p.entries, decl)
	}
	patterns := make([]match.Pattern, len(a.Patterns))
	for i, src := range a.Patterns {
		var expected term.Expr
		if i < len(majors) {
			expected = majors[i].Type
		}
		pat, err := p.parsePattern(src, expected)
		if err != nil {
			return match.AltLHS{}, fmt.Errorf("pattern %q: %w", src, err)
		}
		patterns[i] = pat
	}
	var span position.Span
	if a.Line > 0 {
		span = position.NewSpan(
			position.Position{Filename: path, Line: a.Line, Column: 1},
			position.Position{Filename: path, Line: a.Line, Column: 2},
		)
	}
	return match.AltLHS{Span: span, Entries: p.entries, Patterns: patterns}, nil
}

// parseType parses a type in spine notation, e.g. "Nat" or "Array Nat".
func parseType(src string) (term.Expr, error) {
	parts := strings.Fields(src)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty type")
	}
	args := make([]term.Expr, len(parts)-1)
	for i, p := range parts[1:] {
		args[i] = &term.Const{Name: term.Name(p)}
	}
	return term.MkApp(&term.Const{Name: term.Name(parts[0])}, args...), nil
}

// altParser elaborates the harness pattern notation against one
// alternative's binders.
type altParser struct {
	env     *elab.Env
	store   *term.GoalStore
	binders map[string]term.LocalDecl
	entries []term.LocalDecl
	toks    []string
	pos     int
}

func (p *altParser) parsePattern(src string, expected term.Expr) (match.Pattern, error) {
	p.toks = tokenize(src)
	p.pos = 0
	pat, err := p.pattern(true, expected)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("trailing input %q", p.toks[p.pos])
	}
	return pat, nil
}

func (p *altParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *altParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *altParser) expect(tok string) error {
	if got := p.next(); got != tok {
		return fmt.Errorf("expected %q, found %q", tok, got)
	}
	return nil
}

// pattern parses one pattern; spine controls whether a constructor may
// take arguments at this position, and expected is the type of the
// matched position, used to type wildcards and array elements.
func (p *altParser) pattern(spine bool, expected term.Expr) (match.Pattern, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of pattern")
	case tok == "(":
		pat, err := p.pattern(true, expected)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return pat, nil
	case tok == "[":
		return p.arrayPattern(expected)
	case tok == "_":
		decl := p.store.FreshFVar("_", expected)
		p.entries = append(p.entries, decl)
		return &match.VarPattern{ID: decl.ID, DisplayName: "_"}, nil
	case isNumber(tok):
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, err
		}
		return &match.ValPattern{Term: &term.Lit{Val: term.Literal{Kind: term.LitNat, Nat: n}}}, nil
	default:
		if decl, ok := p.binders[tok]; ok {
			if p.peek() == "@" {
				p.next()
				inner, err := p.pattern(false, expected)
				if err != nil {
					return nil, err
				}
				return &match.AsPattern{ID: decl.ID, DisplayName: decl.Name, Inner: inner}, nil
			}
			return &match.VarPattern{ID: decl.ID, DisplayName: decl.Name}, nil
		}
		if ctor, ok := p.env.Constructor(term.Name(tok)); ok {
			pat := &match.CtorPattern{Name: term.Name(tok)}
			if spine {
				for p.peek() != "" && p.peek() != ")" && p.peek() != "]" && p.peek() != "," {
					var fieldType term.Expr
					if i := len(pat.Fields); i < len(ctor.Fields) {
						fieldType = ctor.Fields[i].Type
					}
					arg, err := p.pattern(false, fieldType)
					if err != nil {
						return nil, err
					}
					pat.Fields = append(pat.Fields, arg)
				}
			}
			if len(pat.Fields) != len(ctor.Fields) {
				return nil, fmt.Errorf("constructor %s expects %d fields, found %d", tok, len(ctor.Fields), len(pat.Fields))
			}
			return pat, nil
		}
		return nil, fmt.Errorf("%q is neither a binder nor a constructor", tok)
	}
}

func (p *altParser) arrayPattern(expected term.Expr) (match.Pattern, error) {
	elemType := arrayElemOf(expected)
	arr := &match.ArrayLitPattern{ElemType: elemType}
	if p.peek() == "]" {
		p.next()
		return arr, nil
	}
	for {
		elem, err := p.pattern(true, elemType)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, elem)
		switch tok := p.next(); tok {
		case ",":
		case "]":
			return arr, nil
		default:
			return nil, fmt.Errorf("expected ',' or ']', found %q", tok)
		}
	}
}

func arrayElemOf(typ term.Expr) term.Expr {
	if typ == nil {
		return nil
	}
	head, args := term.Spine(typ)
	if c, ok := head.(*term.Const); ok && c.Name == "Array" && len(args) >= 1 {
		return args[0]
	}
	return nil
}

func tokenize(src string) []string {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case strings.ContainsRune("()[],@", rune(c)):
			toks = append(toks, string(c))
			i++
		default:
			j := i
			for j < len(src) && !strings.ContainsRune("()[],@ \t", rune(src[j])) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks
}

func isNumber(tok string) bool {
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(tok) > 0
}
