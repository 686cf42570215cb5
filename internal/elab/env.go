// Package elab supplies the elaborator collaborators consumed by the match
// compiler: the inductive environment and the case-split primitives that
// turn one open goal into one subgoal per constructor, literal value, or
// array length.
package elab

import (
	"fmt"

	"github.com/veloria-lang/veloria/internal/term"
)

// Field is one constructor field: a named, typed slot.
type Field struct {
	Name term.Name
	Type term.Expr
}

// Constructor describes one constructor of an inductive type.
type Constructor struct {
	Name      term.Name
	Inductive term.Name
	Fields    []Field
}

// Inductive describes an inductive type declaration.
type Inductive struct {
	Name  term.Name
	Ctors []term.Name
}

// CasesConst returns the name of the case-analysis principle attached to
// the inductive.
func (ind *Inductive) CasesConst() term.Name {
	return ind.Name.Append("cases")
}

// Env is the global declaration environment the elaborator compiles
// against.
type Env struct {
	inductives   map[term.Name]*Inductive
	constructors map[term.Name]*Constructor
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{
		inductives:   make(map[term.Name]*Inductive),
		constructors: make(map[term.Name]*Constructor),
	}
}

// AddInductive registers an inductive type and its constructors.
// Constructor order is declaration order and is preserved by every case
// split, which keeps compilation deterministic.
func (e *Env) AddInductive(name term.Name, ctors []*Constructor) (*Inductive, error) {
	if _, ok := e.inductives[name]; ok {
		return nil, fmt.Errorf("inductive %s is already declared", name)
	}
	ind := &Inductive{Name: name}
	for _, c := range ctors {
		if _, ok := e.constructors[c.Name]; ok {
			return nil, fmt.Errorf("constructor %s is already declared", c.Name)
		}
		c.Inductive = name
		ind.Ctors = append(ind.Ctors, c.Name)
		e.constructors[c.Name] = c
	}
	e.inductives[name] = ind
	return ind, nil
}

// Inductive looks up an inductive declaration by name.
func (e *Env) Inductive(name term.Name) (*Inductive, bool) {
	ind, ok := e.inductives[name]
	return ind, ok
}

// Constructor looks up a constructor declaration by name.
func (e *Env) Constructor(name term.Name) (*Constructor, bool) {
	c, ok := e.constructors[name]
	return c, ok
}

// InductiveOf resolves the inductive declaration a type expression belongs
// to, by its head constant.
func (e *Env) InductiveOf(typ term.Expr) (*Inductive, error) {
	head, _ := term.Spine(typ)
	c, ok := head.(*term.Const)
	if !ok {
		return nil, fmt.Errorf("type %s has no inductive head", typ)
	}
	ind, ok := e.inductives[c.Name]
	if !ok {
		return nil, fmt.Errorf("%s is not an inductive type", c.Name)
	}
	return ind, nil
}
