package term

import "fmt"

// Goal is the state of one open goal: a metavariable with a local context
// and a target type. A goal handle is exclusively owned by whoever holds it;
// once a case split consumes the goal it must not be reused.
type Goal struct {
	ID       GoalID
	LCtx     LocalContext
	Target   Expr
	value    Expr
	assigned bool
	consumed bool
}

// IsAssigned reports whether the goal has a value.
func (g *Goal) IsAssigned() bool { return g.assigned }

// IsConsumed reports whether the goal handle was consumed by a case split.
func (g *Goal) IsConsumed() bool { return g.consumed }

// GoalStore owns all goals and fresh-identifier generation for one
// compilation.
type GoalStore struct {
	nextFVar FVarID
	nextMVar MVarID
	goals    map[GoalID]*Goal
}

// NewGoalStore creates an empty store.
func NewGoalStore() *GoalStore {
	return &GoalStore{nextFVar: 1, nextMVar: 1, goals: make(map[GoalID]*Goal)}
}

// FreshFVar allocates a fresh free variable declaration. The declaration is
// not added to any local context.
func (s *GoalStore) FreshFVar(name Name, typ Expr) LocalDecl {
	id := s.nextFVar
	s.nextFVar++
	return LocalDecl{ID: id, Name: name, Type: typ}
}

// NewGoal creates an open goal with the given local context and target type.
func (s *GoalStore) NewGoal(lctx LocalContext, target Expr) GoalID {
	id := s.nextMVar
	s.nextMVar++
	s.goals[id] = &Goal{ID: id, LCtx: lctx, Target: target}
	return id
}

// Goal looks up a goal by id.
func (s *GoalStore) Goal(id GoalID) (*Goal, error) {
	g, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("unknown goal ?m.%d", id)
	}
	return g, nil
}

// Assign closes the goal with a value. Assigning twice is an error.
func (s *GoalStore) Assign(id GoalID, value Expr) error {
	g, err := s.Goal(id)
	if err != nil {
		return err
	}
	if g.assigned {
		return fmt.Errorf("goal ?m.%d is already assigned", id)
	}
	g.value = value
	g.assigned = true
	return nil
}

// Consume marks the goal handle as consumed by a case split. A consumed
// goal may still hold an assignment but must not be split or closed again.
func (s *GoalStore) Consume(id GoalID) error {
	g, err := s.Goal(id)
	if err != nil {
		return err
	}
	if g.consumed {
		return fmt.Errorf("goal ?m.%d was already consumed", id)
	}
	g.consumed = true
	return nil
}

// Assignment returns the goal's value, if assigned.
func (s *GoalStore) Assignment(id GoalID) (Expr, bool) {
	g, ok := s.goals[id]
	if !ok || !g.assigned {
		return nil, false
	}
	return g.value, true
}

// Instantiate recursively replaces assigned metavariables in e by their
// values. Unassigned metavariables are left in place.
func (s *GoalStore) Instantiate(e Expr) Expr {
	switch x := e.(type) {
	case *Meta:
		if v, ok := s.Assignment(x.ID); ok {
			return s.Instantiate(v)
		}
		return e
	case *App:
		return &App{Fn: s.Instantiate(x.Fn), Arg: s.Instantiate(x.Arg)}
	case *Lam:
		return &Lam{Param: x.Param, ParamName: x.ParamName, ParamType: s.Instantiate(x.ParamType), Body: s.Instantiate(x.Body)}
	case *Pi:
		return &Pi{Param: x.Param, ParamName: x.ParamName, ParamType: s.Instantiate(x.ParamType), Body: s.Instantiate(x.Body)}
	case *ArrayLit:
		elems := make([]Expr, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = s.Instantiate(el)
		}
		var elemTy Expr
		if x.Elem != nil {
			elemTy = s.Instantiate(x.Elem)
		}
		return &ArrayLit{Elem: elemTy, Elems: elems}
	default:
		return e
	}
}
