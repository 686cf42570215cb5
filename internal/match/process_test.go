package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloria-lang/veloria/internal/elab"
	"github.com/veloria-lang/veloria/internal/term"
)

func newTestCompiler(t *testing.T) (*compiler, *term.GoalStore) {
	t.Helper()
	store := term.NewGoalStore()
	env := elab.NewEnv()
	_, err := env.AddInductive("Nat", []*elab.Constructor{
		{Name: "Nat.zero"},
		{Name: "Nat.succ", Fields: []elab.Field{{Name: "n", Type: &term.Const{Name: "Nat"}}}},
	})
	require.NoError(t, err)
	return &compiler{host: elab.New(env, store), state: NewState()}, store
}

func TestPredicatePriority(t *testing.T) {
	nat := &term.Const{Name: "Nat"}
	x := &term.FVar{ID: 100, DisplayName: "x"}

	varAlt := &Alt{Idx: 0, Patterns: []Pattern{&VarPattern{ID: 101}}}
	ctorAlt := &Alt{Idx: 1, Patterns: []Pattern{&CtorPattern{Name: "Nat.zero"}}}
	valAlt := &Alt{Idx: 2, Patterns: []Pattern{&ValPattern{Term: &term.Lit{Val: term.Literal{Kind: term.LitNat, Nat: 1}}}}}
	arrAlt := &Alt{Idx: 3, Patterns: []Pattern{&ArrayLitPattern{ElemType: nat}}}
	asAlt := &Alt{Idx: 4, Patterns: []Pattern{&AsPattern{ID: 102, Inner: &VarPattern{ID: 103}}}}
	inaccAlt := &Alt{Idx: 5, Patterns: []Pattern{&InaccessiblePattern{Term: &term.Const{Name: "Nat.zero"}}}}

	t.Run("done", func(t *testing.T) {
		p := &Problem{Alts: []*Alt{varAlt}}
		assert.True(t, p.isDone())
	})
	t.Run("as pattern wins over everything", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{asAlt, ctorAlt}}
		assert.True(t, p.hasAsPattern())
	})
	t.Run("non variable major", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{term.MkApp(&term.Const{Name: "f"}, x)}, Alts: []*Alt{varAlt}}
		assert.False(t, p.isNextVar())
	})
	t.Run("variable transition", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{varAlt, inaccAlt}}
		assert.True(t, p.isVariableTransition())
		assert.False(t, p.isCompleteTransition())
	})
	t.Run("complete before constructor", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{ctorAlt, varAlt}}
		assert.False(t, p.isVariableTransition())
		assert.True(t, p.isCompleteTransition())
		assert.True(t, p.isConstructorTransition())
	})
	t.Run("constructor without variables", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{ctorAlt, inaccAlt}}
		assert.False(t, p.isCompleteTransition())
		assert.True(t, p.isConstructorTransition())
	})
	t.Run("value transition", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{valAlt, varAlt}}
		assert.True(t, p.isValueTransition())
		assert.False(t, p.isConstructorTransition())
	})
	t.Run("value transition without catch all", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{valAlt}}
		assert.True(t, p.isValueTransition())
	})
	t.Run("array literal transition", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{arrAlt, varAlt}}
		assert.True(t, p.isArrayLitTransition())
		assert.False(t, p.isValueTransition())
	})
	t.Run("mixed value and constructor is unhandled", func(t *testing.T) {
		p := &Problem{Majors: []term.Expr{x}, Alts: []*Alt{valAlt, ctorAlt}}
		assert.False(t, p.isVariableTransition())
		assert.False(t, p.isCompleteTransition())
		assert.False(t, p.isConstructorTransition())
		assert.False(t, p.isValueTransition())
		assert.False(t, p.isArrayLitTransition())
	})
	t.Run("no alternatives is a variable transition", func(t *testing.T) {
		// vacuously true: remaining majors are consumed until the leaf
		// reports the missing case
		p := &Problem{Majors: []term.Expr{x}, Alts: nil}
		assert.True(t, p.isVariableTransition())
	})
}

func TestProcessNonVariable(t *testing.T) {
	c, store := newTestCompiler(t)

	goal := store.NewGoal(nil, &term.Const{Name: "P"})
	rhs := &term.Const{Name: "rhs"}
	alt := &Alt{Idx: 0, RHS: rhs, Patterns: []Pattern{
		&InaccessiblePattern{Term: &term.Const{Name: "Nat.zero"}},
	}}
	major := term.MkApp(&term.Const{Name: "f"}, &term.FVar{ID: 100})

	p := &Problem{Goal: goal, Majors: []term.Expr{major}, Alts: []*Alt{alt}, Examples: []Example{&UnderscoreExample{}}}
	require.NoError(t, c.process(p, 0))

	got, ok := store.Assignment(goal)
	require.True(t, ok)
	assert.True(t, term.Eq(got, rhs))
	assert.True(t, c.state.Used[0])
}

func TestProcessUnhandledShape(t *testing.T) {
	c, store := newTestCompiler(t)

	goal := store.NewGoal(nil, &term.Const{Name: "P"})
	x := &term.FVar{ID: 100}
	alts := []*Alt{
		{Idx: 0, Patterns: []Pattern{&ValPattern{Term: &term.Lit{Val: term.Literal{Kind: term.LitNat, Nat: 1}}}}},
		{Idx: 1, Patterns: []Pattern{&CtorPattern{Name: "Nat.zero"}}},
	}

	err := c.process(&Problem{Goal: goal, Majors: []term.Expr{x}, Alts: alts, Examples: []Example{&VarExample{ID: 100}}}, 0)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrKindUnhandledShape, ce.Kind)
	assert.NotEmpty(t, ce.Problem)
	// the working alternatives have no right-hand side yet; rendering
	// them must still name every pattern
	assert.Contains(t, ce.Problem, "Nat.zero")
	assert.Contains(t, ce.Problem, "=> ?")
}

func TestProcessDepthGuard(t *testing.T) {
	c, store := newTestCompiler(t)

	goal := store.NewGoal(nil, &term.Const{Name: "P"})
	err := c.process(&Problem{Goal: goal}, maxCompileDepth+1)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrKindDepth, ce.Kind)
}
