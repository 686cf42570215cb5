package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkAppSpine(t *testing.T) {
	f := &Const{Name: "f"}
	a := &FVar{ID: 1, DisplayName: "a"}
	b := &FVar{ID: 2, DisplayName: "b"}

	e := MkApp(f, a, b)
	head, args := Spine(e)
	assert.True(t, Eq(head, f))
	require.Len(t, args, 2)
	assert.True(t, Eq(args[0], a))
	assert.True(t, Eq(args[1], b))

	head, args = Spine(f)
	assert.True(t, Eq(head, f))
	assert.Empty(t, args)
}

func TestSubstApply(t *testing.T) {
	x := &FVar{ID: 1, DisplayName: "x"}
	y := &FVar{ID: 2, DisplayName: "y"}
	f := &Const{Name: "f"}

	s := Singleton(1, &Const{Name: "c"})
	got := s.Apply(MkApp(f, x, y))
	assert.True(t, Eq(got, MkApp(f, &Const{Name: "c"}, y)))

	// unmapped expressions are returned unchanged
	unchanged := MkApp(f, y)
	assert.Equal(t, unchanged, s.Apply(unchanged))
}

func TestSubstUnderBinder(t *testing.T) {
	x := &FVar{ID: 1, DisplayName: "x"}
	lam := &Lam{Param: 2, ParamName: "y", ParamType: &Const{Name: "Nat"}, Body: x}

	s := Singleton(1, &Const{Name: "c"})
	got := s.Apply(lam)
	want := &Lam{Param: 2, ParamName: "y", ParamType: &Const{Name: "Nat"}, Body: &Const{Name: "c"}}
	assert.True(t, Eq(got, want))
}

func TestTelescopeRoundTrip(t *testing.T) {
	nat := &Const{Name: "Nat"}
	decls := []LocalDecl{
		{ID: 1, Name: "a", Type: nat},
		{ID: 2, Name: "b", Type: nat},
	}
	body := &Sort{Level: LevelZero}

	pi := MkForall(decls, body)
	got, rest := DecomposePis(pi)
	require.Len(t, got, 2)
	assert.Equal(t, decls[0].ID, got[0].ID)
	assert.Equal(t, decls[1].ID, got[1].ID)
	assert.True(t, Eq(rest, body))
}

func TestLocalContextReplace(t *testing.T) {
	nat := &Const{Name: "Nat"}
	lctx := LocalContext{
		{ID: 1, Name: "a", Type: nat},
		{ID: 2, Name: "b", Type: nat},
		{ID: 3, Name: "c", Type: nat},
	}

	repl := []LocalDecl{{ID: 4, Name: "x", Type: nat}, {ID: 5, Name: "y", Type: nat}}
	got := lctx.Replace(2, repl)
	require.Len(t, got, 4)
	assert.Equal(t, FVarID(1), got[0].ID)
	assert.Equal(t, FVarID(4), got[1].ID)
	assert.Equal(t, FVarID(5), got[2].ID)
	assert.Equal(t, FVarID(3), got[3].ID)

	// the receiver is not mutated
	assert.Len(t, lctx, 3)
	assert.Equal(t, FVarID(2), lctx[1].ID)

	assert.Len(t, lctx.Remove(1), 2)
}

func TestGoalAssignAndConsume(t *testing.T) {
	store := NewGoalStore()
	g := store.NewGoal(nil, &Const{Name: "P"})

	require.NoError(t, store.Assign(g, &Const{Name: "v"}))
	assert.Error(t, store.Assign(g, &Const{Name: "w"}), "double assignment must fail")

	require.NoError(t, store.Consume(g))
	assert.Error(t, store.Consume(g), "double consumption must fail")
}

func TestGoalInstantiate(t *testing.T) {
	store := NewGoalStore()
	inner := store.NewGoal(nil, &Const{Name: "P"})
	outer := store.NewGoal(nil, &Const{Name: "P"})

	require.NoError(t, store.Assign(inner, &Const{Name: "v"}))
	require.NoError(t, store.Assign(outer, MkApp(&Const{Name: "f"}, &Meta{ID: inner})))

	got := store.Instantiate(&Meta{ID: outer})
	assert.True(t, Eq(got, MkApp(&Const{Name: "f"}, &Const{Name: "v"})))

	// unassigned metavariables stay in place
	open := store.NewGoal(nil, &Const{Name: "P"})
	assert.True(t, Eq(store.Instantiate(&Meta{ID: open}), &Meta{ID: open}))
}

func TestFreshFVarsAreDistinct(t *testing.T) {
	store := NewGoalStore()
	a := store.FreshFVar("a", &Const{Name: "Nat"})
	b := store.FreshFVar("b", &Const{Name: "Nat"})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLiteralEq(t *testing.T) {
	one := Literal{Kind: LitNat, Nat: 1}
	assert.True(t, one.Eq(Literal{Kind: LitNat, Nat: 1}))
	assert.False(t, one.Eq(Literal{Kind: LitNat, Nat: 2}))
	assert.False(t, one.Eq(Literal{Kind: LitStr, Str: "1"}))
}
