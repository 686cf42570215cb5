package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloria-lang/veloria/internal/diagnostics"
	"github.com/veloria-lang/veloria/internal/elab"
	"github.com/veloria-lang/veloria/internal/match"
	"github.com/veloria-lang/veloria/internal/term"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const natFixture = `{
  "formatVersion": "1.0",
  "name": "pred",
  "inductives": [
    {
      "name": "Nat",
      "constructors": [
        {"name": "Nat.zero", "fields": []},
        {"name": "Nat.succ", "fields": [{"name": "n", "type": "Nat"}]}
      ]
    }
  ],
  "majors": [{"name": "x", "type": "Nat"}],
  "alternatives": [
    {"binders": [], "patterns": ["Nat.zero"], "line": 3},
    {"binders": [{"name": "m", "type": "Nat"}], "patterns": ["Nat.succ m"], "line": 4}
  ]
}`

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, natFixture))
	require.NoError(t, err)
	assert.Equal(t, "pred", f.Name)
	require.Len(t, f.Inductives, 1)
	assert.Len(t, f.Inductives[0].Constructors, 2)
	assert.Len(t, f.Alternatives, 2)
}

func TestLoadFixtureFormatVersion(t *testing.T) {
	cases := []struct {
		version string
		ok      bool
	}{
		{"1.0", true},
		{"1.2", true},
		{"2.0", false},
		{"0.9", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			body := `{"formatVersion": "` + tc.version + `", "name": "t"}`
			if tc.version == "" {
				body = `{"name": "t"}`
			}
			_, err := LoadFixture(writeFixture(t, body))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFixtureCompileExhaustive(t *testing.T) {
	path := writeFixture(t, natFixture)
	f, err := LoadFixture(path)
	require.NoError(t, err)

	out, err := f.Compile(path)
	require.NoError(t, err)
	require.NotNil(t, out.Compiled)
	assert.Equal(t, "pred", out.Name)
	assert.False(t, out.Report.HasErrors())
	assert.Empty(t, out.Report.Diagnostics)
}

func TestFixtureCompileMissingCase(t *testing.T) {
	body := `{
  "formatVersion": "1.0",
  "name": "onlyZero",
  "inductives": [
    {
      "name": "Nat",
      "constructors": [
        {"name": "Nat.zero", "fields": []},
        {"name": "Nat.succ", "fields": [{"name": "n", "type": "Nat"}]}
      ]
    }
  ],
  "majors": [{"name": "x", "type": "Nat"}],
  "alternatives": [
    {"binders": [], "patterns": ["Nat.zero"], "line": 2}
  ]
}`
	path := writeFixture(t, body)
	f, err := LoadFixture(path)
	require.NoError(t, err)

	out, err := f.Compile(path)
	require.NoError(t, err)
	require.True(t, out.Report.HasErrors())
	require.Len(t, out.Report.Diagnostics, 1)
	d := out.Report.Diagnostics[0]
	assert.Equal(t, diagnostics.CategoryMissingCases, d.Category)
	assert.Contains(t, d.Message, "Nat.succ")
}

func TestFixtureCompileRedundantAlternative(t *testing.T) {
	body := `{
  "formatVersion": "1.0",
  "name": "shadowed",
  "inductives": [
    {
      "name": "Bool",
      "constructors": [
        {"name": "Bool.false", "fields": []},
        {"name": "Bool.true", "fields": []}
      ]
    }
  ],
  "majors": [{"name": "b", "type": "Bool"}],
  "alternatives": [
    {"binders": [{"name": "x", "type": "Bool"}], "patterns": ["x"], "line": 2},
    {"binders": [], "patterns": ["Bool.true"], "line": 3}
  ]
}`
	path := writeFixture(t, body)
	f, err := LoadFixture(path)
	require.NoError(t, err)

	out, err := f.Compile(path)
	require.NoError(t, err)
	assert.False(t, out.Report.HasErrors())
	require.Len(t, out.Report.Diagnostics, 1)
	d := out.Report.Diagnostics[0]
	assert.Equal(t, diagnostics.CategoryRedundantAlternative, d.Category)
	assert.Contains(t, d.Message, "#2")
	assert.Contains(t, d.Span.String(), "fixture.json:3:")
}

func TestFixtureCompileArityMismatch(t *testing.T) {
	body := `{
  "formatVersion": "1.0",
  "name": "badArity",
  "inductives": [
    {
      "name": "Bool",
      "constructors": [
        {"name": "Bool.false", "fields": []},
        {"name": "Bool.true", "fields": []}
      ]
    }
  ],
  "majors": [{"name": "b", "type": "Bool"}],
  "alternatives": [
    {"binders": [], "patterns": ["Bool.true", "Bool.false"], "line": 2}
  ]
}`
	path := writeFixture(t, body)
	f, err := LoadFixture(path)
	require.NoError(t, err)

	out, err := f.Compile(path)
	require.NoError(t, err)
	assert.Nil(t, out.Compiled)
	require.True(t, out.Report.HasErrors())
	assert.Equal(t, diagnostics.CategoryCompilerError, out.Report.Diagnostics[0].Category)
}

func newTestParser(t *testing.T) *altParser {
	t.Helper()
	store := term.NewGoalStore()
	env := elab.NewEnv()
	_, err := env.AddInductive("Nat", []*elab.Constructor{
		{Name: "Nat.zero"},
		{Name: "Nat.succ", Fields: []elab.Field{{Name: "n", Type: &term.Const{Name: "Nat"}}}},
	})
	require.NoError(t, err)
	p := &altParser{env: env, store: store, binders: map[string]term.LocalDecl{}}
	m := store.FreshFVar("m", &term.Const{Name: "Nat"})
	p.binders["m"] = m
	p.entries = append(p.entries, m)
	return p
}

func TestPatternParser(t *testing.T) {
	natType := &term.Const{Name: "Nat"}

	t.Run("constructor spine", func(t *testing.T) {
		p := newTestParser(t)
		pat, err := p.parsePattern("Nat.succ (Nat.succ m)", natType)
		require.NoError(t, err)
		outer, ok := pat.(*match.CtorPattern)
		require.True(t, ok)
		require.Len(t, outer.Fields, 1)
		inner, ok := outer.Fields[0].(*match.CtorPattern)
		require.True(t, ok)
		require.Len(t, inner.Fields, 1)
		assert.IsType(t, &match.VarPattern{}, inner.Fields[0])
	})

	t.Run("wildcard takes the expected type", func(t *testing.T) {
		p := newTestParser(t)
		pat, err := p.parsePattern("Nat.succ _", natType)
		require.NoError(t, err)
		ctor := pat.(*match.CtorPattern)
		v := ctor.Fields[0].(*match.VarPattern)
		decl, found := term.LocalContext(p.entries).Find(v.ID)
		require.True(t, found)
		assert.True(t, term.Eq(natType, decl.Type))
	})

	t.Run("as pattern", func(t *testing.T) {
		p := newTestParser(t)
		pat, err := p.parsePattern("m@(Nat.succ _)", natType)
		require.NoError(t, err)
		as, ok := pat.(*match.AsPattern)
		require.True(t, ok)
		assert.IsType(t, &match.CtorPattern{}, as.Inner)
	})

	t.Run("nat literal", func(t *testing.T) {
		p := newTestParser(t)
		pat, err := p.parsePattern("42", natType)
		require.NoError(t, err)
		val, ok := pat.(*match.ValPattern)
		require.True(t, ok)
		lit, ok := val.Term.(*term.Lit)
		require.True(t, ok)
		assert.Equal(t, uint64(42), lit.Val.Nat)
	})

	t.Run("array literal", func(t *testing.T) {
		p := newTestParser(t)
		arrType := term.MkApp(&term.Const{Name: "Array"}, natType)
		pat, err := p.parsePattern("[1, m]", arrType)
		require.NoError(t, err)
		arr, ok := pat.(*match.ArrayLitPattern)
		require.True(t, ok)
		require.Len(t, arr.Elems, 2)
		assert.True(t, term.Eq(natType, arr.ElemType))
		assert.IsType(t, &match.ValPattern{}, arr.Elems[0])
		assert.IsType(t, &match.VarPattern{}, arr.Elems[1])
	})

	t.Run("unknown identifier", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.parsePattern("mystery", natType)
		assert.ErrorContains(t, err, "neither a binder nor a constructor")
	})

	t.Run("constructor arity", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.parsePattern("Nat.succ", natType)
		assert.ErrorContains(t, err, "expects 1 fields")
	})

	t.Run("trailing input", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.parsePattern("Nat.zero )", natType)
		assert.ErrorContains(t, err, "trailing")
	})
}
