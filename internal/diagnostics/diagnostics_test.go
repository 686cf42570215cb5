package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloria-lang/veloria/internal/match"
	"github.com/veloria-lang/veloria/internal/position"
	"github.com/veloria-lang/veloria/internal/term"
)

func TestFromResult(t *testing.T) {
	res := &match.ElimResult{
		CounterExamples: [][]match.Example{
			{&match.CtorExample{Name: "Bool.false"}},
		},
		UnusedAltIdxs: []int{1},
	}
	alts := []match.AltLHS{
		{},
		{Span: position.NewSpan(
			position.Position{Filename: "def.vl", Line: 4, Column: 1},
			position.Position{Filename: "def.vl", Line: 4, Column: 20},
		)},
	}

	r := FromResult("f", res, alts)
	require.Len(t, r.Diagnostics, 2)
	assert.True(t, r.HasErrors())

	assert.Equal(t, LevelError, r.Diagnostics[0].Level)
	assert.Equal(t, CategoryMissingCases, r.Diagnostics[0].Category)
	assert.Contains(t, r.Diagnostics[0].Message, "Bool.false")

	assert.Equal(t, LevelWarning, r.Diagnostics[1].Level)
	assert.Equal(t, CategoryRedundantAlternative, r.Diagnostics[1].Category)
	assert.Contains(t, r.Diagnostics[1].Message, "#2")
	assert.Contains(t, r.Diagnostics[1].String(), "def.vl:4:1")
}

func TestFromResultClean(t *testing.T) {
	r := FromResult("f", &match.ElimResult{Compiled: &term.Const{Name: "f"}}, nil)
	assert.Empty(t, r.Diagnostics)
	assert.False(t, r.HasErrors())
}

func TestFromError(t *testing.T) {
	r := FromError("f", errors.New("boom"))
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, LevelError, r.Diagnostics[0].Level)
	assert.Equal(t, CategoryCompilerError, r.Diagnostics[0].Category)
	assert.True(t, r.HasErrors())
}
