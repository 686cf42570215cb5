package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	p := Position{Filename: "/src/def.vl", Line: 3, Column: 7}
	assert.Equal(t, "def.vl:3:7", p.String())

	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}

func TestPositionIsValid(t *testing.T) {
	assert.True(t, Position{Line: 1, Column: 1}.IsValid())
	assert.False(t, Position{}.IsValid())
	assert.False(t, Position{Line: 1}.IsValid())
}

func TestSpanString(t *testing.T) {
	s := NewSpan(Position{Filename: "def.vl", Line: 3, Column: 7}, Position{Filename: "def.vl", Line: 3, Column: 12})
	assert.Equal(t, "def.vl:3:7-12", s.String())

	multi := NewSpan(Position{Filename: "def.vl", Line: 3, Column: 7}, Position{Filename: "def.vl", Line: 5, Column: 2})
	assert.Equal(t, "def.vl:3:7-5:2", multi.String())

	assert.Equal(t, "<unknown>", Span{}.String())
}
