package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionStack(t *testing.T) {
	s := newActionStack(0)

	_, ok := s.Pop()
	assert.False(t, ok)

	for _, id := range []string{"a", "b", "c"} {
		assert.False(t, s.Push(Action{Kind: KindAdd, ID: id}))
	}
	assert.Equal(t, 3, s.Len())

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, "c", top.ID)

	a, _ := s.Pop()
	b, _ := s.Pop()
	assert.Equal(t, []string{"c", "b"}, []string{a.ID, b.ID})
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, s.Clear())
	assert.Equal(t, 0, s.Len())
}

func TestActionStackBounded(t *testing.T) {
	s := newActionStack(2)

	assert.False(t, s.Push(Action{ID: "a"}))
	assert.False(t, s.Push(Action{ID: "b"}))
	assert.True(t, s.Push(Action{ID: "c"}))
	assert.Equal(t, 2, s.Len())

	c, _ := s.Pop()
	b, _ := s.Pop()
	_, ok := s.Pop()
	assert.Equal(t, "c", c.ID)
	assert.Equal(t, "b", b.ID)
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "add", KindAdd.String())
	assert.Equal(t, "put", KindPut.String())
	assert.Equal(t, "remove", KindRemove.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
