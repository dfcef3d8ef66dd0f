package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator(t *testing.T) {
	a := NewAllocator()

	assert.Equal(t, "expr0", a.Next())
	assert.Equal(t, "expr1", a.Next())
	assert.Equal(t, "expr2", a.Next())
	assert.Equal(t, 3, a.Count())

	a.Reset()
	assert.Equal(t, "expr0", a.Next())
}

func TestAllocatorUnique(t *testing.T) {
	a := NewAllocatorWithPrefix("b")
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id := a.Next()
		assert.False(t, seen[id], "duplicate selector %s", id)
		seen[id] = true
	}
}

func TestAllocatorEmptyPrefix(t *testing.T) {
	a := NewAllocatorWithPrefix("")
	assert.Equal(t, "expr0", a.Next())
}
