package selector

import (
	"strconv"
)

// DefaultPrefix is prepended to every allocated binding selector
const DefaultPrefix = "expr"

// Allocator hands out binding selectors that are unique within one
// compilation pass. It is not safe for concurrent use: every compile owns
// its own allocator.
type Allocator struct {
	prefix string
	next   int
}

// NewAllocator creates an allocator starting at zero
func NewAllocator() *Allocator {
	return NewAllocatorWithPrefix(DefaultPrefix)
}

// NewAllocatorWithPrefix creates an allocator using a custom prefix
func NewAllocatorWithPrefix(prefix string) *Allocator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Allocator{prefix: prefix}
}

// Next returns a fresh selector
func (a *Allocator) Next() string {
	id := a.prefix + strconv.Itoa(a.next)
	a.next++
	return id
}

// Count returns how many selectors were allocated so far
func (a *Allocator) Count() int {
	return a.next
}

// Reset restarts the sequence, for reuse across compiles
func (a *Allocator) Reset() {
	a.next = 0
}
