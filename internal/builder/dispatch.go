package builder

import (
	"github.com/livefir/tagcompiler/internal/node"
)

// dispatch is the binding class a dynamic tag receives
type dispatch int

const (
	dispatchSimple dispatch = iota
	dispatchEach
	dispatchIf
	dispatchTag
)

func (d dispatch) String() string {
	switch d {
	case dispatchEach:
		return "each"
	case dispatchIf:
		return "if"
	case dispatchTag:
		return "tag"
	default:
		return "simple"
	}
}

// classify picks the binding class of a dynamic tag by priority:
// loops first, then conditionals, then nested components, then attributes.
func classify(n *node.Node) dispatch {
	switch {
	case node.HasEachAttribute(n):
		return dispatchEach
	case node.HasIfAttribute(n):
		return dispatchIf
	case node.IsCustomElement(n):
		return dispatchTag
	default:
		return dispatchSimple
	}
}
