package lower

import (
	"github.com/spanweave/spanweave/core/invariant"
	"github.com/spanweave/spanweave/core/syntax"
)

// traceAttrName is the attribute this compiler consumes. It is removed from
// emitted functions so output never re-triggers instrumentation.
const traceAttrName = "trace"

// Quote is one emitted function, ready for rendering.
type Quote struct {
	Fn *syntax.FnItem
}

// Emit finalizes a rewritten function into a Quote, dropping the consumed
// trace attribute while preserving every other attribute in order.
func Emit(fn *syntax.FnItem) *Quote {
	invariant.NotNil(fn, "fn")

	kept := fn.Attrs[:0:0]
	for _, a := range fn.Attrs {
		if a.Name == traceAttrName {
			continue
		}
		kept = append(kept, a)
	}
	fn.Attrs = kept

	invariant.Postcondition(!hasTraceAttr(fn), "emitted function retains the trace attribute")
	return &Quote{Fn: fn}
}

func hasTraceAttr(fn *syntax.FnItem) bool {
	for _, a := range fn.Attrs {
		if a.Name == traceAttrName {
			return true
		}
	}
	return false
}

// String renders the emitted function as source text.
func (q *Quote) String() string { return q.Fn.String() }
