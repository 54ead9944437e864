// Package classify decides, per function item, which lowering strategy
// applies: synchronous guard insertion, native async instrumentation, or
// rewrapping a desugared async body.
//
// Classification inspects shape only. It never mutates the input tree; the
// lowering stages clone what they rewrite.
package classify

import (
	"strings"

	"github.com/spanweave/spanweave/core/invariant"
	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
)

// Kind is the lowering strategy selected for a function item.
type Kind int

const (
	// Sync functions get a scoped guard inserted at the top of the body.
	Sync Kind = iota
	// NativeAsync functions get their body wrapped in an instrumented
	// async block and their signature lowered to return an opaque future.
	NativeAsync
	// DesugaredAsync functions already return a boxed future built from an
	// async move block; the block is instrumented in place.
	DesugaredAsync
)

func (k Kind) String() string {
	switch k {
	case NativeAsync:
		return "NativeAsync"
	case DesugaredAsync:
		return "DesugaredAsync"
	default:
		return "Sync"
	}
}

// Item is one classified instrumentation target.
type Item struct {
	Options attr.Options
	Fn      *syntax.FnItem
	Kind    Kind

	// Inner is the async move block feeding Box::pin, set only for
	// DesugaredAsync in the supported block form.
	Inner *syntax.AsyncExpr

	// LegacyFn is the nested async function of the unsupported legacy
	// desugaring, set only when that shape was recognized.
	LegacyFn *syntax.FnItem
}

// Legacy reports whether the item matched the unsupported nested-function
// desugaring.
func (it *Item) Legacy() bool { return it.LegacyFn != nil }

// Run classifies fn and, when opts.Recurse is set, every function item
// nested in its body. Each item resolves the span-name sentinel to its own
// function identifier, so recursion yields independently named spans.
func Run(opts attr.Options, fn *syntax.FnItem) []*Item {
	invariant.NotNil(fn, "fn")

	var items []*Item
	add := func(f *syntax.FnItem) {
		it := classifyOne(opts, f)
		items = append(items, it)
	}

	if opts.Recurse {
		syntax.WalkFnItems(fn, add)
	} else {
		add(fn)
	}

	invariant.Postcondition(len(items) > 0, "classification produced no items")
	return items
}

func classifyOne(opts attr.Options, fn *syntax.FnItem) *Item {
	if opts.Name == attr.DefaultName {
		opts.Name = fn.Sig.Ident
	}
	it := &Item{Options: opts, Fn: fn}

	if fn.Sig.Async {
		it.Kind = NativeAsync
		return it
	}

	inner, legacy := detectDesugared(opts, fn)
	switch {
	case legacy != nil:
		it.Kind = DesugaredAsync
		it.LegacyFn = legacy
	case inner != nil:
		it.Kind = DesugaredAsync
		it.Inner = inner
	default:
		it.Kind = Sync
	}
	return it
}

// detectDesugared recognizes the two Box::pin desugaring shapes. It returns
// the async block for the supported form, or the nested async function for
// the legacy form; both nil means the body is ordinary synchronous code.
func detectDesugared(opts attr.Options, fn *syntax.FnItem) (*syntax.AsyncExpr, *syntax.FnItem) {
	if fn.Body == nil {
		return nil, nil
	}

	tail := fn.Body.TrailingExpr()
	if tail == nil {
		return nil, nil
	}
	call, ok := tail.X.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return nil, nil
	}
	callee, ok := call.Fn.(*syntax.PathExpr)
	if !ok || !isBoxPin(callee.Path) {
		return nil, nil
	}

	switch arg := call.Args[0].(type) {
	case *syntax.AsyncExpr:
		if arg.Move || opts.AsyncTrait {
			return arg, nil
		}
	case *syntax.CallExpr:
		// Box::pin(nested_async_fn(...)) is the pre-block-form desugaring.
		if target, ok := arg.Fn.(*syntax.PathExpr); ok {
			if nested := findAsyncFn(fn.Body, target.Path.Last()); nested != nil {
				return nil, nested
			}
		}
	}
	return nil, nil
}

// isBoxPin matches Box::pin under any path prefix, so ::alloc::boxed::Box
// and plain Box both count.
func isBoxPin(p syntax.Path) bool {
	return strings.HasSuffix(p.String(), "Box::pin")
}

// findAsyncFn looks up a nested async function item by name in the block's
// top-level statements.
func findAsyncFn(b *syntax.Block, name string) *syntax.FnItem {
	for _, s := range b.Stmts {
		is, ok := s.(*syntax.ItemStmt)
		if !ok {
			continue
		}
		if is.Item.Sig.Async && is.Item.Sig.Ident == name {
			return is.Item
		}
	}
	return nil
}
