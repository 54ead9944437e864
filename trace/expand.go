// Package trace is the front door of the instrumentation compiler: it takes
// one attribute application (its tokenized arguments plus the annotated
// function) and produces the rewritten function(s) and any diagnostics.
package trace

import (
	"github.com/spanweave/spanweave/core/invariant"
	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
	"github.com/spanweave/spanweave/trace/classify"
	"github.com/spanweave/spanweave/trace/lower"
)

// Result is the output of one expansion: emitted functions plus the
// diagnostics raised while lowering. A function that cannot be lowered
// contributes a diagnostic and no quote.
type Result struct {
	Quotes      []*lower.Quote
	Diagnostics []lower.Diagnostic
}

// Expand validates args, classifies fn (and nested functions when the
// recurse option is set), and lowers every classified item. Option
// validation failures return an *attr.ParseError; lowering problems are
// reported through Result.Diagnostics instead.
func Expand(args []attr.Arg, fn *syntax.FnItem, opts ...lower.Option) (*Result, error) {
	invariant.NotNil(fn, "fn")

	options, err := attr.Parse(args)
	if err != nil {
		return nil, err
	}
	return run(options, fn, opts)
}

// ExpandLegacy is Expand under the legacy call-site grammar: at most two
// arguments, name and enter_on_poll only, at least one required.
func ExpandLegacy(args []attr.Arg, fn *syntax.FnItem, opts ...lower.Option) (*Result, error) {
	invariant.NotNil(fn, "fn")

	options, err := attr.ParseLegacy(args)
	if err != nil {
		return nil, err
	}
	return run(options, fn, opts)
}

func run(options attr.Options, fn *syntax.FnItem, opts []lower.Option) (*Result, error) {
	items := classify.Run(options, fn)
	quotes, diags := lower.Run(items, opts...)
	return &Result{Quotes: quotes, Diagnostics: diags}, nil
}
