// Package lower turns classified function items into rewritten functions:
// signature lowering for native async functions, body instrumentation for
// every strategy, and final emission with the consumed attribute stripped.
package lower

import (
	"fmt"

	"github.com/spanweave/spanweave/core/invariant"
	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
	"github.com/spanweave/spanweave/trace/classify"
	"github.com/spanweave/spanweave/trace/convention"
)

// DiagCode identifies a lowering diagnostic.
type DiagCode string

const (
	// DiagInvalidEnterOnPoll flags enter_on_poll applied to a synchronous
	// function. The function is still instrumented with a plain guard.
	DiagInvalidEnterOnPoll DiagCode = "INVALID_ENTER_ON_POLL"

	// DiagUnsupportedLegacyDesugaring flags the nested-function desugaring
	// shape, which cannot be rewritten. No output is produced for it.
	DiagUnsupportedLegacyDesugaring DiagCode = "UNSUPPORTED_LEGACY_DESUGARING"
)

// Diagnostic is a lowering problem attached to the function it concerns.
type Diagnostic struct {
	Code    DiagCode
	Message string
	Span    syntax.Span
	Fn      string // Function identifier
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (fn %s at %s)", d.Code, d.Message, d.Fn, d.Span)
}

// Config carries lowering-wide settings.
type Config struct {
	// ConventionVersion is the async-trait version the desugared inputs
	// were produced with. Empty means current.
	ConventionVersion string
}

// Option adjusts the lowering configuration.
type Option func(*Config)

// WithConventionVersion pins the desugaring convention version.
func WithConventionVersion(v string) Option {
	return func(c *Config) { c.ConventionVersion = v }
}

// Run lowers every classified item. Inputs are never mutated; each emitted
// function is built on a deep copy. Items that cannot be lowered contribute
// a diagnostic instead of a quote.
func Run(items []*classify.Item, opts ...Option) ([]*Quote, []Diagnostic) {
	var cfg Config
	for _, o := range opts {
		o(&cfg)
	}

	var quotes []*Quote
	var diags []Diagnostic

	for _, it := range items {
		invariant.Invariant(it.Fn != nil, "classified item must carry its function")

		switch it.Kind {
		case classify.Sync:
			q, d := lowerSync(it)
			quotes = append(quotes, q)
			diags = append(diags, d...)

		case classify.NativeAsync:
			quotes = append(quotes, lowerNativeAsync(it))

		case classify.DesugaredAsync:
			if it.Legacy() || !convention.SupportsBlockForm(cfg.ConventionVersion) {
				diags = append(diags, Diagnostic{
					Code:    DiagUnsupportedLegacyDesugaring,
					Message: convention.UpgradeMessage,
					Span:    it.Fn.Span,
					Fn:      it.Fn.Sig.Ident,
				})
				continue
			}
			quotes = append(quotes, lowerDesugared(it))
		}
	}
	return quotes, diags
}

func lowerSync(it *classify.Item) (*Quote, []Diagnostic) {
	var diags []Diagnostic
	opts := it.Options
	if opts.EnterOnPoll {
		diags = append(diags, Diagnostic{
			Code:    DiagInvalidEnterOnPoll,
			Message: "`enter_on_poll` only applies to async functions",
			Span:    it.Fn.Span,
			Fn:      it.Fn.Sig.Ident,
		})
		opts.EnterOnPoll = false
	}

	fn := it.Fn.Clone()
	fn.Body = instrumentSync(opts, fn.Body)
	return Emit(fn), diags
}

func lowerNativeAsync(it *classify.Item) *Quote {
	fn := it.Fn.Clone()
	local := it.Options.Scope == attr.ScopeLocal

	Signature(&fn.Sig, hasSelfInSignature(&fn.Sig), local)

	inner := &syntax.AsyncExpr{Move: true, Body: fn.Body}
	fn.Body = asyncBodyExpr(instrumentAsync(it.Options, inner))
	return Emit(fn)
}

func lowerDesugared(it *classify.Item) *Quote {
	fn := it.Fn.Clone()

	// The clone has its own trailing Box::pin call; swap its future
	// argument for the instrumented one.
	tail := fn.Body.TrailingExpr()
	invariant.Invariant(tail != nil, "desugared item lost its trailing expression")
	call, ok := tail.X.(*syntax.CallExpr)
	invariant.Invariant(ok && len(call.Args) > 0, "desugared item lost its Box::pin call")

	inner, ok := call.Args[0].(*syntax.AsyncExpr)
	invariant.Invariant(ok, "desugared item lost its async block")

	call.Args[0] = instrumentAsync(it.Options, inner)
	return Emit(fn)
}
