package lower

import (
	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
)

// instrumentSync prepends a scoped guard binding to the body. The guard
// drops at end of scope, closing the span.
func instrumentSync(opts attr.Options, body *syntax.Block) *syntax.Block {
	stmts := make([]syntax.Stmt, 0, len(body.Stmts)+1)
	stmts = append(stmts, guardStmt(opts))
	stmts = append(stmts, body.Stmts...)
	return &syntax.Block{Stmts: stmts, Span: body.Span}
}

// instrumentAsync rebuilds the async block around body and chains the span
// combinator onto it: enter_on_poll re-enters the span at every poll, while
// in_span holds one span across the future's whole life.
func instrumentAsync(opts attr.Options, inner *syntax.AsyncExpr) syntax.Expr {
	block := &syntax.AsyncExpr{
		Move:  inner.Move,
		Attrs: inner.Attrs,
		Body:  inner.Body,
		Span:  inner.Span,
	}
	if opts.EnterOnPoll {
		return &syntax.MethodCallExpr{
			Recv:   block,
			Method: "enter_on_poll",
			Args:   []syntax.Expr{&syntax.LitStr{Value: opts.Name}},
		}
	}
	return &syntax.MethodCallExpr{
		Recv:   block,
		Method: "in_span",
		Args:   []syntax.Expr{spanExpr(opts)},
	}
}

// spanExpr builds the thread-spannable span fed to in_span, honoring the
// root and parent options, with variable properties attached last.
func spanExpr(opts attr.Options) syntax.Expr {
	name := &syntax.LitStr{Value: opts.Name}
	var span syntax.Expr
	switch {
	case opts.Root:
		span = syntax.Call(
			syntax.Path{"minitrace", "Span", "root"},
			name,
			syntax.Call(syntax.Path{"minitrace", "prelude", "SpanContext", "random"}),
		)
	case opts.Parent != "":
		span = syntax.Call(
			syntax.Path{"minitrace", "Span", "enter_with_parent"},
			name,
			&syntax.RefExpr{X: &syntax.PathExpr{Path: syntax.Path{opts.Parent}}},
		)
	default:
		span = syntax.Call(syntax.Path{"minitrace", "Span", "enter_with_local_parent"}, name)
	}
	return withProperties(span, opts.Variables)
}

// guardStmt builds the let binding carrying the synchronous span guard.
// The thread scope binds a full span so the guard can cross threads; the
// local scope uses the cheaper thread-local guard.
func guardStmt(opts attr.Options) *syntax.LetStmt {
	var guard syntax.Expr
	if opts.Scope == attr.ScopeThreads || opts.Root || opts.Parent != "" {
		guard = spanExpr(opts)
	} else {
		guard = withProperties(
			syntax.Call(
				syntax.Path{"minitrace", "local", "LocalSpan", "enter_with_local_parent"},
				&syntax.LitStr{Value: opts.Name},
			),
			opts.Variables,
		)
	}
	return &syntax.LetStmt{Pat: syntax.IdentPat(opts.Recorder), Init: guard}
}

// withProperties chains a with_properties call recording each named
// variable's debug rendering, or returns recv unchanged when there are no
// variables.
func withProperties(recv syntax.Expr, vars []string) syntax.Expr {
	if len(vars) == 0 {
		return recv
	}
	pairs := make([]syntax.Expr, len(vars))
	for i, v := range vars {
		pairs[i] = &syntax.TupleExpr{Elems: []syntax.Expr{
			&syntax.LitStr{Value: v},
			&syntax.MacroExpr{Path: syntax.Path{"format"}, Tokens: `"{:?}", ` + v},
		}}
	}
	return &syntax.MethodCallExpr{
		Recv:   recv,
		Method: "with_properties",
		Args: []syntax.Expr{&syntax.ClosureExpr{
			Body: &syntax.ArrayExpr{Elems: pairs},
		}},
	}
}

// asyncBodyExpr wraps the instrumented future expression as the sole
// trailing expression of a fresh body block.
func asyncBodyExpr(x syntax.Expr) *syntax.Block {
	return &syntax.Block{Stmts: []syntax.Stmt{&syntax.ExprStmt{X: x}}}
}
