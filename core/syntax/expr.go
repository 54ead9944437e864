package syntax

import (
	"fmt"
	"strings"
)

// Expr is implemented by every expression node.
type Expr interface {
	Node
	CloneExpr() Expr
	exprNode()
}

// PathExpr is a path used in expression position: Box::pin, some_var.
type PathExpr struct {
	Path Path
	Span Span
}

func (e *PathExpr) String() string { return e.Path.String() }

func (e *PathExpr) Pos() Span { return e.Span }

func (e *PathExpr) CloneExpr() Expr {
	return &PathExpr{Path: e.Path.Clone(), Span: e.Span}
}

func (e *PathExpr) exprNode() {}

// LitStr is a string literal.
type LitStr struct {
	Value string
	Span  Span
}

func (e *LitStr) String() string { return fmt.Sprintf("%q", e.Value) }

func (e *LitStr) Pos() Span { return e.Span }

func (e *LitStr) CloneExpr() Expr {
	out := *e
	return &out
}

func (e *LitStr) exprNode() {}

// CallExpr is a function call: callee(args...).
type CallExpr struct {
	Fn   Expr
	Args []Expr
	Span Span
}

func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Fn.String() + "(" + strings.Join(parts, ", ") + ")"
}

func (e *CallExpr) Pos() Span { return e.Span }

func (e *CallExpr) CloneExpr() Expr {
	out := &CallExpr{Fn: e.Fn.CloneExpr(), Span: e.Span}
	if e.Args != nil {
		out.Args = make([]Expr, len(e.Args))
		for i, a := range e.Args {
			out.Args[i] = a.CloneExpr()
		}
	}
	return out
}

func (e *CallExpr) exprNode() {}

// Call builds a call of the given path with the given arguments.
func Call(path Path, args ...Expr) *CallExpr {
	return &CallExpr{Fn: &PathExpr{Path: path}, Args: args}
}

// MethodCallExpr is a method call: recv.method(args...).
type MethodCallExpr struct {
	Recv   Expr
	Method string
	Args   []Expr
	Span   Span
}

func (e *MethodCallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Recv.String() + "." + e.Method + "(" + strings.Join(parts, ", ") + ")"
}

func (e *MethodCallExpr) Pos() Span { return e.Span }

func (e *MethodCallExpr) CloneExpr() Expr {
	out := &MethodCallExpr{Recv: e.Recv.CloneExpr(), Method: e.Method, Span: e.Span}
	if e.Args != nil {
		out.Args = make([]Expr, len(e.Args))
		for i, a := range e.Args {
			out.Args[i] = a.CloneExpr()
		}
	}
	return out
}

func (e *MethodCallExpr) exprNode() {}

// AsyncExpr is an async block, optionally capturing by value (move).
type AsyncExpr struct {
	Move  bool
	Attrs []Attr
	Body  *Block
	Span  Span
}

func (e *AsyncExpr) String() string {
	var b strings.Builder
	b.WriteString(renderAttrs(e.Attrs, " "))
	b.WriteString("async ")
	if e.Move {
		b.WriteString("move ")
	}
	b.WriteString(e.Body.String())
	return b.String()
}

func (e *AsyncExpr) Pos() Span { return e.Span }

func (e *AsyncExpr) CloneExpr() Expr {
	return &AsyncExpr{Move: e.Move, Attrs: cloneAttrs(e.Attrs), Body: e.Body.Clone(), Span: e.Span}
}

func (e *AsyncExpr) exprNode() {}

// BlockExpr is a block used in expression position, with optional
// attributes carried over from a rewritten async block.
type BlockExpr struct {
	Attrs []Attr
	Body  *Block
	Span  Span
}

func (e *BlockExpr) String() string {
	return renderAttrs(e.Attrs, " ") + e.Body.String()
}

func (e *BlockExpr) Pos() Span { return e.Span }

func (e *BlockExpr) CloneExpr() Expr {
	return &BlockExpr{Attrs: cloneAttrs(e.Attrs), Body: e.Body.Clone(), Span: e.Span}
}

func (e *BlockExpr) exprNode() {}

// ClosureExpr is a closure: |params| body.
type ClosureExpr struct {
	Params []string
	Body   Expr
	Span   Span
}

func (e *ClosureExpr) String() string {
	return "|" + strings.Join(e.Params, ", ") + "| " + e.Body.String()
}

func (e *ClosureExpr) Pos() Span { return e.Span }

func (e *ClosureExpr) CloneExpr() Expr {
	out := &ClosureExpr{Body: e.Body.CloneExpr(), Span: e.Span}
	if e.Params != nil {
		out.Params = make([]string, len(e.Params))
		copy(out.Params, e.Params)
	}
	return out
}

func (e *ClosureExpr) exprNode() {}

// TupleExpr is a tuple literal: (a, b).
type TupleExpr struct {
	Elems []Expr
	Span  Span
}

func (e *TupleExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *TupleExpr) Pos() Span { return e.Span }

func (e *TupleExpr) CloneExpr() Expr {
	out := &TupleExpr{Span: e.Span}
	if e.Elems != nil {
		out.Elems = make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			out.Elems[i] = el.CloneExpr()
		}
	}
	return out
}

func (e *TupleExpr) exprNode() {}

// ArrayExpr is an array literal: [a, b].
type ArrayExpr struct {
	Elems []Expr
	Span  Span
}

func (e *ArrayExpr) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *ArrayExpr) Pos() Span { return e.Span }

func (e *ArrayExpr) CloneExpr() Expr {
	out := &ArrayExpr{Span: e.Span}
	if e.Elems != nil {
		out.Elems = make([]Expr, len(e.Elems))
		for i, el := range e.Elems {
			out.Elems[i] = el.CloneExpr()
		}
	}
	return out
}

func (e *ArrayExpr) exprNode() {}

// RefExpr is a borrow: &x.
type RefExpr struct {
	X    Expr
	Span Span
}

func (e *RefExpr) String() string { return "&" + e.X.String() }

func (e *RefExpr) Pos() Span { return e.Span }

func (e *RefExpr) CloneExpr() Expr {
	return &RefExpr{X: e.X.CloneExpr(), Span: e.Span}
}

func (e *RefExpr) exprNode() {}

// MacroExpr is a macro invocation kept as raw tokens: format!("{:?}", x).
type MacroExpr struct {
	Path   Path
	Tokens string
	Span   Span
}

func (e *MacroExpr) String() string {
	return e.Path.String() + "!(" + e.Tokens + ")"
}

func (e *MacroExpr) Pos() Span { return e.Span }

func (e *MacroExpr) CloneExpr() Expr {
	out := *e
	out.Path = e.Path.Clone()
	return &out
}

func (e *MacroExpr) exprNode() {}
