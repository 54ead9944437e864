package syntax

// WalkFnItems visits fn and every function item nested inside its body in
// pre-order. The walk descends through statements and expression bodies
// (async blocks, closures, nested blocks); function items are the only
// nested item kind modeled, so no other item kind is entered.
func WalkFnItems(fn *FnItem, visit func(*FnItem)) {
	if fn == nil {
		return
	}
	visit(fn)
	walkBlockFns(fn.Body, visit)
}

func walkBlockFns(b *Block, visit func(*FnItem)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ItemStmt:
			WalkFnItems(s.Item, visit)
		case *LetStmt:
			walkExprFns(s.Init, visit)
		case *ExprStmt:
			walkExprFns(s.X, visit)
		}
	}
}

func walkExprFns(e Expr, visit func(*FnItem)) {
	switch e := e.(type) {
	case *CallExpr:
		walkExprFns(e.Fn, visit)
		for _, a := range e.Args {
			walkExprFns(a, visit)
		}
	case *MethodCallExpr:
		walkExprFns(e.Recv, visit)
		for _, a := range e.Args {
			walkExprFns(a, visit)
		}
	case *AsyncExpr:
		walkBlockFns(e.Body, visit)
	case *BlockExpr:
		walkBlockFns(e.Body, visit)
	case *ClosureExpr:
		walkExprFns(e.Body, visit)
	case *TupleExpr:
		for _, el := range e.Elems {
			walkExprFns(el, visit)
		}
	case *ArrayExpr:
		for _, el := range e.Elems {
			walkExprFns(el, visit)
		}
	case *RefExpr:
		walkExprFns(e.X, visit)
	}
}
