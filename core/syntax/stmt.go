package syntax

import "strings"

// Block is a braced statement list.
type Block struct {
	Stmts []Stmt
	Span  Span
}

func (b *Block) String() string {
	if len(b.Stmts) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func (b *Block) Pos() Span { return b.Span }

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := &Block{Span: b.Span}
	if b.Stmts != nil {
		out.Stmts = make([]Stmt, len(b.Stmts))
		for i, s := range b.Stmts {
			out.Stmts[i] = s.CloneStmt()
		}
	}
	return out
}

// TrailingExpr returns the block's trailing expression statement, or nil.
// Only the final statement can yield the block's value, and only when it is
// an expression without a terminating semicolon.
func (b *Block) TrailingExpr() *ExprStmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	es, ok := b.Stmts[len(b.Stmts)-1].(*ExprStmt)
	if !ok || es.Semi {
		return nil
	}
	return es
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	CloneStmt() Stmt
	stmtNode()
}

// LetStmt is a let binding: let pat = init;
type LetStmt struct {
	Pat  Pattern
	Init Expr
	Span Span
}

func (s *LetStmt) String() string {
	return "let " + s.Pat.String() + " = " + s.Init.String() + ";"
}

func (s *LetStmt) Pos() Span { return s.Span }

func (s *LetStmt) CloneStmt() Stmt {
	return &LetStmt{Pat: s.Pat.Clone(), Init: s.Init.CloneExpr(), Span: s.Span}
}

func (s *LetStmt) stmtNode() {}

// ItemStmt is a nested item declaration; only function items are modeled.
type ItemStmt struct {
	Item *FnItem
	Span Span
}

func (s *ItemStmt) String() string { return s.Item.String() }

func (s *ItemStmt) Pos() Span { return s.Span }

func (s *ItemStmt) CloneStmt() Stmt {
	return &ItemStmt{Item: s.Item.Clone(), Span: s.Span}
}

func (s *ItemStmt) stmtNode() {}

// ExprStmt is an expression statement. Semi distinguishes `expr;` from a
// trailing expression that yields the block's value.
type ExprStmt struct {
	X    Expr
	Semi bool
	Span Span
}

func (s *ExprStmt) String() string {
	if s.Semi {
		return s.X.String() + ";"
	}
	return s.X.String()
}

func (s *ExprStmt) Pos() Span { return s.Span }

func (s *ExprStmt) CloneStmt() Stmt {
	return &ExprStmt{X: s.X.CloneExpr(), Semi: s.Semi, Span: s.Span}
}

func (s *ExprStmt) stmtNode() {}
