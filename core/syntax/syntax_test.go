package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFnItemString(t *testing.T) {
	fn := &FnItem{
		Attrs: []Attr{{Name: "inline"}, {Name: "trace", Tokens: `name = "f"`}},
		Vis:   VisPublic,
		Sig: Signature{
			Async: true,
			Ident: "fetch",
			Generics: Generics{
				Params: []GenericParam{
					{Kind: LifetimeParam, Name: "a"},
					{Kind: TypeParam, Name: "T"},
				},
				Where: []WherePred{{
					Subject: "T",
					Bounds:  []Bound{{Trait: Path{"Clone"}}, {Lifetime: "a"}},
				}},
			},
			Inputs: []Param{
				&Receiver{Ref: true, Lifetime: "a"},
				&TypedParam{Pat: IdentPat("key"), Type: &RefType{Elem: NamedType("str")}},
			},
			Output: &PathType{
				Path: Path{"Vec"},
				Args: []TypeArg{{Type: NamedType("T")}},
			},
		},
		Body: &Block{Stmts: []Stmt{
			&LetStmt{Pat: IdentPat("rows"), Init: Call(Path{"query"}, &PathExpr{Path: Path{"key"}})},
			&ExprStmt{X: &PathExpr{Path: Path{"rows"}}},
		}},
	}

	want := "#[inline]\n" +
		"#[trace(name = \"f\")]\n" +
		"pub async fn fetch<'a, T>(&'a self, key: &str) -> Vec<T> where T: Clone + 'a {\n" +
		"    let rows = query(key);\n" +
		"    rows\n" +
		"}"
	if diff := cmp.Diff(want, fn.String()); diff != "" {
		t.Errorf("rendering mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailingExpr(t *testing.T) {
	value := &ExprStmt{X: &PathExpr{Path: Path{"x"}}}
	tests := []struct {
		name  string
		block *Block
		want  *ExprStmt
	}{
		{name: "empty block", block: &Block{}, want: nil},
		{name: "trailing value", block: &Block{Stmts: []Stmt{value}}, want: value},
		{
			name: "semicolon terminates",
			block: &Block{Stmts: []Stmt{
				&ExprStmt{X: &PathExpr{Path: Path{"x"}}, Semi: true},
			}},
			want: nil,
		},
		{
			name: "expression before a later statement is not trailing",
			block: &Block{Stmts: []Stmt{
				value,
				&ItemStmt{Item: &FnItem{Sig: Signature{Ident: "g"}, Body: &Block{}}},
			}},
			want: nil,
		},
		{
			name: "expression after other statements is trailing",
			block: &Block{Stmts: []Stmt{
				&LetStmt{Pat: IdentPat("y"), Init: &PathExpr{Path: Path{"x"}}},
				value,
			}},
			want: value,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.TrailingExpr(); got != tt.want {
				t.Errorf("TrailingExpr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	fn := &FnItem{
		Sig: Signature{
			Async:  true,
			Ident:  "f",
			Inputs: []Param{&TypedParam{Pat: IdentPat("x"), Type: &RefType{Elem: NamedType("str")}}},
		},
		Body: &Block{Stmts: []Stmt{
			&ExprStmt{X: Call(Path{"work"})},
		}},
	}
	before := fn.String()

	clone := fn.Clone()
	clone.Sig.Async = false
	clone.Sig.Inputs[0].(*TypedParam).Type.(*RefType).Lifetime = "a"
	clone.Body.Stmts[0] = &ExprStmt{X: Call(Path{"other"})}

	if got := fn.String(); got != before {
		t.Errorf("clone shares state with original:\nbefore: %s\nafter:  %s", before, got)
	}
}

func TestAbsPath(t *testing.T) {
	if got := Abs("core", "marker", "Send").String(); got != "::core::marker::Send" {
		t.Errorf("Abs(...) = %q, want ::core::marker::Send", got)
	}
}

func TestPatternBindsMut(t *testing.T) {
	nested := Pattern{Kind: PatTuple, Elems: []Pattern{
		IdentPat("a"),
		{Kind: PatTuple, Elems: []Pattern{{Kind: PatIdent, Name: "b", Mut: true}}},
	}}
	if !nested.BindsMut() {
		t.Error("nested mut binding not detected")
	}
	if IdentPat("a").BindsMut() {
		t.Error("plain binding reported as mut")
	}
}

func TestWalkFnItems(t *testing.T) {
	inClosure := &FnItem{Sig: Signature{Ident: "in_closure"}, Body: &Block{}}
	inAsync := &FnItem{Sig: Signature{Ident: "in_async"}, Body: &Block{}}
	top := &FnItem{
		Sig: Signature{Ident: "top"},
		Body: &Block{Stmts: []Stmt{
			&LetStmt{Pat: IdentPat("f"), Init: &ClosureExpr{
				Body: &BlockExpr{Body: &Block{Stmts: []Stmt{&ItemStmt{Item: inClosure}}}},
			}},
			&ExprStmt{X: &AsyncExpr{Body: &Block{Stmts: []Stmt{&ItemStmt{Item: inAsync}}}}},
		}},
	}

	var got []string
	WalkFnItems(top, func(fn *FnItem) { got = append(got, fn.Sig.Ident) })

	want := []string{"top", "in_closure", "in_async"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}
