package lower

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
	"github.com/spanweave/spanweave/trace/classify"
)

func item(opts attr.Options, fn *syntax.FnItem) []*classify.Item {
	return classify.Run(opts, fn)
}

func TestLowerSyncGuard(t *testing.T) {
	fn := &syntax.FnItem{
		Sig: syntax.Signature{Ident: "f"},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.LetStmt{Pat: syntax.IdentPat("x"), Init: syntax.Call(syntax.Path{"foo"})},
		}},
	}

	quotes, diags := Run(item(attr.Default(), fn))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}

	want := "fn f() {\n" +
		"    let span = minitrace::local::LocalSpan::enter_with_local_parent(\"f\");\n" +
		"    let x = foo();\n" +
		"}"
	if diff := cmp.Diff(want, quotes[0].String()); diff != "" {
		t.Errorf("rendered function mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerSyncRecorderBinding(t *testing.T) {
	opts := attr.Default()
	opts.Recorder = "guard"
	fn := &syntax.FnItem{Sig: syntax.Signature{Ident: "f"}, Body: &syntax.Block{}}

	quotes, _ := Run(item(opts, fn))
	if got := quotes[0].String(); !strings.Contains(got, "let guard = ") {
		t.Errorf("guard binding missing from:\n%s", got)
	}
}

func TestLowerSyncVariables(t *testing.T) {
	opts := attr.Default()
	opts.Variables = []string{"user_id"}
	fn := &syntax.FnItem{Sig: syntax.Signature{Ident: "f"}, Body: &syntax.Block{}}

	quotes, _ := Run(item(opts, fn))
	want := `.with_properties(|| [("user_id", format!("{:?}", user_id))])`
	if got := quotes[0].String(); !strings.Contains(got, want) {
		t.Errorf("properties chain missing from:\n%s", got)
	}
}

func TestLowerSyncEnterOnPollDiagnoses(t *testing.T) {
	opts := attr.Default()
	opts.EnterOnPoll = true
	fn := &syntax.FnItem{Sig: syntax.Signature{Ident: "f"}, Body: &syntax.Block{}}

	quotes, diags := Run(item(opts, fn))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1", len(diags))
	}
	if diags[0].Code != DiagInvalidEnterOnPoll {
		t.Errorf("code = %s, want %s", diags[0].Code, DiagInvalidEnterOnPoll)
	}
	if diags[0].Fn != "f" {
		t.Errorf("diagnostic fn = %q, want f", diags[0].Fn)
	}
	if len(quotes) != 1 {
		t.Fatalf("best-effort quote missing")
	}
	if got := quotes[0].String(); strings.Contains(got, "enter_on_poll") {
		t.Errorf("sync output must not poll-enter:\n%s", got)
	}
}

func TestLowerNativeAsync(t *testing.T) {
	fn := &syntax.FnItem{
		Sig: syntax.Signature{
			Async:  true,
			Ident:  "f",
			Inputs: []syntax.Param{typed("x", syntax.NamedType("u8"))},
			Output: syntax.NamedType("u8"),
		},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.ExprStmt{X: &syntax.PathExpr{Path: syntax.Path{"x"}}},
		}},
	}

	quotes, diags := Run(item(attr.Default(), fn))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := "fn f<'minitrace>(x: u8) -> impl ::core::future::Future<Output = u8> + 'minitrace {\n" +
		"    async move {\n" +
		"        x\n" +
		"    }.in_span(minitrace::Span::enter_with_local_parent(\"f\"))\n" +
		"}"
	if diff := cmp.Diff(want, quotes[0].String()); diff != "" {
		t.Errorf("rendered function mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerNativeAsyncEnterOnPoll(t *testing.T) {
	opts := attr.Default()
	opts.EnterOnPoll = true
	fn := &syntax.FnItem{Sig: syntax.Signature{Async: true, Ident: "f"}, Body: &syntax.Block{}}

	quotes, diags := Run(item(opts, fn))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := quotes[0].String(); !strings.Contains(got, `.enter_on_poll("f")`) {
		t.Errorf("enter_on_poll chain missing from:\n%s", got)
	}
}

func TestLowerNativeAsyncThreadScope(t *testing.T) {
	opts := attr.Default()
	opts.Scope = attr.ScopeThreads
	fn := &syntax.FnItem{Sig: syntax.Signature{Async: true, Ident: "f"}, Body: &syntax.Block{}}

	quotes, _ := Run(item(opts, fn))
	if got := quotes[0].String(); !strings.Contains(got, "+ ::core::marker::Send + 'minitrace") {
		t.Errorf("thread-scoped future not Send:\n%s", got)
	}
}

func TestLowerSpanConstruction(t *testing.T) {
	root := attr.Default()
	root.Root = true

	parented := attr.Default()
	parented.Parent = "request_span"

	tests := []struct {
		name string
		opts attr.Options
		want string
	}{
		{
			name: "root span",
			opts: root,
			want: `minitrace::Span::root("f", minitrace::prelude::SpanContext::random())`,
		},
		{
			name: "explicit parent",
			opts: parented,
			want: `minitrace::Span::enter_with_parent("f", &request_span)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := &syntax.FnItem{Sig: syntax.Signature{Async: true, Ident: "f"}, Body: &syntax.Block{}}
			quotes, _ := Run(item(tt.opts, fn))
			if got := quotes[0].String(); !strings.Contains(got, tt.want) {
				t.Errorf("span construction %q missing from:\n%s", tt.want, got)
			}
		})
	}
}

func TestLowerDesugaredRewraps(t *testing.T) {
	fn := &syntax.FnItem{
		Sig: syntax.Signature{Ident: "g"},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.ExprStmt{X: syntax.Call(
				syntax.Path{"Box", "pin"},
				&syntax.AsyncExpr{Move: true, Body: &syntax.Block{Stmts: []syntax.Stmt{
					&syntax.ExprStmt{X: syntax.Call(syntax.Path{"work"})},
				}}},
			)},
		}},
	}

	quotes, diags := Run(item(attr.Default(), fn))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	want := "fn g() {\n" +
		"    Box::pin(async move {\n" +
		"        work()\n" +
		"    }.in_span(minitrace::Span::enter_with_local_parent(\"g\")))\n" +
		"}"
	if diff := cmp.Diff(want, quotes[0].String()); diff != "" {
		t.Errorf("rendered function mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerLegacyDesugaringDiagnoses(t *testing.T) {
	fn := &syntax.FnItem{
		Sig: syntax.Signature{Ident: "g"},
		Body: &syntax.Block{Stmts: []syntax.Stmt{
			&syntax.ItemStmt{Item: &syntax.FnItem{
				Sig:  syntax.Signature{Async: true, Ident: "__run"},
				Body: &syntax.Block{},
			}},
			&syntax.ExprStmt{X: syntax.Call(
				syntax.Path{"Box", "pin"},
				syntax.Call(syntax.Path{"__run"}),
			)},
		}},
	}

	quotes, diags := Run(item(attr.Default(), fn))
	if len(quotes) != 0 {
		t.Fatalf("legacy desugaring produced %d quotes", len(quotes))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Code != DiagUnsupportedLegacyDesugaring {
		t.Errorf("code = %s, want %s", diags[0].Code, DiagUnsupportedLegacyDesugaring)
	}
	if !strings.Contains(diags[0].Message, "v0.1.44") {
		t.Errorf("message %q does not name the minimum version", diags[0].Message)
	}
}

func TestLowerConventionVersionGate(t *testing.T) {
	build := func() []*classify.Item {
		return item(attr.Default(), &syntax.FnItem{
			Sig: syntax.Signature{Ident: "g"},
			Body: &syntax.Block{Stmts: []syntax.Stmt{
				&syntax.ExprStmt{X: syntax.Call(
					syntax.Path{"Box", "pin"},
					&syntax.AsyncExpr{Move: true, Body: &syntax.Block{}},
				)},
			}},
		})
	}

	quotes, diags := Run(build(), WithConventionVersion("v0.1.40"))
	if len(quotes) != 0 || len(diags) != 1 {
		t.Fatalf("old convention: %d quotes, %d diags, want 0 and 1", len(quotes), len(diags))
	}

	quotes, diags = Run(build(), WithConventionVersion("v0.1.44"))
	if len(quotes) != 1 || len(diags) != 0 {
		t.Fatalf("current convention: %d quotes, %d diags, want 1 and 0", len(quotes), len(diags))
	}
}

func TestLowerPreservesOtherAttributes(t *testing.T) {
	fn := &syntax.FnItem{
		Attrs: []syntax.Attr{
			{Name: "inline"},
			{Name: "trace", Tokens: `name = "f"`},
			{Name: "allow", Tokens: "dead_code"},
		},
		Sig:  syntax.Signature{Ident: "f"},
		Body: &syntax.Block{},
	}

	quotes, _ := Run(item(attr.Default(), fn))
	got := quotes[0].Fn.Attrs
	want := []syntax.Attr{{Name: "inline"}, {Name: "allow", Tokens: "dead_code"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerDoesNotMutateInput(t *testing.T) {
	fn := &syntax.FnItem{
		Attrs: []syntax.Attr{{Name: "trace"}},
		Sig: syntax.Signature{
			Async:  true,
			Ident:  "f",
			Inputs: []syntax.Param{&syntax.Receiver{Ref: true}},
		},
		Body: &syntax.Block{},
	}
	before := fn.String()

	Run(item(attr.Default(), fn))

	if after := fn.String(); after != before {
		t.Errorf("input mutated:\nbefore: %s\nafter:  %s", before, after)
	}
}
