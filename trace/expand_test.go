package trace

import (
	"errors"
	"strings"
	"testing"

	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
	"github.com/spanweave/spanweave/trace/lower"
)

func traceFn(name string, stmts ...syntax.Stmt) *syntax.FnItem {
	return &syntax.FnItem{
		Attrs: []syntax.Attr{{Name: "trace"}},
		Sig:   syntax.Signature{Ident: name},
		Body:  &syntax.Block{Stmts: stmts},
	}
}

func TestExpandSync(t *testing.T) {
	result, err := Expand(nil, traceFn("handle"))
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(result.Quotes) != 1 || len(result.Diagnostics) != 0 {
		t.Fatalf("got %d quotes, %d diagnostics", len(result.Quotes), len(result.Diagnostics))
	}
	got := result.Quotes[0].String()
	if !strings.Contains(got, `LocalSpan::enter_with_local_parent("handle")`) {
		t.Errorf("guard missing from:\n%s", got)
	}
	if strings.Contains(got, "#[trace]") {
		t.Errorf("trace attribute survived:\n%s", got)
	}
}

func TestExpandRejectsBadOptions(t *testing.T) {
	_, err := Expand(
		[]attr.Arg{{Key: "nmae", Value: attr.StringValue("x")}},
		traceFn("handle"),
	)
	var perr *attr.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *attr.ParseError", err)
	}
	if perr.Code != attr.ErrUnknownOption {
		t.Errorf("code = %s, want %s", perr.Code, attr.ErrUnknownOption)
	}
}

func TestExpandRecurse(t *testing.T) {
	inner := traceFn("persist")
	fn := traceFn("handle", &syntax.ItemStmt{Item: inner})

	result, err := Expand(
		[]attr.Arg{{Key: "recurse", Value: attr.BoolValue(true)}},
		fn,
	)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(result.Quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(result.Quotes))
	}
	for i, want := range []string{"handle", "persist"} {
		if got := result.Quotes[i].Fn.Sig.Ident; got != want {
			t.Errorf("quote %d is %q, want %q", i, got, want)
		}
		if !strings.Contains(result.Quotes[i].String(), `"`+want+`"`) {
			t.Errorf("quote %d span not named %q:\n%s", i, want, result.Quotes[i])
		}
	}
}

func TestExpandLegacyGrammar(t *testing.T) {
	result, err := ExpandLegacy(
		[]attr.Arg{{Key: "name", Value: attr.StringValue("load")}},
		traceFn("handle"),
	)
	if err != nil {
		t.Fatalf("ExpandLegacy() error: %v", err)
	}
	if got := result.Quotes[0].String(); !strings.Contains(got, `"load"`) {
		t.Errorf("span name missing from:\n%s", got)
	}

	_, err = ExpandLegacy(nil, traceFn("handle"))
	var perr *attr.ParseError
	if !errors.As(err, &perr) || perr.Code != attr.ErrMissingRequiredOptions {
		t.Fatalf("error = %v, want MISSING_REQUIRED_OPTIONS parse error", err)
	}
}

func TestExpandForwardsLowerOptions(t *testing.T) {
	fn := traceFn("g", &syntax.ExprStmt{X: syntax.Call(
		syntax.Path{"Box", "pin"},
		&syntax.AsyncExpr{Move: true, Body: &syntax.Block{}},
	)})

	result, err := Expand(nil, fn, lower.WithConventionVersion("v0.1.40"))
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(result.Quotes) != 0 || len(result.Diagnostics) != 1 {
		t.Fatalf("got %d quotes, %d diagnostics, want 0 and 1", len(result.Quotes), len(result.Diagnostics))
	}
}
