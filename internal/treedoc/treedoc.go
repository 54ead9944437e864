// Package treedoc loads function tree documents: the JSON interchange form
// a front end hands to the compiler. Every document is validated against an
// embedded JSON Schema before decoding, so conversion can assume shape.
package treedoc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/spanweave/spanweave/core/syntax"
	"github.com/spanweave/spanweave/trace/attr"
)

//go:embed schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("treedoc.json", schemaSource)

// Load reads one document: the attribute arguments and the annotated
// function. Documents that fail schema validation are rejected before any
// conversion runs.
func Load(r io.Reader) ([]attr.Arg, *syntax.FnItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading document: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing document: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, nil, fmt.Errorf("invalid document: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding document: %w", err)
	}

	args := make([]attr.Arg, len(doc.Args))
	for i, a := range doc.Args {
		args[i] = a.convert()
	}
	fn, err := doc.Fn.convert()
	if err != nil {
		return nil, nil, err
	}
	return args, fn, nil
}

type document struct {
	Args []argDoc `json:"args"`
	Fn   fnDoc    `json:"fn"`
}

type spanDoc struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (s *spanDoc) convert() syntax.Span {
	if s == nil {
		return syntax.Span{}
	}
	return syntax.Span{Line: s.Line, Column: s.Column, Offset: s.Offset}
}

type argDoc struct {
	Key    string   `json:"key"`
	String *string  `json:"string"`
	Bool   *bool    `json:"bool"`
	Ident  *string  `json:"ident"`
	List   []string `json:"list"`
	Span   *spanDoc `json:"span"`
}

func (a argDoc) convert() attr.Arg {
	arg := attr.Arg{Key: a.Key, Span: a.Span.convert()}
	switch {
	case a.String != nil:
		arg.Value = attr.StringValue(*a.String)
	case a.Bool != nil:
		arg.Value = attr.BoolValue(*a.Bool)
	case a.Ident != nil:
		arg.Value = attr.IdentValue(*a.Ident)
	default:
		arg.Value = attr.ListValue(a.List...)
	}
	return arg
}

type fnDoc struct {
	Attrs []attrDoc `json:"attrs"`
	Vis   string    `json:"vis"`
	Sig   sigDoc    `json:"sig"`
	Body  blockDoc  `json:"body"`
	Span  *spanDoc  `json:"span"`
}

type attrDoc struct {
	Name   string `json:"name"`
	Tokens string `json:"tokens"`
}

func (f fnDoc) convert() (*syntax.FnItem, error) {
	sig, err := f.Sig.convert()
	if err != nil {
		return nil, err
	}
	body, err := f.Body.convert()
	if err != nil {
		return nil, err
	}
	fn := &syntax.FnItem{Sig: sig, Body: body, Span: f.Span.convert()}
	for _, a := range f.Attrs {
		fn.Attrs = append(fn.Attrs, syntax.Attr{Name: a.Name, Tokens: a.Tokens})
	}
	switch f.Vis {
	case "pub":
		fn.Vis = syntax.VisPublic
	case "pub(crate)":
		fn.Vis = syntax.VisCrate
	}
	return fn, nil
}

type sigDoc struct {
	Const    bool         `json:"const"`
	Async    bool         `json:"async"`
	Unsafe   bool         `json:"unsafe"`
	ABI      string       `json:"abi"`
	Ident    string       `json:"ident"`
	Generics *genericsDoc `json:"generics"`
	Inputs   []paramDoc   `json:"inputs"`
	Output   *typeDoc     `json:"output"`
}

func (s sigDoc) convert() (syntax.Signature, error) {
	sig := syntax.Signature{
		Const:  s.Const,
		Async:  s.Async,
		Unsafe: s.Unsafe,
		ABI:    s.ABI,
		Ident:  s.Ident,
	}
	if s.Generics != nil {
		g, err := s.Generics.convert()
		if err != nil {
			return syntax.Signature{}, err
		}
		sig.Generics = g
	}
	for _, p := range s.Inputs {
		param, err := p.convert()
		if err != nil {
			return syntax.Signature{}, err
		}
		sig.Inputs = append(sig.Inputs, param)
	}
	if s.Output != nil {
		t, err := s.Output.convert()
		if err != nil {
			return syntax.Signature{}, err
		}
		sig.Output = t
	}
	return sig, nil
}

type genericsDoc struct {
	Params []genericParamDoc `json:"params"`
	Where  []wherePredDoc    `json:"where"`
}

type genericParamDoc struct {
	Kind string   `json:"kind"`
	Name string   `json:"name"`
	Type *typeDoc `json:"type"`
}

type wherePredDoc struct {
	Lifetime bool       `json:"lifetime"`
	Subject  string     `json:"subject"`
	Bounds   []boundDoc `json:"bounds"`
}

type boundDoc struct {
	Lifetime string   `json:"lifetime"`
	Trait    []string `json:"trait"`
}

func (g genericsDoc) convert() (syntax.Generics, error) {
	var out syntax.Generics
	for _, p := range g.Params {
		gp := syntax.GenericParam{Name: p.Name}
		switch p.Kind {
		case "lifetime":
			gp.Kind = syntax.LifetimeParam
		case "const":
			gp.Kind = syntax.ConstParam
			if p.Type == nil {
				return syntax.Generics{}, fmt.Errorf("const parameter %s missing its type", p.Name)
			}
			t, err := p.Type.convert()
			if err != nil {
				return syntax.Generics{}, err
			}
			gp.Type = t
		default:
			gp.Kind = syntax.TypeParam
		}
		out.Params = append(out.Params, gp)
	}
	for _, w := range g.Where {
		pred := syntax.WherePred{IsLifetime: w.Lifetime, Subject: w.Subject}
		for _, b := range w.Bounds {
			pred.Bounds = append(pred.Bounds, syntax.Bound{
				Lifetime: b.Lifetime,
				Trait:    syntax.Path(b.Trait),
			})
		}
		out.Where = append(out.Where, pred)
	}
	return out, nil
}

type paramDoc struct {
	Receiver *receiverDoc `json:"receiver"`
	Pat      *patternDoc  `json:"pat"`
	Type     *typeDoc     `json:"type"`
}

type receiverDoc struct {
	Ref      bool   `json:"ref"`
	Lifetime string `json:"lifetime"`
	Mut      bool   `json:"mut"`
}

func (p paramDoc) convert() (syntax.Param, error) {
	if p.Receiver != nil {
		return &syntax.Receiver{
			Ref:      p.Receiver.Ref,
			Lifetime: p.Receiver.Lifetime,
			Mut:      p.Receiver.Mut,
		}, nil
	}
	t, err := p.Type.convert()
	if err != nil {
		return nil, err
	}
	return &syntax.TypedParam{Pat: p.Pat.convert(), Type: t}, nil
}

type patternDoc struct {
	Kind  string       `json:"kind"`
	Name  string       `json:"name"`
	Ref   bool         `json:"ref"`
	Mut   bool         `json:"mut"`
	Elems []patternDoc `json:"elems"`
}

func (p *patternDoc) convert() syntax.Pattern {
	out := syntax.Pattern{Name: p.Name, ByRef: p.Ref, Mut: p.Mut}
	switch p.Kind {
	case "tuple":
		out.Kind = syntax.PatTuple
	case "struct":
		out.Kind = syntax.PatStruct
	case "wild":
		out.Kind = syntax.PatWild
	default:
		out.Kind = syntax.PatIdent
	}
	for _, e := range p.Elems {
		out.Elems = append(out.Elems, e.convert())
	}
	return out
}

type typeDoc struct {
	Kind     string       `json:"kind"`
	Path     []string     `json:"path"`
	Args     []typeArgDoc `json:"args"`
	Lifetime string       `json:"lifetime"`
	Mut      bool         `json:"mut"`
	Elem     *typeDoc     `json:"elem"`
	Elems    []typeDoc    `json:"elems"`
}

type typeArgDoc struct {
	Lifetime *string  `json:"lifetime"`
	Type     *typeDoc `json:"type"`
}

func (t *typeDoc) convert() (syntax.Type, error) {
	switch t.Kind {
	case "path":
		out := &syntax.PathType{Path: syntax.Path(t.Path)}
		for _, a := range t.Args {
			if a.Lifetime != nil {
				out.Args = append(out.Args, syntax.TypeArg{IsLife: true, Lifetime: *a.Lifetime})
				continue
			}
			inner, err := a.Type.convert()
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, syntax.TypeArg{Type: inner})
		}
		return out, nil
	case "ref":
		elem, err := t.Elem.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.RefType{Lifetime: t.Lifetime, Mut: t.Mut, Elem: elem}, nil
	case "slice":
		elem, err := t.Elem.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.SliceType{Elem: elem}, nil
	case "tuple":
		out := &syntax.TupleType{}
		for i := range t.Elems {
			e, err := t.Elems[i].convert()
			if err != nil {
				return nil, err
			}
			out.Elems = append(out.Elems, e)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

type blockDoc struct {
	Stmts []stmtDoc `json:"stmts"`
}

func (b *blockDoc) convert() (*syntax.Block, error) {
	out := &syntax.Block{}
	for _, s := range b.Stmts {
		stmt, err := s.convert()
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, stmt)
	}
	return out, nil
}

type stmtDoc struct {
	Let  *letDoc      `json:"let"`
	Expr *exprStmtDoc `json:"expr"`
	Item *fnDoc       `json:"item"`
}

type letDoc struct {
	Pat  patternDoc `json:"pat"`
	Init exprDoc    `json:"init"`
}

type exprStmtDoc struct {
	X    exprDoc `json:"x"`
	Semi bool    `json:"semi"`
}

func (s stmtDoc) convert() (syntax.Stmt, error) {
	switch {
	case s.Let != nil:
		init, err := s.Let.Init.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.LetStmt{Pat: s.Let.Pat.convert(), Init: init}, nil
	case s.Expr != nil:
		x, err := s.Expr.X.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.ExprStmt{X: x, Semi: s.Expr.Semi}, nil
	case s.Item != nil:
		item, err := s.Item.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.ItemStmt{Item: item}, nil
	default:
		return nil, fmt.Errorf("empty statement")
	}
}

type exprDoc struct {
	Kind   string    `json:"kind"`
	Path   []string  `json:"path"`
	Value  string    `json:"value"`
	Fn     *exprDoc  `json:"fn"`
	Recv   *exprDoc  `json:"recv"`
	Method string    `json:"method"`
	Args   []exprDoc `json:"args"`
	Move   bool      `json:"move"`
	Body   *blockDoc `json:"body"`
	Tokens string    `json:"tokens"`
	X      *exprDoc  `json:"x"`
}

func (e *exprDoc) convert() (syntax.Expr, error) {
	switch e.Kind {
	case "path":
		return &syntax.PathExpr{Path: syntax.Path(e.Path)}, nil
	case "lit_str":
		return &syntax.LitStr{Value: e.Value}, nil
	case "call":
		fn, err := e.Fn.convert()
		if err != nil {
			return nil, err
		}
		args, err := e.convertArgs()
		if err != nil {
			return nil, err
		}
		return &syntax.CallExpr{Fn: fn, Args: args}, nil
	case "method":
		recv, err := e.Recv.convert()
		if err != nil {
			return nil, err
		}
		args, err := e.convertArgs()
		if err != nil {
			return nil, err
		}
		return &syntax.MethodCallExpr{Recv: recv, Method: e.Method, Args: args}, nil
	case "async":
		body, err := e.Body.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.AsyncExpr{Move: e.Move, Body: body}, nil
	case "block":
		body, err := e.Body.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.BlockExpr{Body: body}, nil
	case "macro":
		return &syntax.MacroExpr{Path: syntax.Path(e.Path), Tokens: e.Tokens}, nil
	case "ref":
		x, err := e.X.convert()
		if err != nil {
			return nil, err
		}
		return &syntax.RefExpr{X: x}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", e.Kind)
	}
}

func (e *exprDoc) convertArgs() ([]syntax.Expr, error) {
	var out []syntax.Expr
	for i := range e.Args {
		a, err := e.Args[i].convert()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
