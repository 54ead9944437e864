package syntax

import (
	"fmt"
	"strings"
)

// FnItem is a function definition: attributes, visibility, signature, body.
type FnItem struct {
	Attrs []Attr
	Vis   Visibility
	Sig   Signature
	Body  *Block
	Span  Span
}

func (f *FnItem) String() string {
	var b strings.Builder
	b.WriteString(renderAttrs(f.Attrs, "\n"))
	if v := f.Vis.String(); v != "" {
		b.WriteString(v)
		b.WriteString(" ")
	}
	b.WriteString(f.Sig.String())
	b.WriteString(" ")
	b.WriteString(f.Body.String())
	return b.String()
}

func (f *FnItem) Pos() Span { return f.Span }

// Clone returns a deep copy of the function item.
func (f *FnItem) Clone() *FnItem {
	if f == nil {
		return nil
	}
	return &FnItem{
		Attrs: cloneAttrs(f.Attrs),
		Vis:   f.Vis,
		Sig:   f.Sig.Clone(),
		Body:  f.Body.Clone(),
		Span:  f.Span,
	}
}

// Signature is a function signature: qualifiers, name, generics, parameters
// and return type. A nil Output means the unit type.
type Signature struct {
	Const    bool
	Async    bool
	Unsafe   bool
	ABI      string // Calling convention, e.g. "C"; empty when absent
	Ident    string
	Generics Generics
	Inputs   []Param
	Output   Type
	Span     Span
}

func (s *Signature) String() string {
	var b strings.Builder
	if s.Const {
		b.WriteString("const ")
	}
	if s.Async {
		b.WriteString("async ")
	}
	if s.Unsafe {
		b.WriteString("unsafe ")
	}
	if s.ABI != "" {
		fmt.Fprintf(&b, "extern %q ", s.ABI)
	}
	b.WriteString("fn ")
	b.WriteString(s.Ident)
	b.WriteString(s.Generics.renderParams())
	b.WriteString("(")
	for i, p := range s.Inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	if s.Output != nil {
		b.WriteString(" -> ")
		b.WriteString(s.Output.String())
	}
	b.WriteString(s.Generics.renderWhere())
	return b.String()
}

func (s *Signature) Pos() Span { return s.Span }

// Clone returns a deep copy of the signature.
func (s *Signature) Clone() Signature {
	out := *s
	out.Generics = s.Generics.Clone()
	if s.Inputs != nil {
		out.Inputs = make([]Param, len(s.Inputs))
		for i, p := range s.Inputs {
			out.Inputs[i] = p.CloneParam()
		}
	}
	if s.Output != nil {
		out.Output = s.Output.CloneType()
	}
	return out
}

// Receiver reports the signature's receiver parameter, if any.
func (s *Signature) Receiver() *Receiver {
	if len(s.Inputs) == 0 {
		return nil
	}
	if r, ok := s.Inputs[0].(*Receiver); ok {
		return r
	}
	return nil
}

// Generics is a generic parameter list plus its where-clause.
type Generics struct {
	Params []GenericParam
	Where  []WherePred
}

func (g *Generics) renderParams() string {
	if len(g.Params) == 0 {
		return ""
	}
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = p.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (g *Generics) renderWhere() string {
	if len(g.Where) == 0 {
		return ""
	}
	parts := make([]string, len(g.Where))
	for i, w := range g.Where {
		parts[i] = w.String()
	}
	return " where " + strings.Join(parts, ", ")
}

// Clone returns a deep copy of the generics.
func (g Generics) Clone() Generics {
	out := Generics{}
	if g.Params != nil {
		out.Params = make([]GenericParam, len(g.Params))
		for i, p := range g.Params {
			out.Params[i] = p.Clone()
		}
	}
	if g.Where != nil {
		out.Where = make([]WherePred, len(g.Where))
		for i, w := range g.Where {
			out.Where[i] = w.Clone()
		}
	}
	return out
}

// GenericParamKind distinguishes lifetime, type and const parameters.
type GenericParamKind int

const (
	LifetimeParam GenericParamKind = iota
	TypeParam
	ConstParam
)

// GenericParam is one declared generic parameter.
type GenericParam struct {
	Kind GenericParamKind
	Name string
	Type Type // Const parameters only
}

func (p GenericParam) String() string {
	switch p.Kind {
	case LifetimeParam:
		return lifetime(p.Name)
	case ConstParam:
		return fmt.Sprintf("const %s: %s", p.Name, p.Type.String())
	default:
		return p.Name
	}
}

// Clone returns a deep copy of the parameter.
func (p GenericParam) Clone() GenericParam {
	out := p
	if p.Type != nil {
		out.Type = p.Type.CloneType()
	}
	return out
}

// Bound is a single trait or lifetime bound.
type Bound struct {
	Lifetime string // Set for lifetime bounds
	Trait    Path   // Set for trait bounds
}

func (b Bound) String() string {
	if b.Lifetime != "" {
		return lifetime(b.Lifetime)
	}
	return b.Trait.String()
}

// WherePred is one predicate in a where-clause: `subject: bound + bound`.
// Subject is a lifetime name when IsLifetime is set, otherwise a type
// parameter identifier or Self.
type WherePred struct {
	IsLifetime bool
	Subject    string
	Bounds     []Bound
}

func (w WherePred) String() string {
	subject := w.Subject
	if w.IsLifetime {
		subject = lifetime(w.Subject)
	}
	parts := make([]string, len(w.Bounds))
	for i, b := range w.Bounds {
		parts[i] = b.String()
	}
	return subject + ": " + strings.Join(parts, " + ")
}

// Clone returns a deep copy of the predicate.
func (w WherePred) Clone() WherePred {
	out := w
	if w.Bounds != nil {
		out.Bounds = make([]Bound, len(w.Bounds))
		for i, b := range w.Bounds {
			out.Bounds[i] = Bound{Lifetime: b.Lifetime, Trait: b.Trait.Clone()}
		}
	}
	return out
}

// Param is a function parameter: a receiver or a typed pattern.
type Param interface {
	Node
	CloneParam() Param
	paramNode()
}

// Receiver is the self parameter in its reference or by-value forms.
type Receiver struct {
	Ref      bool
	Lifetime string // Reference lifetime; "" when elided
	Mut      bool
	Span     Span
}

func (r *Receiver) String() string {
	var b strings.Builder
	if r.Ref {
		b.WriteString("&")
		if lt := lifetime(r.Lifetime); lt != "" {
			b.WriteString(lt)
			b.WriteString(" ")
		}
		if r.Mut {
			b.WriteString("mut ")
		}
	} else if r.Mut {
		b.WriteString("mut ")
	}
	b.WriteString("self")
	return b.String()
}

func (r *Receiver) Pos() Span { return r.Span }

func (r *Receiver) CloneParam() Param {
	out := *r
	return &out
}

func (r *Receiver) paramNode() {}

// TypedParam is a `pattern: type` parameter.
type TypedParam struct {
	Pat  Pattern
	Type Type
	Span Span
}

func (p *TypedParam) String() string {
	return p.Pat.String() + ": " + p.Type.String()
}

func (p *TypedParam) Pos() Span { return p.Span }

func (p *TypedParam) CloneParam() Param {
	return &TypedParam{Pat: p.Pat.Clone(), Type: p.Type.CloneType(), Span: p.Span}
}

func (p *TypedParam) paramNode() {}

// PatKind distinguishes pattern shapes.
type PatKind int

const (
	PatIdent  PatKind = iota // Plain binding, possibly ref/mut
	PatTuple                 // (a, b)
	PatStruct                // Name { a, b }
	PatWild                  // _
)

// Pattern is a binding pattern. Only identifier bindings survive signature
// lowering; the other shapes exist so destructuring parameters can be
// recognized and scanned for mutable bindings.
type Pattern struct {
	Kind  PatKind
	Name  string // Identifier, or the struct path for PatStruct
	ByRef bool
	Mut   bool
	Elems []Pattern
	Span  Span
}

func (p Pattern) String() string {
	switch p.Kind {
	case PatTuple:
		parts := make([]string, len(p.Elems))
		for i, e := range p.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case PatStruct:
		parts := make([]string, len(p.Elems))
		for i, e := range p.Elems {
			parts[i] = e.String()
		}
		return p.Name + " { " + strings.Join(parts, ", ") + " }"
	case PatWild:
		return "_"
	default:
		var b strings.Builder
		if p.ByRef {
			b.WriteString("ref ")
		}
		if p.Mut {
			b.WriteString("mut ")
		}
		b.WriteString(p.Name)
		return b.String()
	}
}

func (p Pattern) Pos() Span { return p.Span }

// Clone returns a deep copy of the pattern.
func (p Pattern) Clone() Pattern {
	out := p
	if p.Elems != nil {
		out.Elems = make([]Pattern, len(p.Elems))
		for i, e := range p.Elems {
			out.Elems[i] = e.Clone()
		}
	}
	return out
}

// BindsMut reports whether the pattern binds mutably anywhere within it.
func (p Pattern) BindsMut() bool {
	if p.Mut {
		return true
	}
	for _, e := range p.Elems {
		if e.BindsMut() {
			return true
		}
	}
	return false
}

// IdentPat builds a plain identifier binding pattern.
func IdentPat(name string) Pattern {
	return Pattern{Kind: PatIdent, Name: name}
}
