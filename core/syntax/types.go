package syntax

import "strings"

// Type is implemented by every type node.
type Type interface {
	Node
	CloneType() Type
	typeNode()
}

// TypeArg is one generic argument: a lifetime or a type.
type TypeArg struct {
	Lifetime string // Set (possibly to "_") for lifetime arguments
	IsLife   bool
	Type     Type
}

func (a TypeArg) String() string {
	if a.IsLife {
		if a.Lifetime == "" || a.Lifetime == "_" {
			return "'_"
		}
		return lifetime(a.Lifetime)
	}
	return a.Type.String()
}

// Clone returns a deep copy of the argument.
func (a TypeArg) Clone() TypeArg {
	out := a
	if a.Type != nil {
		out.Type = a.Type.CloneType()
	}
	return out
}

// PathType is a named type, optionally with generic arguments:
// Vec<T>, std::borrow::Cow<'a, str>.
type PathType struct {
	Path Path
	Args []TypeArg
	Span Span
}

func (t *PathType) String() string {
	if len(t.Args) == 0 {
		return t.Path.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Path.String() + "<" + strings.Join(parts, ", ") + ">"
}

func (t *PathType) Pos() Span { return t.Span }

func (t *PathType) CloneType() Type {
	out := &PathType{Path: t.Path.Clone(), Span: t.Span}
	if t.Args != nil {
		out.Args = make([]TypeArg, len(t.Args))
		for i, a := range t.Args {
			out.Args[i] = a.Clone()
		}
	}
	return out
}

func (t *PathType) typeNode() {}

// NamedType builds a PathType from plain segments.
func NamedType(segments ...string) *PathType {
	return &PathType{Path: Path(segments)}
}

// RefType is a reference type with an optional lifetime: &'a mut T.
// An empty or "_" lifetime is elided.
type RefType struct {
	Lifetime string
	Mut      bool
	Elem     Type
	Span     Span
}

func (t *RefType) String() string {
	var b strings.Builder
	b.WriteString("&")
	if lt := lifetime(t.Lifetime); lt != "" && t.Lifetime != "_" {
		b.WriteString(lt)
		b.WriteString(" ")
	}
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (t *RefType) Pos() Span { return t.Span }

func (t *RefType) CloneType() Type {
	return &RefType{Lifetime: t.Lifetime, Mut: t.Mut, Elem: t.Elem.CloneType(), Span: t.Span}
}

func (t *RefType) typeNode() {}

// TupleType is a tuple type; with no elements it is the unit type.
type TupleType struct {
	Elems []Type
	Span  Span
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *TupleType) Pos() Span { return t.Span }

func (t *TupleType) CloneType() Type {
	out := &TupleType{Span: t.Span}
	if t.Elems != nil {
		out.Elems = make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			out.Elems[i] = e.CloneType()
		}
	}
	return out
}

func (t *TupleType) typeNode() {}

// Unit returns the unit type.
func Unit() *TupleType { return &TupleType{} }

// SliceType is a slice type: [T].
type SliceType struct {
	Elem Type
	Span Span
}

func (t *SliceType) String() string {
	return "[" + t.Elem.String() + "]"
}

func (t *SliceType) Pos() Span { return t.Span }

func (t *SliceType) CloneType() Type {
	return &SliceType{Elem: t.Elem.CloneType(), Span: t.Span}
}

func (t *SliceType) typeNode() {}

// FutureType is the opaque future return type produced by signature
// lowering: impl Future<Output = X> (+ Send) + 'lifetime.
type FutureType struct {
	Output   Type
	Send     bool
	Lifetime string
	Span     Span
}

func (t *FutureType) String() string {
	var b strings.Builder
	b.WriteString("impl ::core::future::Future<Output = ")
	b.WriteString(t.Output.String())
	b.WriteString(">")
	if t.Send {
		b.WriteString(" + ::core::marker::Send")
	}
	if lt := lifetime(t.Lifetime); lt != "" {
		b.WriteString(" + ")
		b.WriteString(lt)
	}
	return b.String()
}

func (t *FutureType) Pos() Span { return t.Span }

func (t *FutureType) CloneType() Type {
	return &FutureType{Output: t.Output.CloneType(), Send: t.Send, Lifetime: t.Lifetime, Span: t.Span}
}

func (t *FutureType) typeNode() {}
