// Package syntax models the syntax tree of instrumented functions.
//
// The tree mirrors what the trace attribute needs to see of its target
// language: function items with signatures, generics, reference types that
// carry lifetimes, and enough statement/expression structure to recognize
// and rebuild instrumented bodies. It is produced by an external front-end
// and consumed tree-to-tree; String() renderers exist for debugging and
// tests, not as the output surface.
package syntax

import (
	"fmt"
	"strings"
)

// Span is a source location attached to nodes and diagnostics.
type Span struct {
	Line   int
	Column int
	Offset int // Byte offset in source
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Node is implemented by every syntax node.
type Node interface {
	String() string
	Pos() Span
}

// Path is a `::`-separated item path such as Box::pin.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "::")
}

// Last returns the final path segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Abs returns a path in absolute form, rendered with a leading "::".
func Abs(segments ...string) Path {
	return append(Path{""}, segments...)
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Visibility is the item visibility qualifier.
type Visibility int

const (
	VisPrivate Visibility = iota // No qualifier
	VisPublic                    // pub
	VisCrate                     // pub(crate)
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	default:
		return ""
	}
}

// Attr is an outer attribute on an item or expression, e.g. #[inline].
type Attr struct {
	Name   string
	Tokens string // Raw argument tokens, empty for bare attributes
	Span   Span
}

func (a Attr) String() string {
	if a.Tokens == "" {
		return fmt.Sprintf("#[%s]", a.Name)
	}
	return fmt.Sprintf("#[%s(%s)]", a.Name, a.Tokens)
}

func (a Attr) Pos() Span { return a.Span }

// renderAttrs renders attributes one per line, each followed by sep.
func renderAttrs(attrs []Attr, sep string) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(a.String())
		b.WriteString(sep)
	}
	return b.String()
}

func cloneAttrs(attrs []Attr) []Attr {
	if attrs == nil {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}

// lifetime renders a lifetime name with its leading tick.
// Names are stored without the tick; "" means elided.
func lifetime(name string) string {
	if name == "" {
		return ""
	}
	return "'" + name
}
