// Package attr holds the typed option model for the trace attribute and the
// validator that builds it from tokenized `key = value` arguments.
//
// Tokenizing the attribute surface is the front-end's job; this package
// starts from its output, an ordered argument list, and produces either a
// fully defaulted Options value or a ParseError pinned to the offending
// argument's source span.
package attr

import "github.com/spanweave/spanweave/core/syntax"

// DefaultName is the span-name sentinel used when no name option is given.
// The classifier resolves it to each function's own identifier, so it never
// survives into emitted code.
const DefaultName = "__default"

// DefaultRecorder is the default binding name for the produced guard/span.
const DefaultRecorder = "span"

// Scope selects which ambient context supplies the parent span.
type Scope int

const (
	ScopeLocal   Scope = iota // Thread-local span context
	ScopeThreads              // Cross-thread span context
)

func (s Scope) String() string {
	if s == ScopeThreads {
		return "Threads"
	}
	return "Local"
}

// Options is the parsed, defaulted configuration for one attribute
// application.
type Options struct {
	Name        string   // Span label; DefaultName until resolved
	Scope       Scope    // Parent context selection
	EnterOnPoll bool     // Re-enter span per resumption vs. once
	Parent      string   // Explicit parent reference; "" for ambient
	Recorder    string   // Binding name for the produced guard/span
	Recurse     bool     // Instrument nested function items too
	Root        bool     // Treat span as a trace root
	Variables   []string // Identifiers attached as span properties
	AsyncTrait  bool     // Force desugaring-pattern detection
}

// Default returns the documented default option set.
func Default() Options {
	return Options{
		Name:     DefaultName,
		Scope:    ScopeLocal,
		Recorder: DefaultRecorder,
	}
}

// ValueKind is the literal kind carried by an argument value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindIdent
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindIdent:
		return "identifier"
	case KindList:
		return "list"
	default:
		return "value"
	}
}

// Value is one tokenized literal from the attribute surface.
type Value struct {
	Kind  ValueKind
	Str   string   // KindString
	Bool  bool     // KindBool
	Ident string   // KindIdent
	List  []string // KindList, identifiers
}

// StringValue builds a string literal value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue builds a boolean literal value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IdentValue builds an identifier value.
func IdentValue(id string) Value { return Value{Kind: KindIdent, Ident: id} }

// ListValue builds an identifier-list value.
func ListValue(ids ...string) Value { return Value{Kind: KindList, List: ids} }

// Arg is one `key = value` pair from the tokenized attribute surface.
type Arg struct {
	Key   string
	Value Value
	Span  syntax.Span
}
