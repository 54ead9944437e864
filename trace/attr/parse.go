package attr

import (
	"fmt"

	"github.com/spanweave/spanweave/core/syntax"
)

// optionKeys is the recognized option surface, used for duplicate checks
// and for ranking suggestions on unknown keys.
var optionKeys = []string{
	"name",
	"scope",
	"enter_on_poll",
	"parent",
	"recorder",
	"recurse",
	"root",
	"variables",
	"async_trait",
}

// legacyMaxArity is the argument limit of the legacy surface grammar.
const legacyMaxArity = 2

// Parse validates the full option surface and returns a defaulted Options.
// Each key is accepted at most once and type-checked against its expected
// literal kind; unrecognized keys fail with ranked suggestions.
func Parse(args []Arg) (Options, error) {
	opts := Default()
	seen := make(map[string]bool, len(args))

	for _, arg := range args {
		if seen[arg.Key] {
			return Options{}, duplicateOption(arg.Key, arg.Span)
		}
		seen[arg.Key] = true

		if err := apply(&opts, arg); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// ParseLegacy validates the legacy call-site grammar: up to two arguments,
// only `name` and `enter_on_poll` recognized, and at least one of the two
// required. Missing options still resolve to the documented defaults.
func ParseLegacy(args []Arg) (Options, error) {
	if len(args) > legacyMaxArity {
		return Options{}, tooManyArguments(spanOf(args))
	}

	opts := Default()
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		switch arg.Key {
		case "name", "enter_on_poll":
		default:
			return Options{}, unknownOption(arg.Key, []string{"name", "enter_on_poll"}, arg.Span)
		}
		if seen[arg.Key] {
			return Options{}, duplicateOption(arg.Key, arg.Span)
		}
		seen[arg.Key] = true

		if err := apply(&opts, arg); err != nil {
			return Options{}, err
		}
	}

	if !seen["name"] && !seen["enter_on_poll"] {
		return Options{}, missingRequiredOptions(spanOf(args))
	}
	return opts, nil
}

// apply type-checks one argument and stores it into opts.
func apply(opts *Options, arg Arg) error {
	v := arg.Value
	switch arg.Key {
	case "name":
		if v.Kind != KindString {
			return wrongValueType(arg.Key, KindString, arg.Span)
		}
		opts.Name = v.Str
	case "scope":
		if v.Kind != KindIdent {
			return wrongValueType(arg.Key, KindIdent, arg.Span)
		}
		switch v.Ident {
		case "Local":
			opts.Scope = ScopeLocal
		case "Threads":
			opts.Scope = ScopeThreads
		default:
			return &ParseError{
				Code:    ErrWrongValueType,
				Option:  arg.Key,
				Message: fmt.Sprintf("`scope` value should be Local or Threads, got `%s`", v.Ident),
				Span:    arg.Span,
			}
		}
	case "enter_on_poll":
		if v.Kind != KindBool {
			return wrongValueType(arg.Key, KindBool, arg.Span)
		}
		opts.EnterOnPoll = v.Bool
	case "parent":
		if v.Kind != KindString {
			return wrongValueType(arg.Key, KindString, arg.Span)
		}
		opts.Parent = v.Str
	case "recorder":
		if v.Kind != KindIdent {
			return wrongValueType(arg.Key, KindIdent, arg.Span)
		}
		opts.Recorder = v.Ident
	case "recurse":
		if v.Kind != KindBool {
			return wrongValueType(arg.Key, KindBool, arg.Span)
		}
		opts.Recurse = v.Bool
	case "root":
		if v.Kind != KindBool {
			return wrongValueType(arg.Key, KindBool, arg.Span)
		}
		opts.Root = v.Bool
	case "variables":
		if v.Kind != KindList {
			return wrongValueType(arg.Key, KindList, arg.Span)
		}
		opts.Variables = append([]string(nil), v.List...)
	case "async_trait":
		if v.Kind != KindBool {
			return wrongValueType(arg.Key, KindBool, arg.Span)
		}
		opts.AsyncTrait = v.Bool
	default:
		return unknownOption(arg.Key, optionKeys, arg.Span)
	}
	return nil
}

// spanOf picks a representative span for list-level errors.
func spanOf(args []Arg) syntax.Span {
	if len(args) == 0 {
		return syntax.Span{}
	}
	return args[0].Span
}
