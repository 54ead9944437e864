package attr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/spanweave/spanweave/core/syntax"
)

// ErrorCode is a structured code for option validation errors.
type ErrorCode string

const (
	ErrTooManyArguments       ErrorCode = "TOO_MANY_ARGUMENTS"        // Legacy grammar arity exceeded
	ErrDuplicateOption        ErrorCode = "DUPLICATE_OPTION"          // Named option repeated
	ErrWrongValueType         ErrorCode = "WRONG_VALUE_TYPE"          // Literal kind mismatch
	ErrUnknownOption          ErrorCode = "UNKNOWN_OPTION"            // Unrecognized key
	ErrMissingRequiredOptions ErrorCode = "MISSING_REQUIRED_OPTIONS"  // Legacy grammar: neither name nor enter_on_poll
)

// ParseError is an option validation error attached to the offending
// argument's source span.
type ParseError struct {
	Code        ErrorCode
	Option      string // Offending key, when one exists
	Message     string
	Span        syntax.Span
	Suggestions []string // Possible fixes, best match first
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean `%s`?)", e.Suggestions[0])
	}
	if e.Span.Line > 0 {
		fmt.Fprintf(&b, "\n  --> %s", e.Span)
	}
	return b.String()
}

func tooManyArguments(span syntax.Span) *ParseError {
	return &ParseError{
		Code:    ErrTooManyArguments,
		Message: "too many arguments, this attribute takes up to two (2) arguments",
		Span:    span,
	}
}

func duplicateOption(key string, span syntax.Span) *ParseError {
	return &ParseError{
		Code:    ErrDuplicateOption,
		Option:  key,
		Message: fmt.Sprintf("`%s` provided twice", key),
		Span:    span,
	}
}

func wrongValueType(key string, want ValueKind, span syntax.Span) *ParseError {
	return &ParseError{
		Code:    ErrWrongValueType,
		Option:  key,
		Message: fmt.Sprintf("`%s` value should be a %s", key, want),
		Span:    span,
	}
}

func unknownOption(key string, known []string, span syntax.Span) *ParseError {
	return &ParseError{
		Code:        ErrUnknownOption,
		Option:      key,
		Message:     fmt.Sprintf("unknown option `%s`", key),
		Span:        span,
		Suggestions: suggestOptions(key, known),
	}
}

func missingRequiredOptions(span syntax.Span) *ParseError {
	return &ParseError{
		Code:    ErrMissingRequiredOptions,
		Message: "missing both `enter_on_poll` and `name`",
		Span:    span,
	}
}

// maxSuggestionDistance bounds how far a suggestion may be from the typed
// key before it stops being helpful.
const maxSuggestionDistance = 2

// suggestOptions ranks known option names against a mistyped key, closest
// edit distance first.
func suggestOptions(key string, known []string) []string {
	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, k := range known {
		if d := fuzzy.LevenshteinDistance(key, k); d <= maxSuggestionDistance {
			cands = append(cands, candidate{k, d})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}
