package lower

import (
	"fmt"

	"github.com/spanweave/spanweave/core/invariant"
	"github.com/spanweave/spanweave/core/syntax"
)

// TracerLifetime is the lifetime that ties the returned future to every
// input of a lowered async signature.
const TracerLifetime = "minitrace"

// Signature lowers an async signature in place: the async qualifier is
// dropped, every input lifetime is named and outlives TracerLifetime, and
// the return type becomes an opaque future bounded by TracerLifetime.
// hasSelf adds the Self outlives bound; local drops the Send bound from the
// future and relaxes Self to a plain outlives bound.
func Signature(sig *syntax.Signature, hasSelf, local bool) {
	invariant.Precondition(sig.Async, "signature lowering requires an async signature")
	sig.Async = false

	output := sig.Output
	if output == nil {
		output = syntax.Unit()
	}

	res := &LifetimeResolver{}
	for _, p := range sig.Inputs {
		switch p := p.(type) {
		case *syntax.Receiver:
			res.ResolveReceiver(p)
		case *syntax.TypedParam:
			res.ResolveType(p.Type)
		}
	}

	bounded := make(map[string]bool)
	outlives := func(isLifetime bool, subject string) {
		key := subject
		if isLifetime {
			key = "'" + subject
		}
		if bounded[key] || (isLifetime && subject == TracerLifetime) {
			return
		}
		bounded[key] = true
		sig.Generics.Where = append(sig.Generics.Where, syntax.WherePred{
			IsLifetime: isLifetime,
			Subject:    subject,
			Bounds:     []syntax.Bound{{Lifetime: TracerLifetime}},
		})
	}

	for _, gp := range sig.Generics.Params {
		switch gp.Kind {
		case syntax.TypeParam:
			outlives(false, gp.Name)
		case syntax.LifetimeParam:
			outlives(true, gp.Name)
		}
	}
	for _, name := range res.All() {
		outlives(true, name)
	}

	if hasSelf {
		pred := syntax.WherePred{Subject: "Self"}
		if !local {
			trait := syntax.Abs("core", "marker", "Send")
			if rcv := sig.Receiver(); rcv != nil && rcv.Ref && !rcv.Mut {
				trait = syntax.Abs("core", "marker", "Sync")
			}
			pred.Bounds = append(pred.Bounds, syntax.Bound{Trait: trait})
		}
		pred.Bounds = append(pred.Bounds, syntax.Bound{Lifetime: TracerLifetime})
		sig.Generics.Where = append(sig.Generics.Where, pred)
	}

	// Declare the minted lifetimes, with the tracer lifetime first.
	decl := make([]syntax.GenericParam, 0, len(res.Elided)+1+len(sig.Generics.Params))
	decl = append(decl, syntax.GenericParam{Kind: syntax.LifetimeParam, Name: TracerLifetime})
	for _, name := range res.Elided {
		decl = append(decl, syntax.GenericParam{Kind: syntax.LifetimeParam, Name: name})
	}
	sig.Generics.Params = append(decl, sig.Generics.Params...)

	normalizeParams(sig)

	sig.Output = &syntax.FutureType{
		Output:   output,
		Send:     !local,
		Lifetime: TracerLifetime,
	}
}

// normalizeParams rewrites parameter patterns so the lowered body can move
// each input into the returned future: by-value receivers lose their mut
// qualifier, ident bindings lose ref, and destructuring patterns become
// positional bindings.
func normalizeParams(sig *syntax.Signature) {
	for i, p := range sig.Inputs {
		switch p := p.(type) {
		case *syntax.Receiver:
			if !p.Ref {
				p.Mut = false
			}
		case *syntax.TypedParam:
			if p.Pat.Kind == syntax.PatIdent {
				p.Pat.ByRef = false
				continue
			}
			mut := p.Pat.BindsMut()
			p.Pat = syntax.IdentPat(fmt.Sprintf("arg%d", i))
			p.Pat.Mut = mut
		}
	}
}

// hasSelfInSignature reports whether the signature involves the Self type,
// either through a receiver or a Self mention in a parameter or return type.
func hasSelfInSignature(sig *syntax.Signature) bool {
	if sig.Receiver() != nil {
		return true
	}
	for _, p := range sig.Inputs {
		if tp, ok := p.(*syntax.TypedParam); ok && mentionsSelf(tp.Type) {
			return true
		}
	}
	return sig.Output != nil && mentionsSelf(sig.Output)
}

func mentionsSelf(t syntax.Type) bool {
	switch t := t.(type) {
	case *syntax.PathType:
		for _, seg := range t.Path {
			if seg == "Self" {
				return true
			}
		}
		for _, a := range t.Args {
			if !a.IsLife && mentionsSelf(a.Type) {
				return true
			}
		}
	case *syntax.RefType:
		return mentionsSelf(t.Elem)
	case *syntax.SliceType:
		return mentionsSelf(t.Elem)
	case *syntax.TupleType:
		for _, e := range t.Elems {
			if mentionsSelf(e) {
				return true
			}
		}
	case *syntax.FutureType:
		return mentionsSelf(t.Output)
	}
	return false
}
