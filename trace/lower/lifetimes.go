package lower

import (
	"fmt"

	"github.com/spanweave/spanweave/core/syntax"
)

// LifetimeResolver rewrites elided lifetimes in a signature's parameter
// types to fresh named lifetimes, and records every named lifetime it sees.
// Resolving an already-resolved signature mints nothing new, so the pass is
// idempotent.
type LifetimeResolver struct {
	Elided   []string // Minted names, in visit order
	Explicit []string // Named lifetimes encountered, deduplicated

	seen map[string]bool
}

func (r *LifetimeResolver) mint() string {
	name := fmt.Sprintf("life%d", len(r.Elided))
	r.Elided = append(r.Elided, name)
	return name
}

func (r *LifetimeResolver) record(name string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if r.seen[name] {
		return
	}
	r.seen[name] = true
	r.Explicit = append(r.Explicit, name)
}

func elided(name string) bool { return name == "" || name == "_" }

// ResolveReceiver names the receiver's reference lifetime if it is elided.
func (r *LifetimeResolver) ResolveReceiver(rcv *syntax.Receiver) {
	if !rcv.Ref {
		return
	}
	if elided(rcv.Lifetime) {
		rcv.Lifetime = r.mint()
		return
	}
	r.record(rcv.Lifetime)
}

// ResolveType names every elided lifetime in t, mutating it in place.
func (r *LifetimeResolver) ResolveType(t syntax.Type) {
	switch t := t.(type) {
	case *syntax.RefType:
		if elided(t.Lifetime) {
			t.Lifetime = r.mint()
		} else {
			r.record(t.Lifetime)
		}
		r.ResolveType(t.Elem)
	case *syntax.PathType:
		for i := range t.Args {
			a := &t.Args[i]
			if a.IsLife {
				if elided(a.Lifetime) {
					a.Lifetime = r.mint()
				} else {
					r.record(a.Lifetime)
				}
				continue
			}
			r.ResolveType(a.Type)
		}
	case *syntax.SliceType:
		r.ResolveType(t.Elem)
	case *syntax.TupleType:
		for _, e := range t.Elems {
			r.ResolveType(e)
		}
	case *syntax.FutureType:
		r.ResolveType(t.Output)
	}
}

// All returns minted then explicit lifetime names.
func (r *LifetimeResolver) All() []string {
	out := make([]string, 0, len(r.Elided)+len(r.Explicit))
	out = append(out, r.Elided...)
	out = append(out, r.Explicit...)
	return out
}
