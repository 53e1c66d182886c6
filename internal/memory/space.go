// Package memory provides the name-to-value stores the evaluator runs on.
//
// A Space is one flat set of bindings. There is exactly one global space per
// interpreter and one call space per active function call. Spaces do not link
// to each other; name resolution looks at the current call space and then at
// the global space, nothing in between.
//
// EXAMPLE:
//
//	global := memory.NewGlobal[Value]()
//	call := memory.NewCall[Value]("f")
//	call.Define("a", arg)
//	space, v, ok := memory.Resolve("a", call, global)
package memory

import (
	"fmt"
	"sort"
)

// Kind distinguishes the global space from call spaces.
type Kind int

const (
	// KindGlobal is the single top-level space.
	KindGlobal Kind = iota

	// KindCall is created for one function invocation and dropped when it
	// returns.
	KindCall
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindCall:
		return "call"
	default:
		return "unknown"
	}
}

// Space maps names to values of type V.
//
// A name that is bound to the zero value of V is still present: Lookup
// reports it, and assignment overwrites it in place.
//
// DESIGN CHOICE: Spaces are flat and unlinked.
// The usual alternative is a scope chain where each scope points to
// its parent and lookup walks upward. calc's rules never need more than two
// levels (the active call and the globals), and a callee must not see its
// caller's locals, so a parent pointer would only have to be ignored.
// Resolve takes the spaces to search explicitly instead.
//
// ALTERNATIVE DESIGNS CONSIDERED:
// 1. Parent-linked scopes: Would make caller locals visible by accident
// 2. One map keyed by (depth, name): Makes dropping a call's bindings O(n)
// 3. Space per block: calc has no blocks below function bodies
type Space[V any] struct {
	// Name labels the space in traces and error messages. The global space
	// is called "global"; call spaces take the callee's name.
	Name string

	// Kind tells global and call spaces apart.
	Kind Kind

	bindings map[string]V
}

// NewGlobal creates an empty global space.
func NewGlobal[V any]() *Space[V] {
	return newSpace[V]("global", KindGlobal)
}

// NewCall creates an empty call space labeled name.
func NewCall[V any](name string) *Space[V] {
	return newSpace[V](name, KindCall)
}

func newSpace[V any](name string, kind Kind) *Space[V] {
	return &Space[V]{
		Name:     name,
		Kind:     kind,
		bindings: make(map[string]V),
	}
}

// Define binds name to value in this space, replacing any earlier binding.
func (s *Space[V]) Define(name string, value V) {
	s.bindings[name] = value
}

// Lookup returns the value bound to name in this space only.
func (s *Space[V]) Lookup(name string) (V, bool) {
	v, ok := s.bindings[name]
	return v, ok
}

// Len returns the number of bindings.
func (s *Space[V]) Len() int {
	return len(s.bindings)
}

// Names returns the bound names in lexical order.
func (s *Space[V]) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Space[V]) String() string {
	return fmt.Sprintf("%s space %q (%d bindings)", s.Kind, s.Name, s.Len())
}

// Resolve looks name up in each space in turn and returns the first space
// that binds it together with the value. A nil space is skipped, so callers
// at top level can pass the global space twice or pass nil for the current
// call space.
func Resolve[V any](name string, spaces ...*Space[V]) (*Space[V], V, bool) {
	for _, s := range spaces {
		if s == nil {
			continue
		}
		if v, ok := s.bindings[name]; ok {
			return s, v, true
		}
	}
	var zero V
	return nil, zero, false
}
