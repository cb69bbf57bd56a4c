package ir

import "slices"

// Name identifies a property within a schema. It is both a dependency
// graph vertex and a result record key.
type Name string

// PatternFunc tests whether the partial record has the shape a clause
// expects. A nil PatternFunc matches unconditionally.
//
// Pattern functions must treat the record as read-only.
type PatternFunc func(partial Record) bool

// GuardFunc is an additional boolean condition over the input and the
// partial record. A nil GuardFunc always holds.
type GuardFunc func(input Value, partial Record) bool

// BodyFunc computes a property's value from the input and the partial
// record. Bodies are required by contract to be pure: given the same
// (input, partial) they return the same value and have no observable
// side effects. Purity is what makes schema reuse across concurrent
// evaluations sound.
type BodyFunc func(input Value, partial Record) (Value, error)

// Clause is one guarded alternative for a property. During evaluation
// the property's clauses are scanned in declaration order and the first
// whose Pattern and Guard both hold is dispatched.
type Clause struct {
	Pattern PatternFunc
	Guard   GuardFunc
	Body    BodyFunc
}

// PropertyDecl declares one property: its name, its ordered clauses,
// and the set of other properties its clauses reference.
//
// Requires is the union across ALL clauses of every property name
// referenced by a clause's pattern or guard. This is deliberately a
// conservative over-approximation: only one clause fires per
// evaluation, but the union keeps the dependency graph (and therefore
// cycle detection and ordering) independent of the input. The set is
// supplied by the upstream extractor and trusted here.
type PropertyDecl struct {
	Name     Name
	Clauses  []Clause
	Requires []Name
}

// Record maps property names to values. It serves as the partial result
// during one evaluation (grows monotonically, a bound key is never
// rewritten) and as the completed result record afterwards.
type Record map[Name]Value

// Has reports whether the property is bound.
func (r Record) Has(name Name) bool {
	_, ok := r[name]
	return ok
}

// Get returns the bound value, or nil and false when unbound.
func (r Record) Get(name Name) (Value, bool) {
	v, ok := r[name]
	return v, ok
}

// Names returns the bound property names sorted lexically.
// Sorting keeps diagnostics and snapshots deterministic.
func (r Record) Names() []Name {
	names := make([]Name, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Clone returns a shallow copy. Values are immutable by convention, so
// a shallow copy is sufficient for snapshots.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for n, v := range r {
		out[n] = v
	}
	return out
}

// Object converts the record to an Object keyed by the string form of
// each name, for canonical serialization and hashing.
func (r Record) Object() Object {
	obj := make(Object, len(r))
	for n, v := range r {
		obj[string(n)] = v
	}
	return obj
}

// Bound builds a pattern that matches when every listed property is
// bound in the partial record.
func Bound(names ...Name) PatternFunc {
	return func(partial Record) bool {
		for _, n := range names {
			if !partial.Has(n) {
				return false
			}
		}
		return true
	}
}

// BoundEq builds a pattern that matches when the property is bound and
// structurally equal to want.
func BoundEq(name Name, want Value) PatternFunc {
	return func(partial Record) bool {
		got, ok := partial.Get(name)
		return ok && Equal(got, want)
	}
}

// AllOf combines patterns; the result matches only when every pattern
// matches. Nil entries are treated as always-true.
func AllOf(patterns ...PatternFunc) PatternFunc {
	return func(partial Record) bool {
		for _, p := range patterns {
			if p != nil && !p(partial) {
				return false
			}
		}
		return true
	}
}
