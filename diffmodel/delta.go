package diffmodel

import "fmt"

// Delta describes a change to a single property's value. The default and
// overwhelmingly common case is Substitution (older -> newer); value kinds
// with richer internal structure may define their own Delta that knows how
// to apply, reverse, and format itself more precisely than a flat
// replacement.
type Delta interface {
	fmt.Stringer
	// Apply returns the Value that results from applying this delta to
	// current. If current does not match what the delta expects to find,
	// implementations should report the discrepancy via session.Warn and
	// still return their best result (normally the delta's newer value)
	// rather than fail the whole operation.
	Apply(current Value, session Session) Value
	// Reverse returns the delta that undoes this one.
	Reverse() Delta
	// Equal reports whether two deltas describe the same change.
	Equal(other Delta) bool
}

// Substitution is the default Delta: a flat replacement of one value with
// another. Its textual form is "OLDER -> NEWER".
type Substitution struct {
	Older Value
	Newer Value
}

func (s *Substitution) String() string {
	return valueString(s.Older) + " " + substitutionDelimiter + " " + valueString(s.Newer)
}

func valueString(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// Apply returns s.Newer. If current doesn't match s.Older the caller is
// warned but the newer value is applied anyway, mirroring patch(1)'s
// "hunk applied with offset/fuzz" tolerance rather than aborting.
func (s *Substitution) Apply(current Value, session Session) Value {
	if current != nil && s.Older != nil && !current.Equal(s.Older) {
		session.Warn(fmt.Sprintf("expected %s but found %s", s.Older, current))
	}
	return s.Newer
}

func (s *Substitution) Reverse() Delta {
	return &Substitution{Older: s.Newer, Newer: s.Older}
}

func (s *Substitution) Equal(other Delta) bool {
	o, ok := other.(*Substitution)
	if !ok {
		return false
	}
	return valuesEqual(s.Older, o.Older) && valuesEqual(s.Newer, o.Newer)
}

func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// DiffValues produces the Delta between two Values of the same kind using
// the older value's own Diff method, falling back to a plain Substitution
// when either side is nil (addition/deletion of an optional property).
func DiffValues(older, newer Value) Delta {
	if older == nil || newer == nil {
		return &Substitution{Older: older, Newer: newer}
	}
	return older.Diff(newer)
}
