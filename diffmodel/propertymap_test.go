package diffmodel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	Name      string
	Offset    float64
	Transform float64
}

func widgetProperties() (name, offset, transform, derived *Property) {
	transform = &Property{
		Name:     "Transform",
		Kind:     FloatKind,
		Accessor: NewPathAccessor("Transform"),
	}
	derived = &Property{
		Name:       "Derived",
		Kind:       FloatKind,
		AffectedBy: transform,
		Accessor: FunctionalAccessor{
			Getter: func(host interface{}) (interface{}, error) {
				w := host.(*widget)
				return w.Offset + w.Transform, nil
			},
		},
	}
	name = &Property{Name: "Name", Kind: StringKind, Accessor: NewPathAccessor("Name")}
	offset = &Property{Name: "Offset", Kind: FloatKind, Accessor: NewPathAccessor("Offset")}
	return
}

// additiveDelta is a minimal stand-in for a "richer" delta kind (see
// value.go's doc comment on overriding Diff): instead of a flat
// replacement, it knows how to carry its (newer-older) change over onto
// an unrelated value of the same underlying float domain. This mirrors
// how a geometric transform delta applies its translation to a point
// rather than substituting the point outright.
type additiveDelta struct {
	Older, Newer float64
}

func (d *additiveDelta) String() string { return fmt.Sprintf("%g -> %g", d.Older, d.Newer) }

func (d *additiveDelta) Apply(current Value, session Session) Value {
	raw, _ := current.Raw().(float64)
	updated, _ := FloatKind.New(raw + (d.Newer - d.Older))
	return updated
}

func (d *additiveDelta) Reverse() Delta { return &additiveDelta{Older: d.Newer, Newer: d.Older} }

func (d *additiveDelta) Equal(other Delta) bool {
	o, ok := other.(*additiveDelta)
	return ok && d.Older == o.Older && d.Newer == o.Newer
}

type additiveValue struct{ raw float64 }

func (v additiveValue) String() string   { return fmt.Sprintf("%g", v.raw) }
func (v additiveValue) Raw() interface{} { return v.raw }
func (v additiveValue) Equal(other Value) bool {
	o, ok := other.(additiveValue)
	return ok && v.raw == o.raw
}
func (v additiveValue) Diff(newer Value) Delta {
	return &additiveDelta{Older: v.raw, Newer: newer.(additiveValue).raw}
}

type additiveKind struct{}

func (additiveKind) New(raw interface{}) (Value, error) {
	f, ok := raw.(float64)
	if !ok {
		return nil, fmt.Errorf("%v is not a float", raw)
	}
	return additiveValue{raw: f}, nil
}

func (additiveKind) ParseValue(input string) (Value, string, error) {
	v, rest, err := FloatKind.ParseValue(input)
	if err != nil {
		return nil, input, err
	}
	return additiveValue{raw: v.Raw().(float64)}, rest, nil
}

func (k additiveKind) ParseDelta(input string) (Delta, string, error) {
	return ParseSubstitution(k, input)
}

func TestFromDifferencesResolvesDependencyOrder(t *testing.T) {
	name, offset, transform, derived := widgetProperties()
	transform.Kind = additiveKind{}
	properties := []*Property{derived, name, offset, transform} // deliberately out of dependency order

	older := &widget{Name: "a", Offset: 1, Transform: 0}
	newer := &widget{Name: "a", Offset: 1, Transform: 5}

	deltas, err := FromDifferences(properties, older, newer, NullSession{})
	require.NoError(t, err)

	// Derived's entire apparent change (1 -> 6) is explained by Transform's
	// delta (+5) applied to Derived's older reading: only Transform should
	// survive in the output, per the dependency-residual rule.
	require.Equal(t, 1, deltas.Len())

	transformDelta, ok := deltas.Get(transform)
	require.True(t, ok)
	require.Equal(t, "0 -> 5", transformDelta.String())

	_, hasDerived := deltas.Get(derived)
	require.False(t, hasDerived, "derived's change is fully explained by transform and should not appear")
}

func TestFromDifferencesKeepsResidualWhenDependentMovedIndependently(t *testing.T) {
	name, offset, transform, derived := widgetProperties()
	transform.Kind = additiveKind{}
	properties := []*Property{derived, name, offset, transform}

	older := &widget{Name: "a", Offset: 1, Transform: 0}
	// Transform moves by +5 (0 -> 5), which alone would explain Derived's
	// rise from 1 to 6. But here Offset also rises by 2 (1 -> 3), so
	// Derived's newer reading is 3+5=8, not 6: a residual of +2 remains
	// after the transform's own contribution is subtracted out.
	newer := &widget{Name: "a", Offset: 3, Transform: 5}

	deltas, err := FromDifferences(properties, older, newer, NullSession{})
	require.NoError(t, err)
	require.Equal(t, 3, deltas.Len()) // Offset, Transform, and the Derived residual

	transformDelta, ok := deltas.Get(transform)
	require.True(t, ok)
	require.Equal(t, "0 -> 5", transformDelta.String())

	derivedDelta, ok := deltas.Get(derived)
	require.True(t, ok, "derived moved independently of transform and its residual should appear")
	require.Equal(t, "6 -> 8", derivedDelta.String())
}

func TestFromDifferencesDetectsCycle(t *testing.T) {
	a := &Property{Name: "A", Kind: FloatKind, Accessor: NewPathAccessor("Offset")}
	b := &Property{Name: "B", Kind: FloatKind, Accessor: NewPathAccessor("Transform")}
	a.AffectedBy = b
	b.AffectedBy = a

	older := &widget{Offset: 1, Transform: 1}
	newer := &widget{Offset: 2, Transform: 2}

	_, err := FromDifferences([]*Property{a, b}, older, newer, NullSession{})
	require.ErrorIs(t, err, ErrCyclicDependency)
}

func TestPropertyDeltaMapApplyAndReverse(t *testing.T) {
	_, offset, transform, _ := widgetProperties()
	older := &widget{Offset: 1, Transform: 0}
	newer := &widget{Offset: 4, Transform: 9}

	deltas, err := FromDifferences([]*Property{offset, transform}, older, newer, NullSession{})
	require.NoError(t, err)

	current := NewPropertyValueMap()
	offsetValue, _ := FloatKind.New(older.Offset)
	transformValue, _ := FloatKind.New(older.Transform)
	current.Set(offset, offsetValue)
	current.Set(transform, transformValue)

	session := NullSession{}
	applied := deltas.Apply(current, session)

	appliedOffset, _ := applied.Get(offset)
	require.Equal(t, "4", appliedOffset.String())

	reversed := deltas.Reverse()
	rolledBack := reversed.Apply(applied, session)
	rolledBackOffset, _ := rolledBack.Get(offset)
	require.Equal(t, "1", rolledBackOffset.String())
}

func TestPropertyDeltaMapMergeConflict(t *testing.T) {
	_, offset, _, _ := widgetProperties()

	left := NewPropertyDeltaMap()
	olderValue, _ := FloatKind.New(1.0)
	leftValue, _ := FloatKind.New(2.0)
	left.Set(offset, &Substitution{Older: olderValue, Newer: leftValue})

	right := NewPropertyDeltaMap()
	rightValue, _ := FloatKind.New(3.0)
	right.Set(offset, &Substitution{Older: olderValue, Newer: rightValue})

	_, err := left.Merge(right)
	var conflict *MergeConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "Offset", conflict.Property)
}

func TestPropertyDeltaMapMergeAgreement(t *testing.T) {
	_, offset, _, _ := widgetProperties()

	olderValue, _ := FloatKind.New(1.0)
	newerValue, _ := FloatKind.New(2.0)

	left := NewPropertyDeltaMap()
	left.Set(offset, &Substitution{Older: olderValue, Newer: newerValue})

	right := NewPropertyDeltaMap()
	right.Set(offset, &Substitution{Older: olderValue, Newer: newerValue})

	merged, err := left.Merge(right)
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len())
}
