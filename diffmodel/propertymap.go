package diffmodel

import "fmt"

// PropertyValueMap is an ordered collection of (Property, Value) entries
// read off a single component or model instance. Order is insertion
// order; FromNonDefaultValues inserts in property-declaration order.
type PropertyValueMap struct {
	entries []propertyValueEntry
	index   map[string]int
}

type propertyValueEntry struct {
	property *Property
	value    Value
}

// NewPropertyValueMap returns an empty PropertyValueMap.
func NewPropertyValueMap() *PropertyValueMap {
	return &PropertyValueMap{index: make(map[string]int)}
}

// Set inserts or overwrites the value recorded for a property.
func (m *PropertyValueMap) Set(p *Property, v Value) {
	if i, ok := m.index[p.NameFold()]; ok {
		m.entries[i].value = v
		return
	}
	m.index[p.NameFold()] = len(m.entries)
	m.entries = append(m.entries, propertyValueEntry{property: p, value: v})
}

// Get returns the value recorded for a property, if any.
func (m *PropertyValueMap) Get(p *Property) (Value, bool) {
	i, ok := m.index[p.NameFold()]
	if !ok {
		return nil, false
	}
	return m.entries[i].value, true
}

// Entries returns the (Property, Value) pairs in insertion order.
func (m *PropertyValueMap) Entries() []struct {
	Property *Property
	Value    Value
} {
	out := make([]struct {
		Property *Property
		Value    Value
	}, len(m.entries))
	for i, e := range m.entries {
		out[i] = struct {
			Property *Property
			Value    Value
		}{e.property, e.value}
	}
	return out
}

// Len reports the number of recorded properties.
func (m *PropertyValueMap) Len() int { return len(m.entries) }

// FromNonDefaultValues reads every non-DeltaOnly property off host through
// its accessor, recording it only when its value differs from the
// property's zero/default reading on a freshly constructed instance
// (defaultHost). This is how a newly added component's Addition is
// populated: only the properties that actually carry information are
// written.
func FromNonDefaultValues(properties []*Property, host interface{}, defaultHost interface{}) (*PropertyValueMap, error) {
	result := NewPropertyValueMap()
	for _, p := range properties {
		if p.DeltaOnly {
			continue
		}
		raw, err := p.Accessor.Get(host)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p.Name, err)
		}
		value, err := p.Kind.New(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p.Name, err)
		}
		if defaultHost != nil {
			defaultRaw, err := p.Accessor.Get(defaultHost)
			if err == nil {
				if defaultValue, err := p.Kind.New(defaultRaw); err == nil && value.Equal(defaultValue) {
					continue
				}
			}
		}
		result.Set(p, value)
	}
	return result, nil
}

// PropertyDeltaMap is an ordered collection of (Property, Delta) entries
// describing how a component or model changed between an older and
// newer instance.
type PropertyDeltaMap struct {
	entries []propertyDeltaEntry
	index   map[string]int
}

type propertyDeltaEntry struct {
	property *Property
	delta    Delta
}

// NewPropertyDeltaMap returns an empty PropertyDeltaMap.
func NewPropertyDeltaMap() *PropertyDeltaMap {
	return &PropertyDeltaMap{index: make(map[string]int)}
}

// Set inserts or overwrites the delta recorded for a property.
func (m *PropertyDeltaMap) Set(p *Property, d Delta) {
	if i, ok := m.index[p.NameFold()]; ok {
		m.entries[i].delta = d
		return
	}
	m.index[p.NameFold()] = len(m.entries)
	m.entries = append(m.entries, propertyDeltaEntry{property: p, delta: d})
}

// Get returns the delta recorded for a property, if any.
func (m *PropertyDeltaMap) Get(p *Property) (Delta, bool) {
	i, ok := m.index[p.NameFold()]
	if !ok {
		return nil, false
	}
	return m.entries[i].delta, true
}

// Len reports the number of recorded deltas.
func (m *PropertyDeltaMap) Len() int { return len(m.entries) }

// Entries returns the (Property, Delta) pairs in insertion order.
func (m *PropertyDeltaMap) Entries() []struct {
	Property *Property
	Delta    Delta
} {
	out := make([]struct {
		Property *Property
		Delta    Delta
	}, len(m.entries))
	for i, e := range m.entries {
		out[i] = struct {
			Property *Property
			Delta    Delta
		}{e.property, e.delta}
	}
	return out
}

// FromDifferences computes a PropertyDeltaMap between an older and newer
// instance of the same component, honoring each property's AffectedBy
// dependency: a property whose AffectedBy names another property is not
// diffed until that other property has already been diffed (whether or
// not it changed), because the accessor for a dependent property
// may read through state that the dependency's own delta changes.
//
// Once a dependency's delta is known, it is applied to the dependent
// property's older reading before that property is compared against its
// newer reading. This is what lets a derived property (for example, a
// line's effective start point, which is affectedBy its transform) drop
// out of the output entirely when its entire apparent change is already
// explained by the dependency: applying the transform's delta to the old
// start point reproduces the new one exactly, so the residual is zero.
// If the derived property also moved independently of its dependency,
// the residual is non-zero and it appears alongside the dependency.
//
// This is a straightforward fixpoint over the dependency graph rather
// than a topological sort: each pass diffs every property whose
// dependency (if any) is already resolved, and repeats until either every
// property is resolved or a pass makes no progress, in which case the
// remaining properties form a cycle or reference an unresolved property
// and ErrCyclicDependency is returned.
func FromDifferences(properties []*Property, older, newer interface{}, session Session) (*PropertyDeltaMap, error) {
	result := NewPropertyDeltaMap()
	resolved := make(map[string]bool, len(properties))
	out := make(map[string]Delta, len(properties))

	remaining := make([]*Property, 0, len(properties))
	remaining = append(remaining, properties...)

	for len(remaining) > 0 {
		var deferred []*Property
		progressed := false

		for _, p := range remaining {
			if p.AffectedBy != nil && !resolved[p.AffectedBy.NameFold()] {
				deferred = append(deferred, p)
				continue
			}

			var dependency Delta
			if p.AffectedBy != nil {
				dependency = out[p.AffectedBy.NameFold()]
			}
			delta, err := diffProperty(p, older, newer, dependency, session)
			if err != nil {
				return nil, fmt.Errorf("diffing %s: %w", p.Name, err)
			}
			resolved[p.NameFold()] = true
			progressed = true
			if delta != nil {
				result.Set(p, delta)
				out[p.NameFold()] = delta
			}
		}

		if !progressed {
			return nil, fmt.Errorf("%w: %v", ErrCyclicDependency, propertyNames(deferred))
		}
		remaining = deferred
	}

	return result, nil
}

// diffProperty reads p off older and newer and returns the Delta between
// them, or nil if they're equal. If dependency is non-nil (the already
// resolved delta of p.AffectedBy), it is applied to the older reading
// first, so the comparison is against the residual that the dependency's
// own change doesn't already account for.
func diffProperty(p *Property, older, newer interface{}, dependency Delta, session Session) (Delta, error) {
	oldRaw, err := p.Accessor.Get(older)
	if err != nil {
		return nil, fmt.Errorf("reading older %s: %w", p.Name, err)
	}
	newRaw, err := p.Accessor.Get(newer)
	if err != nil {
		return nil, fmt.Errorf("reading newer %s: %w", p.Name, err)
	}
	oldValue, err := p.Kind.New(oldRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing older %s: %w", p.Name, err)
	}
	newValue, err := p.Kind.New(newRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing newer %s: %w", p.Name, err)
	}
	if dependency != nil {
		oldValue = dependency.Apply(oldValue, session)
	}
	if oldValue.Equal(newValue) {
		return nil, nil
	}
	return DiffValues(oldValue, newValue), nil
}

func propertyNames(properties []*Property) []string {
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = p.Name
	}
	return names
}

// Apply applies every delta in m to a PropertyValueMap snapshot of the
// current host state, returning the resulting values. Properties absent
// from m are carried over unchanged from current. This is the value-map
// variant of applying a delta; ModelDelta.Apply mutates a live host
// directly through each property's Accessor instead of going through a
// PropertyValueMap.
func (m *PropertyDeltaMap) Apply(current *PropertyValueMap, session Session) *PropertyValueMap {
	result := NewPropertyValueMap()
	for _, e := range current.entries {
		result.Set(e.property, e.value)
	}
	for _, e := range m.entries {
		currentValue, _ := current.Get(e.property)
		result.Set(e.property, e.delta.Apply(currentValue, session))
	}
	return result
}

// Reverse returns the PropertyDeltaMap that undoes m, property by
// property, preserving m's order.
func (m *PropertyDeltaMap) Reverse() *PropertyDeltaMap {
	result := NewPropertyDeltaMap()
	for _, e := range m.entries {
		result.Set(e.property, e.delta.Reverse())
	}
	return result
}

// Merge combines m with another PropertyDeltaMap describing an
// independent set of changes to the same component, for three-way merge.
// A property touched by both sides is a conflict unless the two deltas
// are equal, in which case it's recorded once.
func (m *PropertyDeltaMap) Merge(other *PropertyDeltaMap) (*PropertyDeltaMap, error) {
	result := NewPropertyDeltaMap()
	for _, e := range m.entries {
		result.Set(e.property, e.delta)
	}
	for _, e := range other.entries {
		if existing, ok := result.Get(e.property); ok {
			if existing.Equal(e.delta) {
				continue
			}
			return nil, &MergeConflictError{
				Property: e.property.Name,
				Left:     existing.String(),
				Right:    e.delta.String(),
			}
		}
		result.Set(e.property, e.delta)
	}
	return result, nil
}
