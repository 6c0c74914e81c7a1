package diffmodel

import (
	"fmt"

	"github.com/google/uuid"
)

// ComponentDelta describes the change, if any, to one component between
// an older and newer model: an Addition (component is new), a Deletion
// (component is gone), or a Modification (component persists but one or
// more properties changed).
type ComponentDelta interface {
	fmt.Stringer
	// Sign returns the header character that identifies this delta's
	// kind in the patch grammar: '+' for Addition, '-' for Deletion, '~'
	// for Modification.
	Sign() rune
	// Type returns the component's type.
	Type() *ComponentType
	// ComponentID returns the id of the component this delta concerns.
	ComponentID() uuid.UUID
	// Reverse returns the delta that undoes this one.
	Reverse() ComponentDelta
	// Merge combines this delta with another delta for the same
	// component, for three-way merge. Both deltas must have the same
	// concrete kind, component type, and id.
	Merge(other ComponentDelta) (ComponentDelta, error)
}

// componentDeltasBySign indexes the three concrete ComponentDelta kinds by
// their header sign, mirroring the original schema's class-by-symbol
// registry used while parsing "@@ <sign><type> <id> @@" headers.
var componentDeltasBySign = map[rune]func() ComponentDelta{
	'+': func() ComponentDelta { return &Addition{} },
	'-': func() ComponentDelta { return &Deletion{} },
	'~': func() ComponentDelta { return &Modification{} },
}

// ComponentDeltaForSign returns a zero-value ComponentDelta of the kind
// identified by a header sign, for the reader to populate.
func ComponentDeltaForSign(sign rune) (ComponentDelta, error) {
	ctor, ok := componentDeltasBySign[sign]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized sign %q", ErrMalformedHeader, sign)
	}
	return ctor(), nil
}

// Addition records a component present in the newer model but not the
// older one, carrying the non-default property values read off it.
type Addition struct {
	ComponentType *ComponentType
	ID            uuid.UUID
	Properties    *PropertyValueMap
}

func (a *Addition) Sign() rune                { return '+' }
func (a *Addition) Type() *ComponentType       { return a.ComponentType }
func (a *Addition) ComponentID() uuid.UUID     { return a.ID }

func (a *Addition) String() string {
	return headerString('+', a.ComponentType.Name, a.ID)
}

func (a *Addition) Reverse() ComponentDelta {
	return &Deletion{ComponentType: a.ComponentType, ID: a.ID, Properties: a.Properties}
}

func (a *Addition) Merge(other ComponentDelta) (ComponentDelta, error) {
	o, ok := other.(*Addition)
	if !ok || o.ID != a.ID || o.ComponentType != a.ComponentType {
		return nil, incompatibleMerge(a, other)
	}
	merged := NewPropertyValueMap()
	for _, e := range a.Properties.entries {
		merged.Set(e.property, e.value)
	}
	for _, e := range o.Properties.entries {
		if existing, ok := merged.Get(e.property); ok && !existing.Equal(e.value) {
			return nil, &MergeConflictError{Property: e.property.Name, Left: existing.String(), Right: e.value.String()}
		}
		merged.Set(e.property, e.value)
	}
	return &Addition{ComponentType: a.ComponentType, ID: a.ID, Properties: merged}, nil
}

// Deletion records a component present in the older model but not the
// newer one. Properties is the snapshot that was deleted, kept so the
// deletion can be reversed into an Addition.
type Deletion struct {
	ComponentType *ComponentType
	ID            uuid.UUID
	Properties    *PropertyValueMap
}

func (d *Deletion) Sign() rune            { return '-' }
func (d *Deletion) Type() *ComponentType   { return d.ComponentType }
func (d *Deletion) ComponentID() uuid.UUID { return d.ID }

func (d *Deletion) String() string {
	return headerString('-', d.ComponentType.Name, d.ID)
}

func (d *Deletion) Reverse() ComponentDelta {
	return &Addition{ComponentType: d.ComponentType, ID: d.ID, Properties: d.Properties}
}

func (d *Deletion) Merge(other ComponentDelta) (ComponentDelta, error) {
	o, ok := other.(*Deletion)
	if !ok || o.ID != d.ID || o.ComponentType != d.ComponentType {
		return nil, incompatibleMerge(d, other)
	}
	return d, nil
}

// Modification records a component present in both models whose
// properties changed, as a PropertyDeltaMap.
type Modification struct {
	ComponentType *ComponentType
	ID            uuid.UUID
	Properties    *PropertyDeltaMap
}

func (m *Modification) Sign() rune            { return '~' }
func (m *Modification) Type() *ComponentType   { return m.ComponentType }
func (m *Modification) ComponentID() uuid.UUID { return m.ID }

func (m *Modification) String() string {
	return headerString('~', m.ComponentType.Name, m.ID)
}

func (m *Modification) Reverse() ComponentDelta {
	return &Modification{ComponentType: m.ComponentType, ID: m.ID, Properties: m.Properties.Reverse()}
}

func (m *Modification) Merge(other ComponentDelta) (ComponentDelta, error) {
	o, ok := other.(*Modification)
	if !ok || o.ID != m.ID || o.ComponentType != m.ComponentType {
		return nil, incompatibleMerge(m, other)
	}
	merged, err := m.Properties.Merge(o.Properties)
	if err != nil {
		return nil, err
	}
	return &Modification{ComponentType: m.ComponentType, ID: m.ID, Properties: merged}, nil
}

// IsEmpty reports whether a Modification changed no properties and
// should therefore be elided from output, per the patch grammar's rule
// that a no-op modification header is never written.
func (m *Modification) IsEmpty() bool {
	return m.Properties == nil || m.Properties.Len() == 0
}

func headerString(sign rune, typeName string, id uuid.UUID) string {
	return fmt.Sprintf("@@ %c%s %s @@", sign, typeName, id.String())
}

func incompatibleMerge(a, b ComponentDelta) error {
	return &ComponentMergeError{
		ID:     a.ComponentID().String(),
		Reason: fmt.Sprintf("%c%s cannot merge with %T", a.Sign(), a.Type().Name, b),
	}
}
