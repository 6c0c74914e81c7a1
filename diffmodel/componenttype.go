package diffmodel

import (
	"fmt"
	"reflect"
	"strings"
)

// ComponentType is the schema for one kind of component: its name (as it
// appears in patch headers), the Go type its instances have, the ordered
// list of diffable properties, and the Table holding its instances.
type ComponentType struct {
	Name       string
	ClassTag   reflect.Type
	Table      Table
	Properties []*Property

	// New constructs a zero-value instance of this component type, used
	// when applying an Addition whose properties must be set one by one.
	New func() interface{}
}

// PropertyByName looks up a property by its case-folded name.
func (t *ComponentType) PropertyByName(name string) (*Property, error) {
	folded := strings.ToLower(name)
	for _, p := range t.Properties {
		if p.NameFold() == folded {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, t.Name, name)
}

// ComponentTypeRegistry indexes the ComponentTypes of a model by both
// their patch-header name and the concrete Go type of their instances, so
// a ModelDelta can resolve a type either while reading a header or while
// comparing two live components.
type ComponentTypeRegistry struct {
	byName     map[string]*ComponentType
	byClassTag map[reflect.Type]*ComponentType
	ordered    []*ComponentType
}

// NewComponentTypeRegistry builds a registry from the given component
// types. Names are folded case-insensitively, matching header parsing.
func NewComponentTypeRegistry(types ...*ComponentType) *ComponentTypeRegistry {
	r := &ComponentTypeRegistry{
		byName:     make(map[string]*ComponentType, len(types)),
		byClassTag: make(map[reflect.Type]*ComponentType, len(types)),
	}
	for _, t := range types {
		r.byName[strings.ToLower(t.Name)] = t
		if t.ClassTag != nil {
			r.byClassTag[t.ClassTag] = t
		}
		r.ordered = append(r.ordered, t)
	}
	return r
}

// FindByName looks up a ComponentType by its patch-header name.
func (r *ComponentTypeRegistry) FindByName(name string) (*ComponentType, error) {
	t, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponentType, name)
	}
	return t, nil
}

// FindByClass looks up a ComponentType by a component's concrete Go type.
func (r *ComponentTypeRegistry) FindByClass(classTag reflect.Type) (*ComponentType, error) {
	t, ok := r.byClassTag[classTag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponentType, classTag)
	}
	return t, nil
}

// FromInstance looks up the ComponentType of a live component value.
func (r *ComponentTypeRegistry) FromInstance(component interface{}) (*ComponentType, error) {
	classTag := reflect.TypeOf(component)
	for classTag != nil && classTag.Kind() == reflect.Ptr {
		classTag = classTag.Elem()
	}
	return r.FindByClass(classTag)
}

// All returns every registered ComponentType, in registration order.
func (r *ComponentTypeRegistry) All() []*ComponentType {
	return r.ordered
}
