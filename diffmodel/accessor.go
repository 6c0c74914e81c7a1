package diffmodel

import (
	"fmt"
	"reflect"
	"strings"
)

// Accessor reads and writes a single property's value on a host object.
// Hosts are untyped on purpose: a ComponentType's property list holds
// Accessors for properties of unrelated underlying Go types, so the
// accessor itself must box and unbox through interface{}.
type Accessor interface {
	Get(host interface{}) (interface{}, error)
	Set(host interface{}, value interface{}) error
}

// FunctionalAccessor adapts a plain getter/setter pair into an Accessor.
// This is the escape hatch for anything PathAccessor can't express —
// derived values, validation on write, and so on.
type FunctionalAccessor struct {
	Getter func(host interface{}) (interface{}, error)
	Setter func(host interface{}, value interface{}) error
}

func (a FunctionalAccessor) Get(host interface{}) (interface{}, error) {
	return a.Getter(host)
}

func (a FunctionalAccessor) Set(host interface{}, value interface{}) error {
	if a.Setter == nil {
		return fmt.Errorf("property is read-only")
	}
	return a.Setter(host, value)
}

// PathAccessor reaches through a dotted chain of exported struct fields
// (e.g. "Transform.Origin") using reflection, walking every segment but
// the last to find the final field's addressable container, then
// get/set-ing only that last segment. The path is split once at
// construction time so every Get/Set reuses the same segment list.
type PathAccessor struct {
	segments []string
}

// NewPathAccessor builds a PathAccessor for a dotted field path.
func NewPathAccessor(path string) PathAccessor {
	return PathAccessor{segments: strings.Split(path, ".")}
}

func (a PathAccessor) walk(host interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(host)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer while accessing %q", strings.Join(a.segments, "."))
		}
		v = v.Elem()
	}
	for i, segment := range a.segments[:len(a.segments)-1] {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%q: segment %q is not a struct", strings.Join(a.segments, "."), strings.Join(a.segments[:i+1], "."))
		}
		v = v.FieldByName(segment)
		if !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("%q: no such field %q", strings.Join(a.segments, "."), segment)
		}
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("nil pointer at %q", segment)
			}
			v = v.Elem()
		}
	}
	return v, nil
}

func (a PathAccessor) Get(host interface{}) (interface{}, error) {
	container, err := a.walk(host)
	if err != nil {
		return nil, err
	}
	last := a.segments[len(a.segments)-1]
	field := container.FieldByName(last)
	if !field.IsValid() {
		return nil, fmt.Errorf("%q: no such field %q", strings.Join(a.segments, "."), last)
	}
	return field.Interface(), nil
}

func (a PathAccessor) Set(host interface{}, value interface{}) error {
	container, err := a.walk(host)
	if err != nil {
		return err
	}
	last := a.segments[len(a.segments)-1]
	field := container.FieldByName(last)
	if !field.IsValid() {
		return fmt.Errorf("%q: no such field %q", strings.Join(a.segments, "."), last)
	}
	if !field.CanSet() {
		return fmt.Errorf("%q: field %q is not settable", strings.Join(a.segments, "."), last)
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(field.Type()) {
		if rv.Type().ConvertibleTo(field.Type()) {
			rv = rv.Convert(field.Type())
		} else {
			return fmt.Errorf("%q: cannot assign %s to %s", strings.Join(a.segments, "."), rv.Type(), field.Type())
		}
	}
	field.Set(rv)
	return nil
}

// ComposedAccessor reads an intermediate value-object through an inner
// accessor, reads or writes one of its fields via an outer accessor
// bound to that object, and writes the mutated object back through the
// inner accessor. This matches value types that must be replaced whole
// (e.g. an immutable geometry struct) rather than mutated in place.
type ComposedAccessor struct {
	Inner Accessor
	Outer func(intermediate interface{}) Accessor
}

func (a ComposedAccessor) Get(host interface{}) (interface{}, error) {
	intermediate, err := a.Inner.Get(host)
	if err != nil {
		return nil, err
	}
	return a.Outer(intermediate).Get(intermediate)
}

func (a ComposedAccessor) Set(host interface{}, value interface{}) error {
	intermediate, err := a.Inner.Get(host)
	if err != nil {
		return err
	}
	if err := a.Outer(intermediate).Set(intermediate, value); err != nil {
		return err
	}
	return a.Inner.Set(host, intermediate)
}

// IndexAccessor wraps an accessor that holds a component reference (its
// id) on the host, and checks that reference against a Table. Get returns
// the stored reference unchanged. Set checks that a string id names a
// component in the table before writing it through Field; values of any
// other type are written through Field unchecked. No translation between
// ids and table indices or components is done in either direction.
type IndexAccessor struct {
	Field Accessor
	Table Table
}

func (a IndexAccessor) Get(host interface{}) (interface{}, error) {
	return a.Field.Get(host)
}

func (a IndexAccessor) Set(host interface{}, value interface{}) error {
	switch id := value.(type) {
	case string:
		if _, err := a.Table.GetComponent(id); err != nil {
			return fmt.Errorf("indexed reference %q not found: %w", id, err)
		}
	}
	return a.Field.Set(host, value)
}
