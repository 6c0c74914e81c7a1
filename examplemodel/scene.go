// Package examplemodel is a small, in-memory "scene" model used to
// exercise diffmodel end to end: a toy CAD-ish document of points and
// lines, with exactly the kind of derived property (a line's effective
// start point, which depends on its transform) that requires the
// dependency-ordered diff resolver rather than a flat property scan.
//
// Nothing here is part of the core diff engine; it is the adapter a real
// application would write to bind diffmodel to its own document types.
package examplemodel

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nurbsdiff/nurbsdiff/diffmodel"
)

// Vector3 is a plain 3-component vector, reused for points, offsets, and
// translations.
type Vector3 struct {
	X, Y, Z float64
}

// Point is a named, located point in the scene.
type Point struct {
	ID       uuid.UUID
	Label    string
	Position Vector3
}

// Transform is a minimal rigid transform: translation only, enough to
// demonstrate a derived property without dragging in a full matrix
// stack.
type Transform struct {
	Translation Vector3
}

// Line is a segment from a local start point, moved by Transform, to an
// explicit end point. Start is the property with an affectedBy
// dependency on Transform: its effective value is LocalStart +
// Transform.Translation.
type Line struct {
	ID         uuid.UUID
	LocalStart Vector3
	Transform  Transform
	End        Vector3
}

// EffectiveStart returns the line's start point after its transform is
// applied.
func (l *Line) EffectiveStart() Vector3 {
	return Vector3{
		X: l.LocalStart.X + l.Transform.Translation.X,
		Y: l.LocalStart.Y + l.Transform.Translation.Y,
		Z: l.LocalStart.Z + l.Transform.Translation.Z,
	}
}

// Scene is a model holding a set of points and lines, plus one
// model-wide property (Units) to exercise model-level (as opposed to
// component-level) property diffing.
type Scene struct {
	Units  string
	Points *PointTable
	Lines  *LineTable
}

// NewScene returns an empty Scene with default units.
func NewScene() *Scene {
	return &Scene{
		Units:  "millimeters",
		Points: NewPointTable(),
		Lines:  NewLineTable(),
	}
}

// PointTable is a diffmodel.Table of Points keyed by id.
type PointTable struct {
	byID  map[uuid.UUID]*Point
	order []uuid.UUID
}

// NewPointTable returns an empty PointTable.
func NewPointTable() *PointTable {
	return &PointTable{byID: make(map[uuid.UUID]*Point)}
}

func (t *PointTable) GetComponent(id string) (interface{}, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid point id %q: %w", id, err)
	}
	p, ok := t.byID[parsed]
	if !ok {
		return nil, fmt.Errorf("point %s not found", id)
	}
	return p, nil
}

func (t *PointTable) AllComponents() []diffmodel.TableEntry {
	entries := make([]diffmodel.TableEntry, 0, len(t.order))
	for _, id := range t.order {
		entries = append(entries, diffmodel.TableEntry{ID: id, Component: t.byID[id]})
	}
	return entries
}

func (t *PointTable) AddComponent(id string, component interface{}) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid point id %q: %w", id, err)
	}
	p, ok := component.(*Point)
	if !ok {
		return fmt.Errorf("expected *Point, got %T", component)
	}
	p.ID = parsed
	if _, exists := t.byID[parsed]; !exists {
		t.order = append(t.order, parsed)
	}
	t.byID[parsed] = p
	return nil
}

func (t *PointTable) DeleteComponent(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid point id %q: %w", id, err)
	}
	if _, ok := t.byID[parsed]; !ok {
		return fmt.Errorf("point %s not found", id)
	}
	delete(t.byID, parsed)
	for i, existing := range t.order {
		if existing == parsed {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// LineTable is a diffmodel.Table of Lines keyed by id.
type LineTable struct {
	byID  map[uuid.UUID]*Line
	order []uuid.UUID
}

// NewLineTable returns an empty LineTable.
func NewLineTable() *LineTable {
	return &LineTable{byID: make(map[uuid.UUID]*Line)}
}

func (t *LineTable) GetComponent(id string) (interface{}, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid line id %q: %w", id, err)
	}
	l, ok := t.byID[parsed]
	if !ok {
		return nil, fmt.Errorf("line %s not found", id)
	}
	return l, nil
}

func (t *LineTable) AllComponents() []diffmodel.TableEntry {
	entries := make([]diffmodel.TableEntry, 0, len(t.order))
	for _, id := range t.order {
		entries = append(entries, diffmodel.TableEntry{ID: id, Component: t.byID[id]})
	}
	return entries
}

func (t *LineTable) AddComponent(id string, component interface{}) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid line id %q: %w", id, err)
	}
	l, ok := component.(*Line)
	if !ok {
		return fmt.Errorf("expected *Line, got %T", component)
	}
	l.ID = parsed
	if _, exists := t.byID[parsed]; !exists {
		t.order = append(t.order, parsed)
	}
	t.byID[parsed] = l
	return nil
}

func (t *LineTable) DeleteComponent(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid line id %q: %w", id, err)
	}
	if _, ok := t.byID[parsed]; !ok {
		return fmt.Errorf("line %s not found", id)
	}
	delete(t.byID, parsed)
	for i, existing := range t.order {
		if existing == parsed {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}
