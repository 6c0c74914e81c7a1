package examplemodel

import (
	"fmt"
	"reflect"

	"github.com/nurbsdiff/nurbsdiff/diffmodel"
)

// vectorAccessor adapts a Vector3 field into an Accessor whose raw
// values are Vector3 itself, read and written through VectorKind or
// TransformKind.
func vectorAccessor(get func(host interface{}) *Vector3) diffmodel.Accessor {
	return diffmodel.FunctionalAccessor{
		Getter: func(host interface{}) (interface{}, error) {
			return *get(host), nil
		},
		Setter: func(host interface{}, value interface{}) error {
			v, ok := value.(Vector3)
			if !ok {
				return fmt.Errorf("expected Vector3, got %T", value)
			}
			*get(host) = v
			return nil
		},
	}
}

func numberField(m map[string]interface{}, key string) (float64, bool) {
	n, ok := m[key].(float64)
	return n, ok
}

// NewSchema builds the ComponentTypeRegistry and ModelType describing
// Scene, Point, and Line, wiring Line.Start's affectedBy dependency on
// Line.Transform: Start's accessor reads the transformed point, so its
// delta can only be computed once Transform's own delta is known.
func NewSchema() *diffmodel.ModelType {
	pointType := reflect.TypeOf(Point{})
	lineType := reflect.TypeOf(Line{})

	labelProperty := &diffmodel.Property{
		Name:     "Label",
		Kind:     diffmodel.StringKind,
		Accessor: diffmodel.NewPathAccessor("Label"),
	}
	positionProperty := &diffmodel.Property{
		Name: "Position",
		Kind: VectorKind,
		Accessor: vectorAccessor(func(host interface{}) *Vector3 {
			return &host.(*Point).Position
		}),
	}

	// Transform uses TransformKind rather than plain VectorKind: its diff
	// is a TranslationDelta, a richer delta that knows how to carry its
	// translation onto another point value, rather than a flat
	// Substitution. That's what lets Start (below) resolve to nothing when
	// its whole apparent change is explained by the transform.
	transformProperty := &diffmodel.Property{
		Name: "Transform",
		Kind: TransformKind,
		Accessor: vectorAccessor(func(host interface{}) *Vector3 {
			return &host.(*Line).Transform.Translation
		}),
	}
	endProperty := &diffmodel.Property{
		Name: "End",
		Kind: VectorKind,
		Accessor: vectorAccessor(func(host interface{}) *Vector3 {
			return &host.(*Line).End
		}),
	}
	startProperty := &diffmodel.Property{
		Name:       "Start",
		Kind:       VectorKind,
		AffectedBy: transformProperty,
		Accessor: diffmodel.FunctionalAccessor{
			Getter: func(host interface{}) (interface{}, error) {
				return host.(*Line).EffectiveStart(), nil
			},
			Setter: func(host interface{}, value interface{}) error {
				v, ok := value.(Vector3)
				if !ok {
					return fmt.Errorf("expected Vector3, got %T", value)
				}
				line := host.(*Line)
				line.LocalStart = Vector3{
					X: v.X - line.Transform.Translation.X,
					Y: v.Y - line.Transform.Translation.Y,
					Z: v.Z - line.Transform.Translation.Z,
				}
				return nil
			},
		},
	}

	pointComponentType := &diffmodel.ComponentType{
		Name:       "Point",
		ClassTag:   pointType,
		Properties: []*diffmodel.Property{labelProperty, positionProperty},
		New:        func() interface{} { return &Point{} },
	}
	lineComponentType := &diffmodel.ComponentType{
		Name:       "Line",
		ClassTag:   lineType,
		Properties: []*diffmodel.Property{transformProperty, startProperty, endProperty},
		New:        func() interface{} { return &Line{} },
	}

	registry := diffmodel.NewComponentTypeRegistry(pointComponentType, lineComponentType)

	unitsProperty := &diffmodel.Property{
		Name:     "Units",
		Kind:     diffmodel.StringKind,
		Accessor: diffmodel.NewPathAccessor("Units"),
	}

	return &diffmodel.ModelType{
		Components: registry,
		Properties: []*diffmodel.Property{unitsProperty},
	}
}

// Tables returns the per-ComponentType Table map for a scene, for use as
// either side of diffmodel.Compare/CompareTables.
func Tables(scene *Scene, registry *diffmodel.ComponentTypeRegistry) map[*diffmodel.ComponentType]diffmodel.Table {
	result := make(map[*diffmodel.ComponentType]diffmodel.Table)
	for _, ct := range registry.All() {
		switch ct.Name {
		case "Point":
			result[ct] = scene.Points
		case "Line":
			result[ct] = scene.Lines
		}
	}
	return result
}

// BindTables points every ComponentType's Table field at scene, so that
// ModelDelta.Apply — which mutates components through ct.Table rather
// than an explicit argument — mutates scene in place. Call this
// immediately before Apply; the schema is otherwise side-free.
func BindTables(registry *diffmodel.ComponentTypeRegistry, scene *Scene) {
	for _, ct := range registry.All() {
		switch ct.Name {
		case "Point":
			ct.Table = scene.Points
		case "Line":
			ct.Table = scene.Lines
		}
	}
}
