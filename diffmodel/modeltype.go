package diffmodel

import "strings"

// ModelType is the top-level schema of a model: its component types plus
// any properties that live on the model itself rather than on a
// component (for example, a scene's units or a document's default
// tolerance).
type ModelType struct {
	Components *ComponentTypeRegistry
	Properties []*Property
}

// PropertyByName looks up a model-level property by its case-folded name.
func (t *ModelType) PropertyByName(name string) (*Property, error) {
	folded := strings.ToLower(name)
	for _, p := range t.Properties {
		if p.NameFold() == folded {
			return p, nil
		}
	}
	return nil, ErrUnknownProperty
}
