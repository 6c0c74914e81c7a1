package diffmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type innerThing struct {
	Value int
}

type outerThing struct {
	Inner innerThing
	Name  string
}

func TestPathAccessorNestedField(t *testing.T) {
	host := &outerThing{Inner: innerThing{Value: 7}, Name: "a"}
	accessor := NewPathAccessor("Inner.Value")

	got, err := accessor.Get(host)
	require.NoError(t, err)
	require.Equal(t, 7, got)

	require.NoError(t, accessor.Set(host, 42))
	require.Equal(t, 42, host.Inner.Value)
}

func TestPathAccessorTopLevelField(t *testing.T) {
	host := &outerThing{Name: "a"}
	accessor := NewPathAccessor("Name")

	require.NoError(t, accessor.Set(host, "b"))
	got, err := accessor.Get(host)
	require.NoError(t, err)
	require.Equal(t, "b", got)
}

func TestFunctionalAccessorReadOnly(t *testing.T) {
	accessor := FunctionalAccessor{
		Getter: func(host interface{}) (interface{}, error) { return host.(*outerThing).Name, nil },
	}
	err := accessor.Set(&outerThing{}, "x")
	require.Error(t, err)
}

type fakeTable struct {
	components map[string]interface{}
}

func (t *fakeTable) GetComponent(id string) (interface{}, error) {
	c, ok := t.components[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}
func (t *fakeTable) AllComponents() []TableEntry { return nil }
func (t *fakeTable) AddComponent(id string, component interface{}) error {
	t.components[id] = component
	return nil
}
func (t *fakeTable) DeleteComponent(id string) error {
	delete(t.components, id)
	return nil
}

func TestIndexAccessorValidatesReference(t *testing.T) {
	table := &fakeTable{components: map[string]interface{}{"known": "component"}}
	accessor := IndexAccessor{
		Field: FunctionalAccessor{
			Setter: func(host interface{}, value interface{}) error { return nil },
		},
		Table: table,
	}
	require.NoError(t, accessor.Set(&outerThing{}, "known"))
	require.Error(t, accessor.Set(&outerThing{}, "unknown"))
}
