package diffmodel

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestComponentDeltaForSign(t *testing.T) {
	addition, err := ComponentDeltaForSign('+')
	require.NoError(t, err)
	require.IsType(t, &Addition{}, addition)

	deletion, err := ComponentDeltaForSign('-')
	require.NoError(t, err)
	require.IsType(t, &Deletion{}, deletion)

	modification, err := ComponentDeltaForSign('~')
	require.NoError(t, err)
	require.IsType(t, &Modification{}, modification)

	_, err = ComponentDeltaForSign('?')
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAdditionHeaderStringAndReverse(t *testing.T) {
	ct := &ComponentType{Name: "Point"}
	id := uuid.New()
	props := NewPropertyValueMap()

	addition := &Addition{ComponentType: ct, ID: id, Properties: props}
	require.Equal(t, "@@ +Point "+id.String()+" @@", addition.String())

	reversed := addition.Reverse()
	deletion, ok := reversed.(*Deletion)
	require.True(t, ok)
	require.Equal(t, id, deletion.ID)
}

func TestModificationIsEmptyElidesOutput(t *testing.T) {
	ct := &ComponentType{Name: "Line"}
	m := &Modification{ComponentType: ct, ID: uuid.New(), Properties: NewPropertyDeltaMap()}
	require.True(t, m.IsEmpty())
}

func TestComponentDeltaMergeRejectsMismatchedKind(t *testing.T) {
	ct := &ComponentType{Name: "Point"}
	id := uuid.New()
	addition := &Addition{ComponentType: ct, ID: id, Properties: NewPropertyValueMap()}
	deletion := &Deletion{ComponentType: ct, ID: id, Properties: NewPropertyValueMap()}

	_, err := addition.Merge(deletion)
	require.ErrorIs(t, err, ErrIncompatibleMerge)
}
