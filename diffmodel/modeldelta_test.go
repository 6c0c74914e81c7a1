package diffmodel_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/examplemodel"
)

func newScenesWithOneLine(t *testing.T) (*examplemodel.Scene, *examplemodel.Scene, uuid.UUID) {
	t.Helper()
	id := uuid.New()

	older := examplemodel.NewScene()
	require.NoError(t, older.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))

	newer := examplemodel.NewScene()
	require.NoError(t, newer.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{X: 10, Y: 0, Z: 0}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))

	return older, newer, id
}

func TestCompareResolvesAffectedByDependency(t *testing.T) {
	modelType := examplemodel.NewSchema()
	older, newer, id := newScenesWithOneLine(t)

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)
	require.Len(t, delta.Modifications, 1)

	mod := delta.Modifications[0]
	require.Equal(t, id, mod.ID)

	lineType, err := modelType.Components.FindByName("Line")
	require.NoError(t, err)
	var startProperty, transformProperty *diffmodel.Property
	for _, p := range lineType.Properties {
		switch p.Name {
		case "Start":
			startProperty = p
		case "Transform":
			transformProperty = p
		}
	}
	require.NotNil(t, startProperty)
	require.NotNil(t, transformProperty)

	_, hasTransform := mod.Properties.Get(transformProperty)
	_, hasStart := mod.Properties.Get(startProperty)
	require.True(t, hasTransform, "transform should have changed")
	require.False(t, hasStart, "start's entire apparent change is explained by the transform and should not appear")
}

func TestCompareKeepsStartResidualWhenMovedIndependently(t *testing.T) {
	modelType := examplemodel.NewSchema()
	id := uuid.New()

	older := examplemodel.NewScene()
	require.NoError(t, older.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))

	newer := examplemodel.NewScene()
	require.NoError(t, newer.Lines.AddComponent(id.String(), &examplemodel.Line{
		// Transform moves by (10, 0, 0) and LocalStart also moves
		// independently by (0, 1, 0): the residual after subtracting the
		// transform's contribution should still show up on Start.
		LocalStart: examplemodel.Vector3{X: 1, Y: 1, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{X: 10, Y: 0, Z: 0}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)
	require.Len(t, delta.Modifications, 1)

	lineType, err := modelType.Components.FindByName("Line")
	require.NoError(t, err)
	var startProperty, transformProperty *diffmodel.Property
	for _, p := range lineType.Properties {
		switch p.Name {
		case "Start":
			startProperty = p
		case "Transform":
			transformProperty = p
		}
	}

	mod := delta.Modifications[0]
	_, hasTransform := mod.Properties.Get(transformProperty)
	startDelta, hasStart := mod.Properties.Get(startProperty)
	require.True(t, hasTransform, "transform should have changed")
	require.True(t, hasStart, "start moved independently of the transform and its residual should appear")
	require.Equal(t, "{11, 0, 0} -> {11, 1, 0}", startDelta.String())
}

func TestCompareOfIdenticalScenesHasNoDifferences(t *testing.T) {
	modelType := examplemodel.NewSchema()
	id := uuid.New()

	line := &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}
	older := examplemodel.NewScene()
	require.NoError(t, older.Lines.AddComponent(id.String(), line))
	newer := examplemodel.NewScene()
	require.NoError(t, newer.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: line.LocalStart,
		Transform:  line.Transform,
		End:        line.End,
	}))

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)
	require.Empty(t, delta.Additions)
	require.Empty(t, delta.Modifications)
	require.Empty(t, delta.Deletions)
	require.False(t, delta.HasDifferences())
}

func TestWriteReadRoundTrip(t *testing.T) {
	modelType := examplemodel.NewSchema()
	older, newer, _ := newScenesWithOneLine(t)

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, delta.Write(&buf))
	require.Contains(t, buf.String(), "--- older.scene")
	require.Contains(t, buf.String(), "+++ newer.scene")
	require.Contains(t, buf.String(), "@@ ~Line ")

	reread, err := diffmodel.Read(&buf, modelType)
	require.NoError(t, err)
	require.Len(t, reread.Modifications, 1)
	require.Equal(t, delta.Modifications[0].ID, reread.Modifications[0].ID)
}

func TestApplyMutatesTargetScene(t *testing.T) {
	modelType := examplemodel.NewSchema()
	older, newer, id := newScenesWithOneLine(t)

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)

	target := examplemodel.NewScene()
	require.NoError(t, target.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))
	examplemodel.BindTables(modelType.Components, target)

	require.NoError(t, delta.Apply(target, diffmodel.NullSession{}))

	line, err := target.Lines.GetComponent(id.String())
	require.NoError(t, err)
	l := line.(*examplemodel.Line)
	require.Equal(t, 10.0, l.Transform.Translation.X)
}

func TestReverseUndoesModification(t *testing.T) {
	modelType := examplemodel.NewSchema()
	older, newer, _ := newScenesWithOneLine(t)

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.scene"),
		diffmodel.NewFileDescription("newer.scene"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	require.NoError(t, err)

	reversed := delta.Reverse()
	require.Equal(t, "newer.scene", reversed.Older.Label)
	require.Equal(t, "older.scene", reversed.Newer.Label)
	require.Len(t, reversed.Modifications, 1)
}

func TestMergeConflictingModifications(t *testing.T) {
	modelType := examplemodel.NewSchema()
	base, branchA, id := newScenesWithOneLine(t)
	branchB := examplemodel.NewScene()
	require.NoError(t, branchB.Lines.AddComponent(id.String(), &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{X: 0, Y: 20, Z: 0}},
		End:        examplemodel.Vector3{X: 5, Y: 0, Z: 0},
	}))

	deltaA, err := diffmodel.Compare(modelType,
		diffmodel.NewFileDescription("base"), diffmodel.NewFileDescription("a"),
		base, branchA,
		examplemodel.Tables(base, modelType.Components), examplemodel.Tables(branchA, modelType.Components),
		diffmodel.NullSession{})
	require.NoError(t, err)

	deltaB, err := diffmodel.Compare(modelType,
		diffmodel.NewFileDescription("base"), diffmodel.NewFileDescription("b"),
		base, branchB,
		examplemodel.Tables(base, modelType.Components), examplemodel.Tables(branchB, modelType.Components),
		diffmodel.NullSession{})
	require.NoError(t, err)

	_, err = deltaA.Merge(deltaB)
	require.Error(t, err)
}
