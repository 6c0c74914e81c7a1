package examplemodel_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/nurbsdiff/nurbsdiff/examplemodel"
)

func TestSceneRoundTripsThroughJSON(t *testing.T) {
	scene := examplemodel.NewScene()
	pointID := "11111111-1111-1111-1111-111111111111"
	require.NoError(t, scene.Points.AddComponent(pointID, &examplemodel.Point{
		Label:    "origin",
		Position: examplemodel.Vector3{X: 1, Y: 2, Z: 3},
	}))

	var buf bytes.Buffer
	require.NoError(t, examplemodel.SaveScene(&buf, scene))

	reloaded, err := examplemodel.LoadScene(&buf)
	require.NoError(t, err)
	require.Equal(t, "millimeters", reloaded.Units)

	component, err := reloaded.Points.GetComponent(pointID)
	require.NoError(t, err)
	point := component.(*examplemodel.Point)
	require.Equal(t, "origin", point.Label)
	require.Equal(t, 3.0, point.Position.Z)
}

func TestLineEffectiveStartAppliesTransform(t *testing.T) {
	line := &examplemodel.Line{
		LocalStart: examplemodel.Vector3{X: 1, Y: 0, Z: 0},
		Transform:  examplemodel.Transform{Translation: examplemodel.Vector3{X: 10, Y: 0, Z: 0}},
	}
	want := examplemodel.Vector3{X: 11, Y: 0, Z: 0}
	if diff := cmp.Diff(want, line.EffectiveStart()); diff != "" {
		t.Errorf("effective start mismatch (-want +got):\n%s", diff)
	}
}
