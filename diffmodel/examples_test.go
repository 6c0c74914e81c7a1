package diffmodel_test

import (
	"bytes"
	"fmt"

	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/examplemodel"
)

// ExampleCompare shows a minimal compare/write round trip: a point's
// label changes between two scenes, and the resulting patch is printed.
func ExampleCompare() {
	modelType := examplemodel.NewSchema()

	id := "11111111-1111-1111-1111-111111111111"
	older := examplemodel.NewScene()
	older.Points.AddComponent(id, &examplemodel.Point{Label: "a"})

	newer := examplemodel.NewScene()
	newer.Points.AddComponent(id, &examplemodel.Point{Label: "b"})

	delta, err := diffmodel.Compare(
		modelType,
		diffmodel.NewFileDescription("older.json"),
		diffmodel.NewFileDescription("newer.json"),
		older, newer,
		examplemodel.Tables(older, modelType.Components),
		examplemodel.Tables(newer, modelType.Components),
		diffmodel.NullSession{},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	var buf bytes.Buffer
	if err := delta.Write(&buf); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// --- older.json
	// +++ newer.json
	// @@ ~Point 11111111-1111-1111-1111-111111111111 @@
	// 	Label: "a" -> "b"
}
