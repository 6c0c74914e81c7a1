package examplemodel

import (
	"encoding/json"
	"fmt"
	"io"
)

type sceneDocument struct {
	Units  string         `json:"units"`
	Points []pointDocument `json:"points"`
	Lines  []lineDocument  `json:"lines"`
}

type pointDocument struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Position Vector3 `json:"position"`
}

type lineDocument struct {
	ID         string  `json:"id"`
	LocalStart Vector3 `json:"localStart"`
	Transform  Vector3 `json:"transform"`
	End        Vector3 `json:"end"`
}

// LoadScene reads a scene from its JSON document form.
func LoadScene(r io.Reader) (*Scene, error) {
	var doc sceneDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}

	scene := NewScene()
	scene.Units = doc.Units

	for _, p := range doc.Points {
		if err := scene.Points.AddComponent(p.ID, &Point{Label: p.Label, Position: p.Position}); err != nil {
			return nil, fmt.Errorf("loading point %s: %w", p.ID, err)
		}
	}
	for _, l := range doc.Lines {
		if err := scene.Lines.AddComponent(l.ID, &Line{
			LocalStart: l.LocalStart,
			Transform:  Transform{Translation: l.Transform},
			End:        l.End,
		}); err != nil {
			return nil, fmt.Errorf("loading line %s: %w", l.ID, err)
		}
	}
	return scene, nil
}

// SaveScene writes a scene to its JSON document form.
func SaveScene(w io.Writer, scene *Scene) error {
	doc := sceneDocument{Units: scene.Units}
	for _, e := range scene.Points.AllComponents() {
		p := e.Component.(*Point)
		doc.Points = append(doc.Points, pointDocument{ID: e.ID.String(), Label: p.Label, Position: p.Position})
	}
	for _, e := range scene.Lines.AllComponents() {
		l := e.Component.(*Line)
		doc.Lines = append(doc.Lines, lineDocument{
			ID:         e.ID.String(),
			LocalStart: l.LocalStart,
			Transform:  l.Transform.Translation,
			End:        l.End,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
