package examplemodel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nurbsdiff/nurbsdiff/diffmodel"
)

// vectorLiteralPattern matches this package's textual form for a
// Vector3: "{X, Y, Z}" with each component as written by %g (a decimal,
// or exponent notation such as 1e+06 for very large or small values).
// It's a private convention of this adapter, not part of the core patch
// grammar (which only fixes the property-line and substitution
// delimiters, not what a value kind's own content looks like).
var vectorLiteralPattern = regexp.MustCompile(`^\s*\{\s*(-?\d+(?:\.\d+)?(?:e[-+]\d+)?)\s*,\s*(-?\d+(?:\.\d+)?(?:e[-+]\d+)?)\s*,\s*(-?\d+(?:\.\d+)?(?:e[-+]\d+)?)\s*\}`)

func parseVectorLiteral(input string) (Vector3, string, error) {
	match := vectorLiteralPattern.FindStringSubmatchIndex(input)
	if match == nil {
		return Vector3{}, input, fmt.Errorf("%q is not a valid vector literal", input)
	}
	x, _ := strconv.ParseFloat(input[match[2]:match[3]], 64)
	y, _ := strconv.ParseFloat(input[match[4]:match[5]], 64)
	z, _ := strconv.ParseFloat(input[match[6]:match[7]], 64)
	return Vector3{X: x, Y: y, Z: z}, input[match[1]:], nil
}

func trimArrow(input string) string {
	rest := strings.TrimLeft(input, " \t")
	rest = strings.TrimPrefix(rest, "->")
	return strings.TrimLeft(rest, " \t")
}

// VectorKind is the diffmodel.ValueKind for a plain Vector3-valued
// property (a point or offset with no further structure): its diff is
// the default flat Substitution, per value.go's baseline.
var VectorKind diffmodel.ValueKind = vectorKind{}

type vectorKind struct{}

type vectorValue struct{ v Vector3 }

func (v vectorValue) String() string {
	return fmt.Sprintf("{%g, %g, %g}", v.v.X, v.v.Y, v.v.Z)
}
func (v vectorValue) Raw() interface{} { return v.v }
func (v vectorValue) Equal(other diffmodel.Value) bool {
	o, ok := other.(vectorValue)
	return ok && v.v == o.v
}
func (v vectorValue) Diff(newer diffmodel.Value) diffmodel.Delta {
	return &diffmodel.Substitution{Older: v, Newer: newer}
}

func asVector3(raw interface{}) (Vector3, error) {
	switch v := raw.(type) {
	case Vector3:
		return v, nil
	case map[string]interface{}:
		x, _ := numberField(v, "x")
		y, _ := numberField(v, "y")
		z, _ := numberField(v, "z")
		return Vector3{X: x, Y: y, Z: z}, nil
	default:
		return Vector3{}, fmt.Errorf("%v is not a vector", raw)
	}
}

func (vectorKind) New(raw interface{}) (diffmodel.Value, error) {
	v, err := asVector3(raw)
	if err != nil {
		return nil, err
	}
	return vectorValue{v: v}, nil
}

func (vectorKind) ParseValue(input string) (diffmodel.Value, string, error) {
	v, rest, err := parseVectorLiteral(input)
	if err != nil {
		return nil, input, err
	}
	return vectorValue{v: v}, rest, nil
}

func (k vectorKind) ParseDelta(input string) (diffmodel.Delta, string, error) {
	return diffmodel.ParseSubstitution(k, input)
}

// TransformKind is the diffmodel.ValueKind for the Transform property: it
// overrides Diff to produce a TranslationDelta rather than a flat
// Substitution, because a transform's change can be meaningfully applied
// to any point value that the transform affects (see TranslationDelta and
// Line.Start's affectedBy dependency on Transform in schema.go).
var TransformKind diffmodel.ValueKind = transformKind{}

type transformKind struct{}

type transformValue struct{ v Vector3 }

func (v transformValue) String() string {
	return fmt.Sprintf("{%g, %g, %g}", v.v.X, v.v.Y, v.v.Z)
}
func (v transformValue) Raw() interface{} { return v.v }
func (v transformValue) Equal(other diffmodel.Value) bool {
	o, ok := other.(transformValue)
	return ok && v.v == o.v
}
func (v transformValue) Diff(newer diffmodel.Value) diffmodel.Delta {
	return &TranslationDelta{Older: v.v, Newer: newer.(transformValue).v}
}

func (transformKind) New(raw interface{}) (diffmodel.Value, error) {
	v, err := asVector3(raw)
	if err != nil {
		return nil, err
	}
	return transformValue{v: v}, nil
}

func (transformKind) ParseValue(input string) (diffmodel.Value, string, error) {
	v, rest, err := parseVectorLiteral(input)
	if err != nil {
		return nil, input, err
	}
	return transformValue{v: v}, rest, nil
}

func (k transformKind) ParseDelta(input string) (diffmodel.Delta, string, error) {
	older, rest, err := parseVectorLiteral(input)
	if err != nil {
		return nil, input, fmt.Errorf("parsing older translation: %w", err)
	}
	rest = trimArrow(rest)
	newer, rest, err := parseVectorLiteral(rest)
	if err != nil {
		return nil, input, fmt.Errorf("parsing newer translation: %w", err)
	}
	return &TranslationDelta{Older: older, Newer: newer}, rest, nil
}

// TranslationDelta is the richer, structural delta for a Transform
// property change: the (older, newer) translation. Unlike Substitution,
// whose Apply discards whatever current value it's given and returns its
// own newer value outright, TranslationDelta.Apply carries its
// (newer-older) offset onto whatever point-valued current it's handed.
// This is what lets PropertyDeltaMap.FromDifferences resolve a dependent
// property (Line.Start) to nothing when the dependent's entire apparent
// change is explained by the transform alone, and to a residual
// Substitution when it moved independently too.
type TranslationDelta struct {
	Older, Newer Vector3
}

func (d *TranslationDelta) offset() Vector3 {
	return Vector3{X: d.Newer.X - d.Older.X, Y: d.Newer.Y - d.Older.Y, Z: d.Newer.Z - d.Older.Z}
}

func (d *TranslationDelta) String() string {
	return fmt.Sprintf("{%g, %g, %g} -> {%g, %g, %g}", d.Older.X, d.Older.Y, d.Older.Z, d.Newer.X, d.Newer.Y, d.Newer.Z)
}

// Apply translates current's underlying point by this delta's
// (newer-older) offset, regardless of current's concrete Value kind, as
// long as it carries a Vector3-shaped raw datum (vectorValue or
// map[string]interface{} with x/y/z, as produced by a JSON-document
// accessor).
func (d *TranslationDelta) Apply(current diffmodel.Value, session diffmodel.Session) diffmodel.Value {
	if current == nil {
		return vectorValue{v: d.Newer}
	}
	v, err := asVector3(current.Raw())
	if err != nil {
		session.Warn(fmt.Sprintf("applying translation to non-vector value: %v", err))
		return current
	}
	off := d.offset()
	return vectorValue{v: Vector3{X: v.X + off.X, Y: v.Y + off.Y, Z: v.Z + off.Z}}
}

func (d *TranslationDelta) Reverse() diffmodel.Delta {
	return &TranslationDelta{Older: d.Newer, Newer: d.Older}
}

func (d *TranslationDelta) Equal(other diffmodel.Delta) bool {
	o, ok := other.(*TranslationDelta)
	return ok && d.Older == o.Older && d.Newer == o.Newer
}
