package diffmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Value holds a piece of information read from, or assignable to, a
// component or model property. Values know how to format themselves, how
// to compare themselves for equality, how to hand their underlying datum
// back to an Accessor, and how to diff themselves against a newer Value of
// the same kind.
type Value interface {
	fmt.Stringer
	// Equal reports whether this value is the same as another value of the
	// same kind.
	Equal(other Value) bool
	// Raw returns the underlying datum, suitable for passing to
	// Accessor.Set.
	Raw() interface{}
	// Diff returns the Delta that transforms this value into newer. The
	// default behavior (see Substitution) is a plain replacement; value
	// kinds with a richer structural delta override this.
	Diff(newer Value) Delta
}

// ValueKind describes a family of Values: how to wrap a raw datum coming
// out of an Accessor, and how to parse a Value or a Delta from the
// beginning of a patch line. ParseValue and ParseDelta are prefix parsers:
// they consume only the textual representation of the thing they parse and
// return whatever follows.
type ValueKind interface {
	// New wraps a raw datum (as returned by an Accessor) into a Value of
	// this kind.
	New(raw interface{}) (Value, error)
	// ParseValue parses a Value of this kind from the start of input,
	// returning the value and the unconsumed remainder.
	ParseValue(input string) (Value, string, error)
	// ParseDelta parses a Delta of this kind from the start of input. The
	// default kinds implement this with ParseSubstitution.
	ParseDelta(input string) (Delta, string, error)
}

// ParseSubstitution is the shared ParseDelta implementation for value kinds
// whose delta kind is a plain Substitution: OLDER -> NEWER, using the
// kind's own ParseValue for each side. Surrounding whitespace around the
// "->" delimiter is consumed here, never by the value parser.
func ParseSubstitution(kind ValueKind, input string) (Delta, string, error) {
	older, rest, err := kind.ParseValue(input)
	if err != nil {
		return nil, input, fmt.Errorf("parsing older value of substitution: %w", err)
	}
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, substitutionDelimiter)
	rest = strings.TrimLeft(rest, " \t")
	newer, rest, err := kind.ParseValue(rest)
	if err != nil {
		return nil, input, fmt.Errorf("parsing newer value of substitution: %w", err)
	}
	return &Substitution{Older: older, Newer: newer}, rest, nil
}

// -----------------------------------------------------------------------
// JSON-encodeable scalar kinds: boolean, integer, float, string.
// -----------------------------------------------------------------------

// jsonScalarKind implements ValueKind for a scalar JSON type (bool, float64,
// string), mirroring the original's JSONEncodeableValue: format/parse goes
// through encoding/json so textual representations match Go/JSON
// conventions (quoted strings, bare numbers and booleans).
type jsonScalarKind struct {
	label   string
	newRaw  func(raw interface{}) (interface{}, error)
	isKind  func(v interface{}) bool
}

type jsonScalarValue struct {
	kind *jsonScalarKind
	raw  interface{}
}

func (v *jsonScalarValue) String() string {
	b, _ := json.Marshal(v.raw)
	return string(b)
}

func (v *jsonScalarValue) Equal(other Value) bool {
	o, ok := other.(*jsonScalarValue)
	if !ok {
		return false
	}
	return v.raw == o.raw
}

func (v *jsonScalarValue) Raw() interface{} { return v.raw }

func (v *jsonScalarValue) Diff(newer Value) Delta {
	return &Substitution{Older: v, Newer: newer}
}

func (k *jsonScalarKind) New(raw interface{}) (Value, error) {
	wrapped, err := k.newRaw(raw)
	if err != nil {
		return nil, err
	}
	return &jsonScalarValue{kind: k, raw: wrapped}, nil
}

func (k *jsonScalarKind) ParseValue(input string) (Value, string, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, input, fmt.Errorf("%q is not a valid %s: %w", input, k.label, err)
	}
	if !k.isKind(raw) {
		return nil, input, fmt.Errorf("%q is not a valid %s", input, k.label)
	}
	consumed := int(dec.InputOffset())
	return &jsonScalarValue{kind: k, raw: raw}, input[consumed:], nil
}

func (k *jsonScalarKind) ParseDelta(input string) (Delta, string, error) {
	return ParseSubstitution(k, input)
}

// BooleanKind is the ValueKind for bool-typed properties.
var BooleanKind ValueKind = &jsonScalarKind{
	label:  "boolean",
	newRaw: func(raw interface{}) (interface{}, error) { return asBool(raw) },
	isKind: func(v interface{}) bool { _, ok := v.(bool); return ok },
}

// FloatKind is the ValueKind for float64-typed properties.
var FloatKind ValueKind = &jsonScalarKind{
	label:  "float",
	newRaw: func(raw interface{}) (interface{}, error) { return asFloat(raw) },
	isKind: func(v interface{}) bool { _, ok := v.(float64); return ok },
}

// IntegerKind is the ValueKind for int-typed properties. Textually an
// integer is indistinguishable from a float with no fractional part, so
// parsing accepts any JSON number whose value has no fractional part
// ("2.0" and "1e3" parse as integers; "1.5" does not).
var IntegerKind ValueKind = &jsonScalarKind{
	label: "integer",
	newRaw: func(raw interface{}) (interface{}, error) {
		switch n := raw.(type) {
		case int:
			return float64(n), nil
		case float64:
			return n, nil
		default:
			return nil, fmt.Errorf("%v is not an integer", raw)
		}
	},
	isKind: func(v interface{}) bool {
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	},
}

// StringKind is the ValueKind for string-typed properties.
var StringKind ValueKind = &jsonScalarKind{
	label:  "string",
	newRaw: func(raw interface{}) (interface{}, error) { return asString(raw) },
	isKind: func(v interface{}) bool { _, ok := v.(string); return ok },
}

func asBool(raw interface{}) (interface{}, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%v is not a boolean", raw)
}

func asFloat(raw interface{}) (interface{}, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return nil, fmt.Errorf("%v is not a float", raw)
	}
}

func asString(raw interface{}) (interface{}, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%v is not a string", raw)
}

// -----------------------------------------------------------------------
// UUID-valued properties.
// -----------------------------------------------------------------------

var uuidPattern = regexp.MustCompile(`(?i)^\s*([0-9a-f]{8}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{12})`)

type uuidKind struct{}

// UUIDKind is the ValueKind for UUID-typed properties. It accepts ids with
// or without hyphens and always formats canonically.
var UUIDKind ValueKind = uuidKind{}

type uuidValue struct{ id uuid.UUID }

func (v uuidValue) String() string         { return v.id.String() }
func (v uuidValue) Raw() interface{}       { return v.id }
func (v uuidValue) Equal(other Value) bool {
	o, ok := other.(uuidValue)
	return ok && v.id == o.id
}
func (v uuidValue) Diff(newer Value) Delta { return &Substitution{Older: v, Newer: newer} }

func (uuidKind) New(raw interface{}) (Value, error) {
	switch id := raw.(type) {
	case uuid.UUID:
		return uuidValue{id}, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", id, err)
		}
		return uuidValue{parsed}, nil
	default:
		return nil, fmt.Errorf("%v is not a uuid", raw)
	}
}

func (uuidKind) ParseValue(input string) (Value, string, error) {
	match := uuidPattern.FindStringSubmatchIndex(input)
	if match == nil {
		return nil, input, fmt.Errorf("%q is not a valid uuid", input)
	}
	raw := input[match[2]:match[3]]
	hex := strings.ReplaceAll(raw, "-", "")
	canonical := hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:32]
	id, err := uuid.Parse(canonical)
	if err != nil {
		return nil, input, fmt.Errorf("invalid uuid %q: %w", raw, err)
	}
	return uuidValue{id}, input[match[1]:], nil
}

func (uuidKind) ParseDelta(input string) (Delta, string, error) {
	return ParseSubstitution(UUIDKind, input)
}

// -----------------------------------------------------------------------
// Enumerated values.
// -----------------------------------------------------------------------

// EnumKind is a ValueKind that maps members of a small enumeration to
// their textual representations, mirroring EnumeratedValue in the
// original schema.
type EnumKind struct {
	Label        string
	namesByValue map[int]string
	valuesByName map[string]int
}

// NewEnumKind builds an EnumKind from a value->name translation table.
func NewEnumKind(label string, table map[int]string) *EnumKind {
	valuesByName := make(map[string]int, len(table))
	for value, name := range table {
		valuesByName[strings.ToLower(name)] = value
	}
	return &EnumKind{Label: label, namesByValue: table, valuesByName: valuesByName}
}

type enumValue struct {
	kind  *EnumKind
	value int
}

func (v enumValue) String() string         { return v.kind.namesByValue[v.value] }
func (v enumValue) Raw() interface{}       { return v.value }
func (v enumValue) Equal(other Value) bool {
	o, ok := other.(enumValue)
	return ok && v.value == o.value
}
func (v enumValue) Diff(newer Value) Delta { return &Substitution{Older: v, Newer: newer} }

func (k *EnumKind) New(raw interface{}) (Value, error) {
	switch n := raw.(type) {
	case int:
		if _, ok := k.namesByValue[n]; !ok {
			return nil, fmt.Errorf("%d is not a valid %s", n, k.Label)
		}
		return enumValue{kind: k, value: n}, nil
	default:
		return nil, fmt.Errorf("%v is not a valid %s", raw, k.Label)
	}
}

var enumTokenPattern = regexp.MustCompile(`^\s*(\w+)`)

func (k *EnumKind) ParseValue(input string) (Value, string, error) {
	match := enumTokenPattern.FindStringSubmatchIndex(input)
	if match == nil {
		return nil, input, fmt.Errorf("unable to parse token from %q", input)
	}
	token := input[match[2]:match[3]]
	value, ok := k.valuesByName[strings.ToLower(token)]
	if !ok {
		return nil, input, fmt.Errorf("%s is not a valid %s", token, k.Label)
	}
	return enumValue{kind: k, value: value}, input[match[1]:], nil
}

func (k *EnumKind) ParseDelta(input string) (Delta, string, error) {
	return ParseSubstitution(k, input)
}

// -----------------------------------------------------------------------
// Generic JSON document values (objects/arrays), used for properties whose
// domain datum is an arbitrary JSON-encodeable structure rather than a
// single scalar.
// -----------------------------------------------------------------------

type jsonDocumentKind struct{ label string }

// JSONDocumentKind is the ValueKind for properties whose value is an
// arbitrary JSON document (map or slice), formatted compactly.
var JSONDocumentKind ValueKind = jsonDocumentKind{label: "document"}

type jsonDocumentValue struct{ raw interface{} }

func (v jsonDocumentValue) String() string {
	b, _ := json.Marshal(v.raw)
	return string(b)
}
func (v jsonDocumentValue) Raw() interface{} { return v.raw }
func (v jsonDocumentValue) Equal(other Value) bool {
	o, ok := other.(jsonDocumentValue)
	if !ok {
		return false
	}
	a, _ := json.Marshal(v.raw)
	b, _ := json.Marshal(o.raw)
	return bytes.Equal(a, b)
}
func (v jsonDocumentValue) Diff(newer Value) Delta { return &Substitution{Older: v, Newer: newer} }

func (k jsonDocumentKind) New(raw interface{}) (Value, error) {
	return jsonDocumentValue{raw: raw}, nil
}

func (k jsonDocumentKind) ParseValue(input string) (Value, string, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, input, fmt.Errorf("%q is not a valid %s: %w", input, k.label, err)
	}
	consumed := int(dec.InputOffset())
	return jsonDocumentValue{raw: raw}, input[consumed:], nil
}

func (k jsonDocumentKind) ParseDelta(input string) (Delta, string, error) {
	return ParseSubstitution(k, input)
}

const substitutionDelimiter = "->"
