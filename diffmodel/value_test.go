package diffmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringKindRoundTrip(t *testing.T) {
	v, err := StringKind.New("hello")
	require.NoError(t, err)
	require.Equal(t, `"hello"`, v.String())

	parsed, rest, err := StringKind.ParseValue(`"hello" trailing`)
	require.NoError(t, err)
	require.Equal(t, " trailing", rest)
	require.True(t, v.Equal(parsed))
}

func TestIntegerKindRejectsFraction(t *testing.T) {
	_, _, err := IntegerKind.ParseValue("1.5")
	require.Error(t, err)

	v, rest, err := IntegerKind.ParseValue("42 rest")
	require.NoError(t, err)
	require.Equal(t, " rest", rest)
	require.Equal(t, "42", v.String())
}

func TestUUIDKindAcceptsHyphenatedAndBare(t *testing.T) {
	const canonical = "12345678-1234-1234-1234-123456789abc"
	v1, _, err := UUIDKind.ParseValue(canonical)
	require.NoError(t, err)

	v2, _, err := UUIDKind.ParseValue("123456781234123412341234" + "56789abc")
	require.NoError(t, err)

	require.True(t, v1.Equal(v2))
	require.Equal(t, canonical, v1.String())
}

func TestEnumKindParsesByName(t *testing.T) {
	kind := NewEnumKind("color", map[int]string{0: "Red", 1: "Green", 2: "Blue"})
	v, rest, err := kind.ParseValue("green tail")
	require.NoError(t, err)
	require.Equal(t, " tail", rest)
	require.Equal(t, "Green", v.String())
}

func TestSubstitutionParseAndFormat(t *testing.T) {
	delta, rest, err := ParseSubstitution(StringKind, `"old" -> "new" rest`)
	require.NoError(t, err)
	require.Equal(t, " rest", rest)
	require.Equal(t, `"old" -> "new"`, delta.String())

	reversed := delta.Reverse()
	require.Equal(t, `"new" -> "old"`, reversed.String())
}

func TestSubstitutionApplyWarnsOnMismatch(t *testing.T) {
	older, _ := StringKind.New("expected")
	unexpected, _ := StringKind.New("actually")
	newer, _ := StringKind.New("next")
	sub := &Substitution{Older: older, Newer: newer}

	session := &CollectingSession{}
	result := sub.Apply(unexpected, session)

	require.True(t, result.Equal(newer))
	require.Len(t, session.Warnings, 1)
}
