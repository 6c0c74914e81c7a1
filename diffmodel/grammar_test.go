package diffmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileDescriptionStringNoTimestamp(t *testing.T) {
	f := NewFileDescription("scene.json")
	require.Equal(t, "scene.json", f.String())
}

func TestFileDescriptionStringWithTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	f := NewTimestampedFileDescription("scene.json", at)
	require.Contains(t, f.String(), "scene.json 2024-03-01")
}

func TestParseFileDescriptionRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	original := NewTimestampedFileDescription("scene.json", at)

	// strip the "--- "/"+++ " prefix the way Read does
	parsed, err := parseFileDescription(original.String())
	require.NoError(t, err)
	require.Equal(t, "scene.json", parsed.Label)
	require.True(t, parsed.Timestamp.Equal(at))
}

func TestParseFileDescriptionAcceptsSpaceDelimitedTimestamp(t *testing.T) {
	parsed, err := parseFileDescription("scene.json 2002-02-21 23:30:39.942229 -0800")
	require.NoError(t, err)
	require.Equal(t, "scene.json", parsed.Label)
	require.True(t, parsed.HasTime)

	at, err := time.Parse(TimestampFormat, "2002-02-21 23:30:39.942229 -0800")
	require.NoError(t, err)
	require.True(t, parsed.Timestamp.Equal(at))
}

func TestParseFileDescriptionAcceptsSpaceInLabel(t *testing.T) {
	parsed, err := parseFileDescription("my scene.json")
	require.NoError(t, err)
	require.Equal(t, "my scene.json", parsed.Label)
	require.False(t, parsed.HasTime)
}

func TestParseComponentHeader(t *testing.T) {
	sign, typeName, rawID, err := parseComponentHeader("@@ ~Line 12345678-1234-1234-1234-123456789abc @@")
	require.NoError(t, err)
	require.Equal(t, '~', sign)
	require.Equal(t, "Line", typeName)
	require.Equal(t, "12345678-1234-1234-1234-123456789abc", rawID)
}

func TestParseComponentHeaderRejectsMalformed(t *testing.T) {
	_, _, _, err := parseComponentHeader("not a header")
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestParsePropertyLine(t *testing.T) {
	name, content, ok := parsePropertyLine(indent + "Offset: 1 -> 2")
	require.True(t, ok)
	require.Equal(t, "Offset", name)
	require.Equal(t, "1 -> 2", content)
}

func TestParsePropertyLineRejectsUnindented(t *testing.T) {
	_, _, ok := parsePropertyLine("Offset: 1 -> 2")
	require.False(t, ok)
}
