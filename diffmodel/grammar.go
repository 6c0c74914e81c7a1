package diffmodel

import (
	"fmt"
	"regexp"
	"time"
)

// indent is the leading whitespace that marks a property line, as
// opposed to a "---"/"+++" file header or an "@@ ... @@" component
// header.
const indent = "\t"

// TimestampFormat is the layout used for the optional timestamp in a
// FileDescription header, matching the original schema's
// "%Y-%m-%d %H:%M:%S.%f %z".
const TimestampFormat = "2006-01-02 15:04:05.000000 -0700"

// FileDescription labels one side of a patch: a human-meaningful label
// (typically a file path) and an optional timestamp. Two
// FileDescriptions appear at the top of every patch, as "--- older" and
// "+++ newer".
type FileDescription struct {
	Label     string
	Timestamp time.Time
	HasTime   bool
}

// NewFileDescription builds a FileDescription with no timestamp.
func NewFileDescription(label string) FileDescription {
	return FileDescription{Label: label}
}

// NewTimestampedFileDescription builds a FileDescription with a
// timestamp, written in the patch header alongside the label.
func NewTimestampedFileDescription(label string, at time.Time) FileDescription {
	return FileDescription{Label: label, Timestamp: at, HasTime: true}
}

func (f FileDescription) String() string {
	if !f.HasTime {
		return f.Label
	}
	return f.Label + " " + f.Timestamp.Format(TimestampFormat)
}

// Relabel returns a copy of f with a different label, keeping its
// timestamp. Used when writing a patch against a different nominal file
// name than the one the model was read from.
func (f FileDescription) Relabel(label string) FileDescription {
	f.Label = label
	return f
}

var (
	olderHeaderPattern = regexp.MustCompile(`^--- (.+)$`)
	newerHeaderPattern = regexp.MustCompile(`^\+\+\+ (.+)$`)
	// componentHeaderPattern matches "@@ <sign><TypeName> <id> @@", with
	// the trailing "@@" optional for tolerance of hand-edited patches.
	componentHeaderPattern = regexp.MustCompile(`^@@\s+([-+~])(\w+)\s+([0-9a-fA-F-]+)\s*(?:@@)?\s*$`)
	// propertyLinePattern matches an indented "Name: content" line.
	propertyLinePattern = regexp.MustCompile(`^` + indent + `([^:]+): (.*)$`)
	// fileLabelAndTimePattern splits a header's remainder into its label
	// and an optional trailing timestamp, anchored on the timestamp's own
	// shape (matching the original schema's PARSE_PATTERN) rather than on
	// whatever whitespace separates them, so both a space- and a
	// tab-delimited header parse the same way.
	fileLabelAndTimePattern = regexp.MustCompile(`^(.*?)(?:\s+(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+ [+-]\d{4}))?$`)
)

// parseFileDescription parses one "--- " or "+++ " header line's
// remainder (with the prefix already stripped) into a FileDescription,
// splitting off an optional whitespace-delimited timestamp.
func parseFileDescription(rest string) (FileDescription, error) {
	match := fileLabelAndTimePattern.FindStringSubmatch(rest)
	if match == nil {
		return FileDescription{}, fmt.Errorf("malformed file header %q", rest)
	}
	if match[2] == "" {
		return NewFileDescription(match[1]), nil
	}
	at, err := time.Parse(TimestampFormat, match[2])
	if err != nil {
		return FileDescription{}, fmt.Errorf("malformed timestamp %q: %w", match[2], err)
	}
	return NewTimestampedFileDescription(match[1], at), nil
}

// parseComponentHeader parses a "@@ <sign><TypeName> <id> @@" line into
// its sign, type name, and raw id text.
func parseComponentHeader(line string) (sign rune, typeName string, rawID string, err error) {
	match := componentHeaderPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, "", "", fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}
	return rune(match[1][0]), match[2], match[3], nil
}

// parsePropertyLine splits an indented property line into its name and
// unparsed content.
func parsePropertyLine(line string) (name string, content string, ok bool) {
	match := propertyLinePattern.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}
