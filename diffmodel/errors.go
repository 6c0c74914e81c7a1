package diffmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors that callers can test for with errors.Is. These cover the
// "schema error" and "merge conflict" categories; apply mismatches are
// reported through Session.Warn rather than returned as errors, matching
// unified-patch semantics.
var (
	// ErrUnknownProperty is returned when a property name on a read patch
	// line doesn't exist on the current component or model type.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrUnknownComponentType is returned when a component header names a
	// type the registry doesn't recognize.
	ErrUnknownComponentType = errors.New("unrecognized component type")
	// ErrCyclicDependency is returned when fromDifferences cannot make
	// progress because a property's affectedBy graph has a cycle or a
	// dangling reference.
	ErrCyclicDependency = errors.New("cyclic or unresolved affectedBy dependency")
	// ErrMalformedHeader is returned when a "@@ ... @@" line doesn't match
	// the component header grammar.
	ErrMalformedHeader = errors.New("malformed component header")
	// ErrIncompatibleMerge is returned when two ComponentDeltas can't be
	// merged because they have different classes (addition vs deletion)
	// or different component types at the same id.
	ErrIncompatibleMerge = errors.New("incompatible operations or types")
	// ErrMergeConflict is returned when two PropertyMaps disagree about
	// the value or delta recorded for the same property.
	ErrMergeConflict = errors.New("conflicting property entries")
)

// ParseError wraps any error encountered while reading a patch, recording
// the 1-based line number on which it occurred. The original cause is
// available via errors.Unwrap.
type ParseError struct {
	Line  int
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.cause)
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func wrapParseError(line int, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Line: line, cause: err}
}

// MergeConflictError describes a single property that two sides of a merge
// disagree about.
type MergeConflictError struct {
	Property string
	Left     string
	Right    string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%s for property %s (%s != %s)", ErrMergeConflict, e.Property, e.Left, e.Right)
}

func (e *MergeConflictError) Unwrap() error {
	return ErrMergeConflict
}

// ComponentMergeError describes why two ComponentDeltas could not be merged.
type ComponentMergeError struct {
	ID     string
	Reason string
}

func (e *ComponentMergeError) Error() string {
	return fmt.Sprintf("%s: component %s: %s", ErrIncompatibleMerge, e.ID, e.Reason)
}

func (e *ComponentMergeError) Unwrap() error {
	return ErrIncompatibleMerge
}
