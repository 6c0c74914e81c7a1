package diffmodel

import "github.com/google/uuid"

// Session is the out-of-band diagnostics capability passed through every
// operation that may need to report or ask. The core never logs directly;
// every human-visible message goes through a Session.
type Session interface {
	// Warn reports a recoverable problem and continues.
	Warn(message string)
	// Fatal reports an unrecoverable problem. Implementations are free to
	// terminate the process; the core treats a call to Fatal as the end of
	// the current top-level operation.
	Fatal(message string)
	// Ask presents a yes/no question for interactive resolution (for
	// example, during a three-way merge) and returns the answer. A
	// non-interactive Session should return a deterministic default.
	Ask(question string) bool
	// SetContext decorates subsequent messages with the component type,
	// id, and property currently being processed. Any argument may be the
	// zero value to clear that part of the context.
	SetContext(componentType string, componentID uuid.UUID, propertyName string)
}

// NullSession is a Session that discards warnings, ignores fatal errors,
// and always answers Ask with false. Useful in tests that don't care about
// diagnostics.
type NullSession struct{}

func (NullSession) Warn(string)                                    {}
func (NullSession) Fatal(string)                                   {}
func (NullSession) Ask(string) bool                                { return false }
func (NullSession) SetContext(string, uuid.UUID, string)           {}

// CollectingSession is a Session that records every warning and fatal call,
// for use in tests that need to assert on diagnostics.
type CollectingSession struct {
	Warnings []string
	Fatals   []string
	AskFunc  func(question string) bool

	typeName string
	id       uuid.UUID
	property string
}

func (s *CollectingSession) Warn(message string) {
	s.Warnings = append(s.Warnings, s.decorate(message))
}

func (s *CollectingSession) Fatal(message string) {
	s.Fatals = append(s.Fatals, s.decorate(message))
}

func (s *CollectingSession) Ask(question string) bool {
	if s.AskFunc != nil {
		return s.AskFunc(question)
	}
	return false
}

func (s *CollectingSession) SetContext(componentType string, componentID uuid.UUID, propertyName string) {
	s.typeName = componentType
	s.id = componentID
	s.property = propertyName
}

func (s *CollectingSession) decorate(message string) string {
	if s.typeName == "" {
		return message
	}
	if s.property == "" {
		return s.typeName + " " + s.id.String() + ": " + message
	}
	return s.typeName + " " + s.id.String() + "." + s.property + ": " + message
}
