// Package cli provides the two diffmodel.Session implementations the
// nurbsdiff command line actually runs with: a plain logging session for
// non-interactive use (scripts, CI) and an interactive one that prompts
// through a terminal form when stdout is a tty.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/nurbsdiff/nurbsdiff/diffmodel"
	"github.com/nurbsdiff/nurbsdiff/internal/obslog"
)

// LogSession reports warnings and fatal errors through obslog and
// stderr, and answers Ask with a fixed default — the non-interactive
// Session used whenever stdout isn't a terminal, or the user passed
// --interactive=false.
type LogSession struct {
	DefaultAnswer bool

	typeName string
	id       uuid.UUID
	property string
}

func (s *LogSession) Warn(message string) {
	obslog.WithFields(s.fields()).Warn(message)
}

func (s *LogSession) Fatal(message string) {
	obslog.WithFields(s.fields()).Error(message)
	fmt.Fprintln(os.Stderr, "nurbsdiff: "+message)
}

func (s *LogSession) Ask(question string) bool {
	obslog.WithFields(s.fields()).Infof("assuming %v for: %s", s.DefaultAnswer, question)
	return s.DefaultAnswer
}

func (s *LogSession) SetContext(componentType string, componentID uuid.UUID, propertyName string) {
	s.typeName = componentType
	s.id = componentID
	s.property = propertyName
}

func (s *LogSession) fields() obslog.Fields {
	fields := obslog.Fields{}
	if s.typeName != "" {
		fields["component_type"] = s.typeName
		fields["component_id"] = s.id.String()
	}
	if s.property != "" {
		fields["property"] = s.property
	}
	return fields
}

// InteractiveSession is a Session whose Ask presents a huh.NewConfirm
// prompt; its Warn and Fatal are LogSession's (Warn logs via obslog,
// Fatal logs and also prints a line to stderr). NewSession picks this
// implementation automatically when stdout is a terminal.
type InteractiveSession struct {
	LogSession
}

func (s *InteractiveSession) Ask(question string) bool {
	answer := s.DefaultAnswer
	confirm := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		obslog.WithFields(s.fields()).Warnf("prompt failed, defaulting to %v: %v", s.DefaultAnswer, err)
		return s.DefaultAnswer
	}
	return answer
}

// NewSession returns an InteractiveSession when stdout is a terminal and
// interactive is true, or a LogSession otherwise.
func NewSession(interactive bool, defaultAnswer bool) diffmodel.Session {
	if interactive && isatty.IsTerminal(os.Stdout.Fd()) {
		return &InteractiveSession{LogSession{DefaultAnswer: defaultAnswer}}
	}
	return &LogSession{DefaultAnswer: defaultAnswer}
}
