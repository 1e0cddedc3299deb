// Package tutor holds the tutoring session: the onboarding conversation, the
// transcript and the module progression rules. A Session is owned by a single
// goroutine; network work is described by Step and Sync values that run
// elsewhere and report back through Resolve and Reconcile.
package tutor

import "errors"

// State is the stage of the conversation. It decides how typed input is
// interpreted.
type State int

const (
	StateWelcome State = iota
	StateGrade
	StateInterests
	StateLearning
	StateChat
	StateModule
)

func (s State) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StateGrade:
		return "grade"
	case StateInterests:
		return "interests"
	case StateLearning:
		return "learning"
	case StateChat:
		return "chat"
	case StateModule:
		return "module"
	default:
		return "unknown"
	}
}

// Onboarding reports whether the student record has not been created yet.
func (s State) Onboarding() bool {
	return s == StateWelcome || s == StateGrade || s == StateInterests
}

var (
	// ErrEmptyInput is returned for blank messages. The transcript is untouched.
	ErrEmptyInput = errors.New("message is empty")

	// ErrBusy is returned while a previous message is still being handled.
	ErrBusy = errors.New("a message is already in flight")

	// ErrInputSuppressed is returned for chat input while a module is open.
	ErrInputSuppressed = errors.New("input is suppressed while a module is active")

	// ErrNotReady is returned when modules are selected before the student
	// exists or from outside the learning state.
	ErrNotReady = errors.New("modules are not available yet")

	// ErrUnknownModule is returned when selecting an id not in the registry.
	ErrUnknownModule = errors.New("unknown module")

	// ErrModuleLocked is returned when selecting a module whose requirements
	// are not met.
	ErrModuleLocked = errors.New("module is locked")
)
