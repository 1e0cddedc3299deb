package chat

import "github.com/abhisek/synthtutor/internal/tutor"

// stepDoneMsg carries the outcome of a Step run in a command.
type stepDoneMsg struct {
	outcome tutor.Outcome
}

// catalogMsg carries the registry and progress fetched after onboarding.
type catalogMsg struct {
	catalog tutor.Catalog
}

// syncDoneMsg carries the result of pushing a completion.
type syncDoneMsg struct {
	result tutor.SyncResult
}

// openModuleMsg is sent by a module list row.
type openModuleMsg struct {
	id string
}

// captureStartedMsg reports the result of a recorder start.
type captureStartedMsg struct {
	err error
}

// captureStoppedMsg is sent once a recorder stop has returned.
type captureStoppedMsg struct{}
