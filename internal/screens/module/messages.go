package module

import "github.com/abhisek/synthtutor/internal/widget"

// ResultMsg carries a finished widget's result to whoever hosts the screen.
// It is sent exactly once per screen.
type ResultMsg struct {
	ModuleID string
	Result   widget.Result
}

// BackMsg asks the host to leave the module without recording anything.
type BackMsg struct{}

// advanceMsg fires when math feedback has been shown long enough.
type advanceMsg struct{}
