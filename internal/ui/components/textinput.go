package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synthtutor/internal/ui/theme"
)

// TextInput wraps bubbles/textinput. A disabled input ignores keys and
// shows DisabledHint instead of the placeholder.
type TextInput struct {
	Model        textinput.Model
	NumericOnly  bool
	DisabledHint string
	disabled     bool
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if t.disabled {
			return t, nil
		}
		if t.NumericOnly && kmsg.Text != "" && strings.Trim(kmsg.Text, "0123456789-") != "" {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// SetWidth sets the visible width of the field.
func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(max(w-lipgloss.Width(t.Model.Prompt)-1, 1))
}

// SetDisabled toggles whether keys are accepted.
func (t *TextInput) SetDisabled(d bool) {
	t.disabled = d
}

// Disabled reports whether keys are ignored.
func (t TextInput) Disabled() bool { return t.disabled }

// View renders the text input.
func (t TextInput) View() string {
	if t.disabled && t.DisabledHint != "" {
		return theme.Hint.Render(t.Model.Prompt + t.DisabledHint)
	}
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}
