package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/storefront/internal/form"
	"github.com/five82/storefront/internal/state"
)

const formInputWidth = 36

// formState mirrors the open add or edit draft in text inputs. Inputs are
// built once when a dialog opens; after that they are the source of typed
// text and the controller's draft follows them.
type formState struct {
	open   bool
	kind   state.DialogKind
	target int64
	inputs []textinput.Model
	focus  int
}

// sync rebuilds the inputs when a different form dialog opens and drops
// them when none is open.
func (f *formState) sync(d state.Dialogs, theme Theme) {
	kind, ok := d.Active()
	if !ok || (kind != state.DialogAdd && kind != state.DialogEdit) {
		f.open = false
		f.inputs = nil
		return
	}

	var draft form.Draft
	var target int64
	if kind == state.DialogAdd {
		draft = d.Add.Draft
	} else {
		draft = d.Edit.Draft
		target = d.Edit.Target.ID
	}
	if f.open && f.kind == kind && f.target == target {
		return
	}
	*f = newFormState(kind, target, draft, theme)
}

func newFormState(kind state.DialogKind, target int64, draft form.Draft, theme Theme) formState {
	inputs := make([]textinput.Model, len(form.Fields))
	for i, field := range form.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = formInputWidth
		in.CharLimit = 256
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint))
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))
		in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

		value := draft.Value(field)
		if field.Numeric() {
			in.Placeholder = "0"
			// a zero draft shows the placeholder instead of a literal 0
			if kind == state.DialogAdd && value == "0" {
				value = ""
			}
		}
		in.SetValue(value)
		inputs[i] = in
	}
	inputs[0].Focus()
	return formState{open: true, kind: kind, target: target, inputs: inputs}
}

// field returns the form field that has focus.
func (f formState) field() form.Field {
	return form.Fields[f.focus]
}

// value returns the raw text of the focused input.
func (f formState) value() string {
	if !f.open {
		return ""
	}
	return f.inputs[f.focus].Value()
}

// move shifts focus by delta, wrapping at both ends.
func (f *formState) move(delta int) tea.Cmd {
	if !f.open {
		return nil
	}
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

// update forwards msg to the focused input.
func (f *formState) update(msg tea.Msg) tea.Cmd {
	if !f.open {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f formState) focusCmd() tea.Cmd {
	if !f.open {
		return nil
	}
	return textinput.Blink
}
