package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/tui/picker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned by RunForm when the user backs out.
var ErrCanceled = errors.New("canceled")

// Field is one text input of a Form.
type Field struct {
	Label       string
	Placeholder string
	Value       string
	Secret      bool
	CharLimit   int
	// Options, when set, can be chosen with ctrl+p. Typing a value directly
	// still works.
	Options []picker.Option
}

// FormAction reports what the last key did to a Form.
type FormAction int

const (
	FormEditing FormAction = iota
	FormSubmitted
	FormCanceled
)

// Form is a multi-field text form. It is embedded by console dialogs and
// run standalone by RunForm.
type Form struct {
	title      string
	subtitle   string
	labels     []string
	inputs     []textinput.Model
	options    [][]picker.Option
	focused    int
	picking    bool
	picker     picker.Picker
	askConfirm bool
	confirming bool
	err        string
	activeCmd  string
}

const fieldWidth = 42

// NewForm builds a form with the first field focused.
func NewForm(title string, fields []Field) Form {
	f := Form{
		title:   title,
		labels:  make([]string, len(fields)),
		inputs:  make([]textinput.Model, len(fields)),
		options: make([][]picker.Option, len(fields)),
	}
	for i, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.Placeholder
		in.SetValue(fd.Value)
		in.CharLimit = 200
		if fd.CharLimit > 0 {
			in.CharLimit = fd.CharLimit
		}
		in.Width = fieldWidth
		in.Prompt = "│ "
		if fd.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels[i] = fd.Label
		f.inputs[i] = in
		f.options[i] = fd.Options
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// WithConfirm makes the form ask "Apply changes?" before submitting.
func (f Form) WithConfirm() Form {
	f.askConfirm = true
	return f
}

// WithSubtitle sets a dim line under the title.
func (f Form) WithSubtitle(s string) Form {
	f.subtitle = s
	return f
}

// Values returns the current field values in field order.
func (f Form) Values() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = f.inputs[i].Value()
	}
	return out
}

// SetError shows msg above the fields and returns to editing.
func (f *Form) SetError(msg string) {
	f.err = msg
	f.confirming = false
}

// SetOptions replaces the choices of field i.
func (f *Form) SetOptions(i int, opts []picker.Option) {
	if i >= 0 && i < len(f.options) {
		f.options[i] = opts
	}
}

// Picking reports whether the option list of a field is open.
func (f Form) Picking() bool { return f.picking }

// Err returns the message currently shown, if any.
func (f Form) Err() string { return f.err }

// Init implements the bubbletea init step.
func (f Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles a message and reports whether the form was submitted or canceled.
func (f Form) Update(msg tea.Msg) (Form, FormAction, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		f.activeCmd = ""
		return f, FormEditing, nil

	case tea.KeyMsg:
		if f.picking {
			return f.updatePicker(msg)
		}
		if f.confirming {
			switch msg.String() {
			case "y", "Y", "enter":
				f.confirming = false
				return f, FormSubmitted, nil
			case "n", "N", "esc":
				f.confirming = false
			}
			return f, FormEditing, nil
		}

		switch msg.String() {
		case "esc", "ctrl+c":
			return f, FormCanceled, nil

		case "ctrl+s":
			return f.submit()

		case "ctrl+p":
			if f.focused >= len(f.options) || len(f.options[f.focused]) == 0 {
				return f, FormEditing, nil
			}
			f.picking = true
			f.picker = picker.New(picker.Config{
				Title:   "Choose " + strings.ToLower(f.labels[f.focused]),
				Options: f.options[f.focused],
				Current: f.inputs[f.focused].Value(),
				Width:   fieldWidth + 14,
			})
			return f, FormEditing, nil

		case "enter":
			if f.focused < len(f.inputs)-1 {
				return f, FormEditing, f.focus(f.focused + 1)
			}
			return f.submit()

		case "tab", "shift+tab", "up", "down":
			next := f.focused + 1
			if msg.String() == "up" || msg.String() == "shift+tab" {
				next = f.focused - 1
			}
			f.activeCmd = "tab"
			return f, FormEditing, tea.Batch(f.focus(next), HighlightCmd())
		}
	}

	if f.picking {
		return f.updatePicker(msg)
	}

	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return f, FormEditing, tea.Batch(cmds...)
}

func (f Form) updatePicker(msg tea.Msg) (Form, FormAction, tea.Cmd) {
	var (
		act picker.Action
		cmd tea.Cmd
	)
	f.picker, act, cmd = f.picker.Update(msg)
	switch act {
	case picker.Selected:
		f.picking = false
		f.inputs[f.focused].SetValue(f.picker.Choice().Value)
		return f, FormEditing, nil
	case picker.Canceled:
		f.picking = false
		return f, FormEditing, nil
	}
	return f, FormEditing, cmd
}

func (f Form) submit() (Form, FormAction, tea.Cmd) {
	f.err = ""
	if f.askConfirm {
		f.confirming = true
		return f, FormEditing, nil
	}
	return f, FormSubmitted, nil
}

// focus moves focus to field i, wrapping around.
func (f *Form) focus(i int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	f.focused = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// View renders the bordered form.
func (f Form) View() string {
	labelW := 10
	for _, l := range f.labels {
		if w := lipgloss.Width(l) + 3; w > labelW {
			labelW = w
		}
	}

	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#444444"})
	formLabel := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(labelW).
		Align(lipgloss.Right).
		PaddingRight(1)
	formLabelActive := formLabel.
		Foreground(ColorYellow).
		Bold(true)

	sep := sepStyle.Render(strings.Repeat("─", labelW+fieldWidth+2))

	var b strings.Builder

	// ── Header ──
	b.WriteString(StyleHeader.Render(f.title))
	b.WriteString("\n")
	if f.subtitle != "" {
		b.WriteString(StyleHelp.Render(f.subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(sep)
	b.WriteString("\n\n")

	// ── Error ──
	if f.err != "" {
		b.WriteString(StyleError.Render("Error: " + f.err))
		b.WriteString("\n\n")
	}

	if f.picking {
		b.WriteString(f.picker.View())
		b.WriteString("\n\n")
		b.WriteString(sep)
		b.WriteString("\n")
		b.WriteString(RenderFooterBar([]ShortcutEntry{
			{Label: "enter choose"},
			{Label: "/ filter"},
			{Label: "esc back"},
		}, ""))
		b.WriteString("\n")
		innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)
		return StyleBorder.Render(innerPadding.Render(b.String()))
	}

	// ── Fields ──
	for i, label := range f.labels {
		if i == f.focused && !f.confirming {
			b.WriteString(formLabelActive.Render("› " + label))
		} else {
			b.WriteString(formLabel.Render(label))
		}
		b.WriteString(f.inputs[i].View())
		if hint := f.optionHint(i); hint != "" {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", labelW+2))
			b.WriteString(StyleHelp.Render(hint))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(sep)
	b.WriteString("\n")

	// ── Footer ──
	if f.confirming {
		b.WriteString(StyleHighlight.Render("  Apply changes? "))
		b.WriteString(StyleHelp.Render("Y/n"))
	} else {
		shortcuts := []ShortcutEntry{
			{Key: "tab", Label: "Tab/↑↓ navigate"},
			{Key: "enter", Label: "enter next/submit"},
		}
		if f.focused < len(f.options) && len(f.options[f.focused]) > 0 {
			shortcuts = append(shortcuts, ShortcutEntry{Label: "ctrl+p choose"})
		}
		shortcuts = append(shortcuts, ShortcutEntry{Label: "esc cancel"})
		b.WriteString(RenderFooterBar(shortcuts, f.activeCmd))
	}
	b.WriteString("\n")

	innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return StyleBorder.Render(innerPadding.Render(b.String()))
}

// optionHint names the option matching field i, or says how to choose one.
func (f Form) optionHint(i int) string {
	opts := f.options[i]
	if len(opts) == 0 {
		return ""
	}
	v := strings.TrimSpace(f.inputs[i].Value())
	if v == "" {
		return fmt.Sprintf("ctrl+p to choose from %d", len(opts))
	}
	if o, ok := picker.Find(opts, v); ok {
		return "→ " + o.Label
	}
	return "not in the list"
}

type formProgram struct {
	form   Form
	action FormAction
}

func (m formProgram) Init() tea.Cmd { return m.form.Init() }

func (m formProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, m.action, cmd = m.form.Update(msg)
	if m.action != FormEditing {
		return m, tea.Quit
	}
	return m, cmd
}

func (m formProgram) View() string {
	return lipgloss.NewStyle().Padding(2, 4).Render(m.form.View())
}

// RunForm launches a standalone form and returns the submitted values.
func RunForm(title string, fields []Field) ([]string, error) {
	m := formProgram{form: NewForm(title, fields).WithConfirm()}
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running form: %w", err)
	}

	fm, ok := finalModel.(formProgram)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.action != FormSubmitted {
		return nil, ErrCanceled
	}
	return fm.form.Values(), nil
}
