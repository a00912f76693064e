// Package picker is a filterable single-choice list for embedding in
// forms and dialogs.
package picker

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Option is one choosable value. Value is what the caller receives; Label
// and Detail are shown.
type Option struct {
	Value  string
	Label  string
	Detail string
}

// FilterValue implements list.Item.
func (o Option) FilterValue() string { return o.Label + " " + o.Detail + " " + o.Value }

// Title implements list.DefaultItem.
func (o Option) Title() string { return o.Label }

// Description implements list.DefaultItem.
func (o Option) Description() string {
	if o.Detail == "" {
		return "#" + o.Value
	}
	return "#" + o.Value + " · " + o.Detail
}

// Find returns the option with the given value.
func Find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Action reports what the last message did to a Picker.
type Action int

const (
	Browsing Action = iota
	Selected
	Canceled
)

// Config configures a Picker.
type Config struct {
	Title   string
	Options []Option
	// Current is preselected when it matches an option value.
	Current string
	Width   int
	Height  int

	// QuitKeys and SelectKeys default to esc and enter.
	QuitKeys   key.Binding
	SelectKeys key.Binding

	BorderStyle lipgloss.Style
	ShowBorder  bool
}

// Picker wraps a bubbles list. Unlike a standalone program it never
// returns tea.Quit; the owner reads the Action instead.
type Picker struct {
	config Config
	list   list.Model
	choice Option
}

// New creates a picker over cfg.Options.
func New(cfg Config) Picker {
	if len(cfg.QuitKeys.Keys()) == 0 {
		cfg.QuitKeys = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	}
	if len(cfg.SelectKeys.Keys()) == 0 {
		cfg.SelectKeys = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose"))
	}
	if cfg.Width <= 0 {
		cfg.Width = 50
	}
	if cfg.Height <= 0 {
		cfg.Height = 12
	}

	items := make([]list.Item, len(cfg.Options))
	start := 0
	for i, o := range cfg.Options {
		items[i] = o
		if o.Value == cfg.Current {
			start = i
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), cfg.Width, cfg.Height)
	l.Title = cfg.Title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	if len(items) > 0 {
		l.Select(start)
	}
	return Picker{config: cfg, list: l}
}

// Update handles a message and reports whether an option was chosen or the
// picker dismissed.
func (p Picker) Update(msg tea.Msg) (Picker, Action, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && p.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, p.config.QuitKeys):
			if p.list.FilterState() == list.FilterApplied {
				p.list.ResetFilter()
				return p, Browsing, nil
			}
			return p, Canceled, nil

		case key.Matches(msg, p.config.SelectKeys):
			if o, ok := p.list.SelectedItem().(Option); ok {
				p.choice = o
				return p, Selected, nil
			}
			return p, Browsing, nil
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, Browsing, cmd
}

// Choice returns the option picked by the last Selected action.
func (p Picker) Choice() Option { return p.choice }

// Len returns the number of options.
func (p Picker) Len() int { return len(p.list.Items()) }

// SetSize resizes the list.
func (p *Picker) SetSize(width, height int) {
	if p.config.ShowBorder {
		h, v := p.config.BorderStyle.GetFrameSize()
		width, height = width-h, height-v
	}
	p.list.SetSize(width, height)
}

// View renders the list.
func (p Picker) View() string {
	view := p.list.View()
	if p.Len() == 0 {
		view = p.list.Title + "\n\n  nothing to choose from"
	}
	if p.config.ShowBorder {
		return p.config.BorderStyle.Render(view)
	}
	return view
}
