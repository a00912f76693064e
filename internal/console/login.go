package console

import (
	"context"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/session"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the signed-out view.
type loginModel struct {
	form       tui.Form
	submitting bool
	spinner    spinner.Model
}

func newLoginModel(notice string) loginModel {
	f := tui.NewForm("Library Admin Console", []tui.Field{
		{Label: "Email", Placeholder: "admin@library.com", CharLimit: 100},
		{Label: "Password", Placeholder: "password", Secret: true, CharLimit: 72},
	}).WithSubtitle("Sign in to manage the catalog")
	if notice != "" {
		f.SetError(notice)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.StyleHighlight
	return loginModel{form: f, spinner: s}
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update returns the form action alongside the updated model so the shell
// can start the login request.
func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd, bool) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd, false
	}
	if m.submitting {
		return m, nil, false
	}
	var (
		act tui.FormAction
		cmd tea.Cmd
	)
	m.form, act, cmd = m.form.Update(msg)
	if act == tui.FormSubmitted {
		v := m.form.Values()
		if strings.TrimSpace(v[0]) == "" || v[1] == "" {
			m.form.SetError("Email and password are required")
			return m, nil, false
		}
		m.submitting = true
		return m, m.spinner.Tick, true
	}
	return m, cmd, false
}

func (m loginModel) credentials() (email, password string) {
	v := m.form.Values()
	return v[0], v[1]
}

func (m loginModel) View() string {
	out := m.form.View()
	if m.submitting {
		out += "\n" + m.spinner.View() + tui.StyleHelp.Render(" Signing in…")
	}
	return out
}

func loginCmd(ctx context.Context, s *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: s.Login(ctx, email, password)}
	}
}
