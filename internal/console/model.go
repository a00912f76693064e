package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/session"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View represents the current active view
type View string

const (
	ViewChecking  View = "checking"
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewBooks     View = "books"
	ViewMembers   View = "members"
	ViewBorrow    View = "borrow"
	ViewGenres    View = "genres"
	ViewStaff     View = "staff"
	ViewReports   View = "reports"
)

type navItem struct {
	view      View
	label     string
	adminOnly bool
	open      func(env) page
}

var navItems = []navItem{
	{ViewDashboard, "Dashboard", false, newDashboardPage},
	{ViewBooks, "Books", false, newBooksPage},
	{ViewMembers, "Members", false, newMembersPage},
	{ViewBorrow, "Borrow/Return", false, newBorrowPage},
	{ViewGenres, "Genres", false, newGenresPage},
	{ViewStaff, "Staff", true, newStaffPage},
	{ViewReports, "Reports", true, newReportsPage},
}

// visibleNav returns the pages a user with the given role may open.
func visibleNav(isAdmin bool) []navItem {
	out := make([]navItem, 0, len(navItems))
	for _, it := range navItems {
		if it.adminOnly && !isAdmin {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Model is the console shell. It owns the session lifecycle and switches
// between the login view and the pages.
type Model struct {
	ctx  context.Context
	deps Deps

	currentView View
	page        page
	login       loginModel
	spinner     spinner.Model
	nav         tui.NavKeys
	std         tui.StandardKeys

	// sessionGen increments on each login so 401s from an earlier session
	// are ignored.
	sessionGen int
	redirects  int

	width  int
	height int
}

// New creates the shell. It starts by restoring any persisted session.
func New(ctx context.Context, deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.StyleHighlight
	return Model{
		ctx:         ctx,
		deps:        deps,
		currentView: ViewChecking,
		spinner:     s,
		nav:         tui.NewNavKeys(),
		std:         tui.NewStandardKeys(),
	}
}

// Run starts the console and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok && m.page != nil {
		m.page.Close()
	}
	if err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	store, ctx := m.deps.Session, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		store.Check(ctx)
		return sessionCheckedMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.page != nil {
			m.page.SetSize(m.pageSize())
		}
		return m, nil

	case sessionCheckedMsg:
		if m.deps.Session.IsAuthenticated() {
			m.sessionGen++
			return m.navigate(ViewDashboard)
		}
		return m.showLogin(m.deps.Session.Err())

	case loginDoneMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.form.SetError(m.deps.Session.Err())
			return m, nil
		}
		m.sessionGen++
		return m.navigate(ViewDashboard)

	case loggedOutMsg:
		return m, nil

	case expiredMsg:
		if msg.gen != m.sessionGen {
			return m, nil
		}
		m.deps.Session.Expire()
		return m.redirect()

	case NavigateMsg:
		return m.navigate(msg.Target)

	case QuitAppMsg:
		return m.quit()

	case spinner.TickMsg:
		if m.currentView == ViewChecking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.page != nil && !m.page.Capturing() {
			if next, cmd, ok := m.handleNavKey(msg); ok {
				return next, cmd
			}
		}
	}

	return m.updateCurrentView(msg)
}

func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewChecking:
		return m, nil

	case ViewLogin:
		var (
			cmd    tea.Cmd
			submit bool
		)
		m.login, cmd, submit = m.login.Update(msg)
		if submit {
			email, password := m.login.credentials()
			return m, tea.Batch(cmd, loginCmd(m.ctx, m.deps.Session, email, password))
		}
		return m, cmd
	}

	if m.page == nil {
		return m, nil
	}
	cmd := m.page.Update(msg)
	// The client's 401 hook may have ended the session while the request ran.
	if !m.deps.Session.IsAuthenticated() {
		return m.redirect()
	}
	return m, cmd
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	items := visibleNav(m.deps.Session.IsAdmin())
	cur := 0
	for i, it := range items {
		if it.view == m.currentView {
			cur = i
		}
	}
	switch {
	case key.Matches(msg, m.std.Quit):
		next, cmd := m.quit()
		return next, cmd, true
	case key.Matches(msg, m.nav.Next):
		next, cmd := m.navigate(items[(cur+1)%len(items)].view)
		return next, cmd, true
	case key.Matches(msg, m.nav.Prev):
		next, cmd := m.navigate(items[(cur-1+len(items))%len(items)].view)
		return next, cmd, true
	case key.Matches(msg, m.nav.Logout):
		store, ctx := m.deps.Session, m.ctx
		next, cmd := m.showLogin("")
		return next, tea.Batch(cmd, func() tea.Msg {
			store.Logout(ctx)
			return loggedOutMsg{}
		}), true
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(items) {
			next, cmd := m.navigate(items[i].view)
			return next, cmd, true
		}
	}
	return m, nil, false
}

// navigate opens a page. Admin-only pages fall back to the dashboard for
// other roles.
func (m Model) navigate(target View) (tea.Model, tea.Cmd) {
	if !m.deps.Session.IsAuthenticated() {
		return m.showLogin("")
	}
	item, ok := findNav(target)
	if !ok || (item.adminOnly && !m.deps.Session.IsAdmin()) {
		item, _ = findNav(ViewDashboard)
	}
	if m.page != nil {
		m.page.Close()
	}
	m.currentView = item.view
	m.page = item.open(env{ctx: m.ctx, deps: m.deps, gen: m.sessionGen})
	m.page.SetSize(m.pageSize())
	return m, m.page.Init()
}

func findNav(v View) (navItem, bool) {
	for _, it := range navItems {
		if it.view == v {
			return it, true
		}
	}
	return navItem{}, false
}

// redirect sends the user to the login view after the session ended. It is
// a no-op when already there.
func (m Model) redirect() (tea.Model, tea.Cmd) {
	if m.currentView == ViewLogin {
		return m, nil
	}
	m.redirects++
	notice := m.deps.Session.Err()
	if notice == "" {
		notice = session.ExpiredMessage
	}
	return m.showLogin(notice)
}

func (m Model) showLogin(notice string) (tea.Model, tea.Cmd) {
	if m.page != nil {
		m.page.Close()
		m.page = nil
	}
	m.currentView = ViewLogin
	m.login = newLoginModel(notice)
	return m, m.login.Init()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.page != nil {
		m.page.Close()
	}
	return m, tea.Quit
}

func (m Model) pageSize() (int, int) {
	// nav bar, separator and footer
	return m.width, max(m.height-4, 5)
}

func (m Model) View() string {
	switch m.currentView {
	case ViewChecking:
		return lipgloss.NewStyle().Padding(2, 4).Render(m.spinner.View() + tui.StyleHelp.Render(" Checking session…"))
	case ViewLogin:
		return lipgloss.NewStyle().Padding(2, 4).Render(m.login.View())
	}
	if m.page == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderNav())
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render(strings.Repeat("─", max(m.width, 20))))
	b.WriteString("\n")
	b.WriteString(m.page.View())
	b.WriteString("\n")
	b.WriteString(tui.RenderFooterBar([]tui.ShortcutEntry{
		{Label: "tab/1-9 pages"},
		{Label: "L logout"},
		{Label: "q quit"},
	}, ""))
	return b.String()
}

func (m Model) renderNav() string {
	items := visibleNav(m.deps.Session.IsAdmin())
	tabs := make([]string, len(items))
	for i, it := range items {
		label := fmt.Sprintf("%d %s", i+1, it.label)
		if it.view == m.currentView {
			tabs[i] = tui.StyleTabActive.Render(label)
		} else {
			tabs[i] = tui.StyleTab.Render(label)
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := ""
	if u := m.deps.Session.User(); u != nil {
		right = tui.StyleNormal.Render(u.DisplayName()) + " " + tui.StyleTag.Render("("+u.Role+")")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}
