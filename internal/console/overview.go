package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// overviewPage is a read-only page built from one aggregate fetch.
type overviewPage[T any] struct {
	env    env
	id     int64
	title  string
	fetch  func(ctx context.Context) (T, error)
	demo   func(T) bool
	render func(data T, width int) string

	state   pageState
	data    T
	banner  string
	gen     int
	spinner spinner.Model
	refresh key.Binding
	width   int
	height  int
}

type overviewMsg[T any] struct {
	page int64
	gen  int
	data T
	err  error
}

func newOverviewPage[T any](e env, title string, fetch func(context.Context) (T, error), demo func(T) bool, render func(T, int) string) *overviewPage[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.StyleHighlight
	return &overviewPage[T]{
		env:     e,
		id:      pageSeq.Add(1),
		title:   title,
		fetch:   fetch,
		demo:    demo,
		render:  render,
		state:   stateLoading,
		spinner: s,
		refresh: tui.NewResourceKeys().Refresh,
	}
}

func (p *overviewPage[T]) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.load())
}

func (p *overviewPage[T]) load() tea.Cmd {
	p.gen++
	p.state = stateLoading
	id, gen, ctx, fetch := p.id, p.gen, p.env.ctx, p.fetch
	return func() tea.Msg {
		data, err := fetch(ctx)
		return overviewMsg[T]{page: id, gen: gen, data: data, err: err}
	}
}

func (p *overviewPage[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case overviewMsg[T]:
		if msg.page != p.id || msg.gen != p.gen {
			return nil
		}
		p.state = stateReady
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				gen := p.env.gen
				return func() tea.Msg { return expiredMsg{gen: gen} }
			}
			p.env.deps.logf("%s: %v", p.title, msg.err)
			p.banner = fmt.Sprintf("Failed to load %s: %v", strings.ToLower(p.title), msg.err)
			return nil
		}
		p.banner = ""
		p.data = msg.data
		return nil

	case tea.KeyMsg:
		if key.Matches(msg, p.refresh) {
			return p.load()
		}
	}
	return nil
}

func (p *overviewPage[T]) View() string {
	var b strings.Builder
	title := tui.StyleHeader.Render(p.title)
	if p.state == stateReady && p.demo(p.data) {
		title += " " + tui.StyleDemo.Render("DEMO DATA")
	}
	if p.state == stateLoading {
		title += " " + p.spinner.View() + tui.StyleHelp.Render(" Loading…")
	}
	b.WriteString(title)
	b.WriteString("\n")
	if p.banner != "" {
		b.WriteString(tui.StyleError.Render("✗ " + p.banner))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if p.state == stateReady && p.banner == "" {
		b.WriteString(p.render(p.data, p.width))
		b.WriteString("\n")
	}
	b.WriteString(tui.RenderFooterBar([]tui.ShortcutEntry{{Key: "ctrl+r", Label: "ctrl+r refresh"}}, ""))
	return b.String()
}

func (p *overviewPage[T]) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *overviewPage[T]) Capturing() bool { return false }

func (p *overviewPage[T]) Close() {}

// card renders one statistic tile.
func card(label, value string, style lipgloss.Style) string {
	body := tui.StyleHelp.Render(label) + "\n" + style.Bold(true).Render(value)
	return tui.StyleBorder.Padding(0, 2).Width(20).Render(body)
}

func cards(width int, tiles ...string) string {
	perRow := len(tiles)
	if width > 0 {
		perRow = max(1, width/lipgloss.Width(tiles[0]))
	}
	var rows []string
	for i := 0; i < len(tiles); i += perRow {
		end := min(i+perRow, len(tiles))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
