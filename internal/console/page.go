package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/blackwell-systems/libconsole/internal/tui/picker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// page is one screen of the shell. Pages are pointers and are only mutated
// from the bubbletea event loop.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	// Capturing reports whether keys belong to a focused input or prompt,
	// so the shell must not treat them as navigation.
	Capturing() bool
	// Close cancels pending timers when the page is torn down.
	Close()
}

// pageState tracks where a resource page is in its workflow.
type pageState int

const (
	stateLoading pageState = iota // first fetch in flight
	stateReady                    // list shown
	stateDialog                   // create/edit form open
	stateSaving                   // mutation in flight
	stateConfirm                  // delete confirmation
	stateDetail                   // read-only overlay
)

func (s pageState) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateReady:
		return "ready"
	case stateDialog:
		return "dialog"
	case stateSaving:
		return "saving"
	case stateConfirm:
		return "confirm"
	case stateDetail:
		return "detail"
	}
	return "unknown"
}

var pageSeq atomic.Int64

// mutation runs against the backend and describes its result.
type mutation func(ctx context.Context) (outcome, error)

// action is an extra key binding on the selected record.
type action[T any] struct {
	binding key.Binding
	run     func(ctx context.Context, item T) (outcome, error)
}

// resource wires one record type into the generic list page.
type resource[T any] struct {
	title   string
	noun    string
	columns []tui.Column
	row     func(T) tui.Row
	label   func(T) string
	load    func(ctx context.Context, f records.Filter) (library.Result[[]T], error)

	// filter cycles through "all" plus the options seen in loaded items.
	filterLabel   string
	filterOptions func(items []T) []string
	setFilter     func(f *records.Filter, value string)

	// fields returns the dialog fields, prefilled from item when editing.
	// choices loads option lists for the create dialog, keyed by field index.
	fields   func(item *T) []tui.Field
	choices  func(ctx context.Context) (map[int][]picker.Option, error)
	validate func(values []string) error
	create   func(ctx context.Context, values []string) (outcome, error)
	update   func(ctx context.Context, item T, values []string) (outcome, error)
	remove   func(ctx context.Context, item T) (outcome, error)

	actions []action[T]
}

type resourcePage[T any] struct {
	env env
	res resource[T]
	id  int64

	state   pageState
	items   []T
	table   list.Model
	spinner spinner.Model
	keys    tui.ResourceKeys
	std     tui.StandardKeys

	search    textinput.Model
	searching bool
	filter    records.Filter
	options   []string
	optionIdx int
	debounce  *Debouncer
	searchSeq int
	gen       int
	refetch   bool // a fetch is in flight while rows are shown

	demo   bool
	banner string
	flash  string

	form      tui.Form
	dialogSeq int
	editing   *T
	pending   T
	detail    *detail
	returnTo  pageState
	activeCmd string

	width  int
	height int
}

func newResourcePage[T any](e env, res resource[T]) *resourcePage[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.StyleHighlight

	in := textinput.New()
	in.Placeholder = "search " + res.title
	in.Prompt = "/ "
	in.CharLimit = 100
	in.Width = 30

	return &resourcePage[T]{
		env:      e,
		res:      res,
		id:       pageSeq.Add(1),
		state:    stateLoading,
		table:    tui.NewTable(res.columns),
		spinner:  s,
		keys:     tui.NewResourceKeys(),
		std:      tui.NewStandardKeys(),
		search:   in,
		debounce: NewDebouncer(e.deps.debounce()),
	}
}

func (p *resourcePage[T]) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.load())
}

func (p *resourcePage[T]) Close() {
	p.debounce.Stop()
}

func (p *resourcePage[T]) Capturing() bool {
	return p.searching || p.state == stateDialog || p.state == stateConfirm || p.state == stateDetail
}

func (p *resourcePage[T]) SetSize(width, height int) {
	p.width = width
	p.height = height
	// title, toolbar, banner, flash, header and footer lines
	p.table.SetSize(width, max(height-7, 3))
}

func (p *resourcePage[T]) load() tea.Cmd {
	p.gen++
	p.refetch = true
	gen, id, f := p.gen, p.id, p.filter
	ctx, load := p.env.ctx, p.res.load
	return func() tea.Msg {
		r, err := load(ctx, f)
		return loadedMsg[T]{page: id, gen: gen, result: r, err: err}
	}
}

func (p *resourcePage[T]) loadChoices() tea.Cmd {
	if p.res.choices == nil {
		return nil
	}
	id, seq, ctx, load := p.id, p.dialogSeq, p.env.ctx, p.res.choices
	return func() tea.Msg {
		opts, err := load(ctx)
		return choicesMsg{page: id, seq: seq, options: opts, err: err}
	}
}

func (p *resourcePage[T]) expired() tea.Cmd {
	gen := p.env.gen
	return func() tea.Msg { return expiredMsg{gen: gen} }
}

func (p *resourcePage[T]) selected() (T, bool) {
	var zero T
	i := p.table.Index()
	if i < 0 || i >= len(p.items) || len(p.table.Items()) == 0 {
		return zero, false
	}
	return p.items[i], true
}

func (p *resourcePage[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tui.ClearActiveCmdMsg:
		p.activeCmd = ""
		if p.state == stateDialog {
			var cmd tea.Cmd
			p.form, _, cmd = p.form.Update(msg)
			return cmd
		}
		return nil

	case loadedMsg[T]:
		return p.handleLoaded(msg)

	case searchMsg:
		if msg.page != p.id || msg.seq != p.searchSeq {
			return nil
		}
		return p.load()

	case choicesMsg:
		if msg.page != p.id || msg.seq != p.dialogSeq || p.state != stateDialog {
			return nil
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return p.expired()
			}
			p.env.deps.logf("%s choices: %v", p.res.title, msg.err)
			return nil
		}
		for i, opts := range msg.options {
			p.form.SetOptions(i, opts)
		}
		return nil

	case doneMsg:
		if msg.page != p.id {
			return nil
		}
		return p.handleDone(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.state == stateDialog {
		var cmd tea.Cmd
		p.form, _, cmd = p.form.Update(msg)
		return cmd
	}
	if p.searching {
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return cmd
	}
	return nil
}

func (p *resourcePage[T]) handleLoaded(msg loadedMsg[T]) tea.Cmd {
	if msg.page != p.id || msg.gen != p.gen {
		return nil
	}
	p.refetch = false
	if p.state == stateLoading {
		p.state = stateReady
	}
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return p.expired()
		}
		p.env.deps.logf("%s: %v", p.res.title, msg.err)
		p.banner = fmt.Sprintf("Failed to load %s: %v", strings.ToLower(p.res.title), msg.err)
		return nil
	}
	p.banner = ""
	p.items = msg.result.Items
	p.demo = msg.result.Demo
	if p.res.filterOptions != nil {
		p.options = mergeOptions(p.options, p.res.filterOptions(p.items))
	}
	rows := make([]tui.Row, len(p.items))
	for i, it := range p.items {
		rows[i] = p.res.row(it)
	}
	return tui.SetRows(&p.table, rows)
}

func (p *resourcePage[T]) handleDone(msg doneMsg) tea.Cmd {
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			p.state = stateReady
			return p.expired()
		}
		if p.returnTo == stateDialog {
			// Keep the user's input; the message shows inside the form.
			p.state = stateDialog
			p.form.SetError(errorText(msg.err))
			return nil
		}
		p.state = stateReady
		p.banner = errorText(msg.err)
		return nil
	}

	p.banner = ""
	p.flash = msg.out.flash
	p.editing = nil
	if msg.out.detail != nil {
		p.detail = msg.out.detail
		p.state = stateDetail
		return nil
	}
	p.state = stateReady
	return p.load()
}

func errorText(err error) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *api.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func (p *resourcePage[T]) run(from pageState, m mutation) tea.Cmd {
	p.returnTo = from
	p.state = stateSaving
	id, ctx := p.id, p.env.ctx
	return func() tea.Msg {
		out, err := m(ctx)
		return doneMsg{page: id, out: out, err: err}
	}
}

func (p *resourcePage[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.state {
	case stateDialog:
		return p.updateDialog(msg)
	case stateConfirm:
		return p.updateConfirm(msg)
	case stateDetail:
		switch msg.String() {
		case "esc", "enter", "q":
			p.detail = nil
			p.state = stateReady
		}
		return nil
	case stateSaving:
		return nil
	}

	if p.searching {
		return p.updateSearch(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Search):
		p.searching = true
		p.activeCmd = "/"
		return tea.Batch(p.search.Focus(), tui.HighlightCmd())

	case key.Matches(msg, p.keys.Filter) && p.res.setFilter != nil:
		p.optionIdx = (p.optionIdx + 1) % (len(p.options) + 1)
		value := ""
		if p.optionIdx > 0 {
			value = p.options[p.optionIdx-1]
		}
		p.res.setFilter(&p.filter, value)
		p.activeCmd = "f"
		return tea.Batch(p.scheduleQuery(), tui.HighlightCmd())

	case key.Matches(msg, p.keys.Refresh):
		p.activeCmd = "ctrl+r"
		return tea.Batch(p.load(), tui.HighlightCmd())

	case key.Matches(msg, p.keys.New) && p.res.create != nil:
		p.editing = nil
		p.form = tui.NewForm("New "+p.res.noun, p.res.fields(nil))
		p.state = stateDialog
		p.dialogSeq++
		return tea.Batch(p.form.Init(), p.loadChoices())

	case key.Matches(msg, p.keys.Edit) && p.res.update != nil:
		item, ok := p.selected()
		if !ok {
			return nil
		}
		p.editing = &item
		p.form = tui.NewForm("Edit "+p.res.noun, p.res.fields(&item)).
			WithSubtitle(p.res.label(item))
		p.state = stateDialog
		p.dialogSeq++
		return p.form.Init()

	case key.Matches(msg, p.keys.Delete) && p.res.remove != nil:
		item, ok := p.selected()
		if !ok {
			return nil
		}
		p.pending = item
		p.state = stateConfirm
		return nil

	case key.Matches(msg, p.std.Back):
		p.banner = ""
		p.flash = ""
		return nil
	}

	for _, a := range p.res.actions {
		if !key.Matches(msg, a.binding) {
			continue
		}
		item, ok := p.selected()
		if !ok {
			return nil
		}
		run := a.run
		p.activeCmd = a.binding.Help().Key
		return tea.Batch(p.run(stateReady, func(ctx context.Context) (outcome, error) {
			return run(ctx, item)
		}), tui.HighlightCmd())
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *resourcePage[T]) scheduleQuery() tea.Cmd {
	p.searchSeq++
	return p.debounce.Schedule(searchMsg{page: p.id, seq: p.searchSeq})
}

func (p *resourcePage[T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "tab":
		p.searching = false
		p.search.Blur()
		return nil
	}
	before := p.search.Value()
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if p.search.Value() == before {
		return cmd
	}
	p.filter.Search = p.search.Value()
	return tea.Batch(cmd, p.scheduleQuery())
}

func (p *resourcePage[T]) updateDialog(msg tea.KeyMsg) tea.Cmd {
	var (
		act tui.FormAction
		cmd tea.Cmd
	)
	p.form, act, cmd = p.form.Update(msg)
	switch act {
	case tui.FormCanceled:
		p.state = stateReady
		p.editing = nil
		return nil
	case tui.FormSubmitted:
		values := trimAll(p.form.Values())
		if p.res.validate != nil {
			if err := p.res.validate(values); err != nil {
				p.form.SetError(err.Error())
				return nil
			}
		}
		if p.editing == nil {
			create := p.res.create
			return p.run(stateDialog, func(ctx context.Context) (outcome, error) {
				return create(ctx, values)
			})
		}
		item, update := *p.editing, p.res.update
		return p.run(stateDialog, func(ctx context.Context) (outcome, error) {
			return update(ctx, item, values)
		})
	}
	return cmd
}

func (p *resourcePage[T]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		item, remove := p.pending, p.res.remove
		return p.run(stateReady, func(ctx context.Context) (outcome, error) {
			return remove(ctx, item)
		})
	case "n", "N", "esc", "q":
		p.state = stateReady
	}
	return nil
}

func (p *resourcePage[T]) View() string {
	var b strings.Builder

	// ── Title and status ──
	title := tui.StyleHeader.Render(p.res.title)
	if p.demo {
		title += " " + tui.StyleDemo.Render("DEMO DATA")
	}
	switch {
	case p.state == stateLoading:
		title += " " + p.spinner.View() + tui.StyleHelp.Render(" Loading…")
	case p.state == stateSaving:
		title += " " + p.spinner.View() + tui.StyleHelp.Render(" Saving…")
	case p.refetch:
		title += " " + p.spinner.View()
	}
	b.WriteString(title)
	b.WriteString("\n")

	// ── Toolbar ──
	toolbar := p.search.View()
	if p.res.setFilter != nil {
		value := "all"
		if p.optionIdx > 0 && p.optionIdx <= len(p.options) {
			value = p.options[p.optionIdx-1]
		}
		toolbar += "   " + tui.StyleHelp.Render(p.res.filterLabel+": ") + tui.StyleTag.Render(value)
	}
	b.WriteString(toolbar)
	b.WriteString("\n")

	// ── Banners ──
	if p.banner != "" {
		b.WriteString(tui.StyleError.Render("✗ " + p.banner))
	} else if p.flash != "" {
		b.WriteString(tui.StyleOK.Render("✓ " + p.flash))
	}
	b.WriteString("\n")

	switch p.state {
	case stateDialog:
		b.WriteString(p.form.View())
		return b.String()
	case stateConfirm:
		prompt := fmt.Sprintf("Delete %s %q? ", p.res.noun, p.res.label(p.pending))
		b.WriteString(tui.StyleBorder.Padding(0, 2).Render(
			tui.StyleHighlight.Render(prompt) + tui.StyleHelp.Render("y/N")))
		return b.String()
	case stateDetail:
		b.WriteString(renderDetail(p.detail))
		return b.String()
	}

	// ── Table ──
	width := p.table.Width()
	if width <= 0 {
		width = 80
	}
	b.WriteString(tui.RenderHeader(p.res.columns, width))
	b.WriteString("\n")
	b.WriteString(p.table.View())
	b.WriteString("\n")
	b.WriteString(tui.RenderFooterBar(p.shortcuts(), p.activeCmd))
	return b.String()
}

func (p *resourcePage[T]) shortcuts() []tui.ShortcutEntry {
	var s []tui.ShortcutEntry
	s = append(s, tui.ShortcutEntry{Key: "/", Label: "/ search"})
	if p.res.setFilter != nil {
		s = append(s, tui.ShortcutEntry{Key: "f", Label: "f " + strings.ToLower(p.res.filterLabel)})
	}
	if p.res.create != nil {
		s = append(s, tui.ShortcutEntry{Label: "n new"})
	}
	if p.res.update != nil {
		s = append(s, tui.ShortcutEntry{Label: "e edit"})
	}
	if p.res.remove != nil {
		s = append(s, tui.ShortcutEntry{Label: "d delete"})
	}
	for _, a := range p.res.actions {
		h := a.binding.Help()
		s = append(s, tui.ShortcutEntry{Key: h.Key, Label: h.Key + " " + h.Desc})
	}
	s = append(s, tui.ShortcutEntry{Key: "ctrl+r", Label: "ctrl+r refresh"})
	return s
}

func renderDetail(d *detail) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(tui.StyleHeader.Render(d.title))
	b.WriteString("\n\n")
	if len(d.lines) == 0 {
		b.WriteString(tui.StyleHelp.Render("Nothing to show"))
		b.WriteString("\n")
	}
	for _, l := range d.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(tui.StyleHelp.Render("esc close"))
	return tui.StyleBorder.Padding(0, 2).Render(b.String())
}

func mergeOptions(have, seen []string) []string {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, s := range seen {
		if !set[s] {
			set[s] = true
			have = append(have, s)
		}
	}
	return have
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
