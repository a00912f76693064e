package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Column describes one table column. Weight shares the width left after
// every column got its Min.
type Column struct {
	Title  string
	Min    int
	Weight int
}

const (
	columnGap   = 2
	cursorWidth = 2 // "› " or "  "
)

// Row is a list item made of display cells. Key identifies the record.
type Row struct {
	Key   string
	Cells []string
	Style lipgloss.Style // applied to the last cell, usually a status
}

// FilterValue implements list.Item.
func (r Row) FilterValue() string {
	return strings.Join(r.Cells, " ")
}

// ColumnWidths distributes totalWidth across cols.
func ColumnWidths(cols []Column, totalWidth int) []int {
	widths := make([]int, len(cols))
	usable := totalWidth - cursorWidth - columnGap*(len(cols)-1)
	weights := 0
	for i, c := range cols {
		widths[i] = c.Min
		usable -= c.Min
		weights += c.Weight
	}
	if usable <= 0 || weights == 0 {
		return widths
	}
	extra := usable
	for i, c := range cols {
		add := usable * c.Weight / weights
		widths[i] += add
		extra -= add
	}
	// Rounding remainder goes to the first weighted column.
	for i, c := range cols {
		if c.Weight > 0 {
			widths[i] += extra
			break
		}
	}
	return widths
}

// PadOrTruncate pads s to exactly width cells, truncating with "…".
// Width is measured in terminal cells so styled and wide text align.
func PadOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = xansi.Truncate(s, width, "…")
	if n := xansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// RenderCells lays cells out in columns of the given widths.
func RenderCells(widths []int, cells []string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		parts[i] = PadOrTruncate(v, w)
	}
	return strings.Join(parts, strings.Repeat(" ", columnGap))
}

// RenderHeader renders the column titles.
func RenderHeader(cols []Column, totalWidth int) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	line := strings.Repeat(" ", cursorWidth) + RenderCells(ColumnWidths(cols, totalWidth), titles)
	return StyleHeader.Render(line)
}

type rowDelegate struct {
	cols []Column
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	widths := ColumnWidths(d.cols, width)

	cells := make([]string, len(widths))
	for i := range widths {
		if i < len(row.Cells) {
			cells[i] = PadOrTruncate(row.Cells[i], widths[i])
		} else {
			cells[i] = strings.Repeat(" ", widths[i])
		}
	}

	prefix := "  "
	if index == m.Index() {
		prefix = StyleHighlight.Render("›") + " "
		for i := range cells {
			cells[i] = StyleHighlight.Render(cells[i])
		}
	} else if last := len(cells) - 1; last >= 0 {
		cells[last] = row.Style.Render(cells[last])
	}

	_, _ = fmt.Fprint(w, prefix+strings.Join(cells, strings.Repeat(" ", columnGap)))
}

// NewTable builds a list.Model that renders rows as a fixed-column table.
// Filtering is left to the caller.
func NewTable(cols []Column) list.Model {
	l := list.New(nil, rowDelegate{cols: cols}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.NoItems = StyleHelp.PaddingLeft(cursorWidth)
	return l
}

// SetRows replaces the table contents, keeping the cursor in range.
func SetRows(l *list.Model, rows []Row) tea.Cmd {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	idx := l.Index()
	cmd := l.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		l.Select(idx)
	}
	return cmd
}
