package console

import (
	"strconv"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/tui"
)

var recentColumns = []tui.Column{
	{Title: "Member", Min: 10, Weight: 2},
	{Title: "Book", Min: 12, Weight: 3},
	{Title: "Due", Min: 10},
	{Title: "Status", Min: 8},
}

func newDashboardPage(e env) page {
	return newOverviewPage(e, "Dashboard", e.deps.Lists.Dashboard,
		func(d library.Dashboard) bool { return d.Demo },
		renderDashboard)
}

func renderDashboard(d library.Dashboard, width int) string {
	var b strings.Builder
	b.WriteString(cards(width,
		card("Total books", strconv.Itoa(d.Stats.TotalBooks), tui.StyleNormal),
		card("Members", strconv.Itoa(d.Stats.TotalMembers), tui.StyleNormal),
		card("Active loans", strconv.Itoa(d.Stats.ActiveLoans), tui.StyleOK),
		card("Overdue", strconv.Itoa(d.Stats.OverdueBooks), tui.StyleError),
	))
	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render("Recent transactions"))
	b.WriteString("\n")
	if len(d.Recent) == 0 {
		b.WriteString(tui.StyleHelp.Render("  No transactions yet"))
		return b.String()
	}
	if width <= 0 {
		width = 80
	}
	b.WriteString(tui.RenderHeader(recentColumns, width))
	widths := tui.ColumnWidths(recentColumns, width)
	for _, t := range d.Recent {
		b.WriteString("\n  ")
		line := tui.RenderCells(widths[:3], []string{t.MemberName, t.BookTitle, dateText(t.DueDate)})
		b.WriteString(line + "  " + tui.StatusStyle(t.Status).Render(t.Status))
	}
	return b.String()
}
