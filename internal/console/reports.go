package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/tui"
)

var overdueColumns = []tui.Column{
	{Title: "Member", Min: 10, Weight: 2},
	{Title: "Book", Min: 12, Weight: 3},
	{Title: "Due", Min: 10},
	{Title: "Days", Min: 5},
}

const barWidth = 30

func newReportsPage(e env) page {
	return newOverviewPage(e, "Reports", e.deps.Lists.Reports,
		func(r library.Reports) bool { return r.Demo },
		renderReports)
}

func renderReports(r library.Reports, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	s := r.Summary
	b.WriteString(cards(width,
		card("Total books", strconv.Itoa(s.TotalBooks), tui.StyleNormal),
		card("Members", strconv.Itoa(s.TotalMembers), tui.StyleNormal),
		card("Active borrows", strconv.Itoa(s.ActiveBorrows), tui.StyleOK),
		card("Overdue", strconv.Itoa(s.OverdueBooks), tui.StyleError),
		card("Return rate", fmt.Sprintf("%.1f%%", s.ReturnRate), tui.StyleTag),
	))

	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render("Overdue"))
	b.WriteString("\n")
	if len(r.Overdue) == 0 {
		b.WriteString(tui.StyleOK.Render("  Nothing overdue"))
	} else {
		b.WriteString(tui.RenderHeader(overdueColumns, width))
		widths := tui.ColumnWidths(overdueColumns, width)
		for _, o := range r.Overdue {
			b.WriteString("\n  ")
			b.WriteString(tui.StyleError.Render(tui.RenderCells(widths, []string{
				o.MemberName, o.BookTitle, dateText(o.DueDate), strconv.Itoa(o.DaysOverdue),
			})))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(tui.StyleHeader.Render("Popular genres"))
	top := 0
	for _, g := range r.PopularGenres {
		top = max(top, g.Count)
	}
	for _, g := range r.PopularGenres {
		n := 0
		if top > 0 {
			n = g.Count * barWidth / top
		}
		b.WriteString("\n  ")
		b.WriteString(tui.PadOrTruncate(g.Name, 18))
		b.WriteString(" ")
		b.WriteString(tui.StyleTag.Render(strings.Repeat("█", n)))
		b.WriteString(" ")
		b.WriteString(tui.StyleHelp.Render(strconv.Itoa(g.Count)))
	}
	return b.String()
}
