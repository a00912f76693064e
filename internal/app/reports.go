package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show library totals and recent loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			d, err := lists.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Demo   bool                   `json:"demo"`
					Stats  records.DashboardStats `json:"stats"`
					Recent []records.Transaction  `json:"recent"`
				}{d.Demo, d.Stats, d.Recent})
			}
			demoNotice(d.Demo)
			header("Dashboard")
			printField("books", strconv.Itoa(d.Stats.TotalBooks))
			printField("members", strconv.Itoa(d.Stats.TotalMembers))
			printField("active loans", strconv.Itoa(d.Stats.ActiveLoans))
			overdue := strconv.Itoa(d.Stats.OverdueBooks)
			if d.Stats.OverdueBooks > 0 {
				overdue = color.RedString(overdue)
			}
			printField("overdue", overdue)
			fmt.Println()
			header("Recent loans")
			printTransactions(cmd, d.Recent)
			return nil
		},
	}
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Circulation reports (admin)",
	}
	cmd.AddCommand(newReportsSummaryCmd(), newReportsOverdueCmd(), newReportsPopularCmd())
	return cmd
}

func newReportsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Library-wide totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			s := res.Items
			header("Summary")
			printField("books", strconv.Itoa(s.TotalBooks))
			printField("members", strconv.Itoa(s.TotalMembers))
			printField("active borrows", strconv.Itoa(s.ActiveBorrows))
			printField("overdue", strconv.Itoa(s.OverdueBooks))
			printField("return rate", fmt.Sprintf("%.1f%%", s.ReturnRate))
			return nil
		},
	}
}

var overdueColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "MEMBER", Min: 12},
	{Title: "BOOK", Min: 14},
	{Title: "DUE", Min: 10},
	{Title: "DAYS", Min: 4},
}

func newReportsOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "Loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Overdue(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			rows := make([][]string, len(res.Items))
			for i, o := range res.Items {
				rows[i] = []string{o.ID.String(), o.MemberName, o.BookTitle, dateText(o.DueDate), strconv.Itoa(o.DaysOverdue)}
			}
			printRows(cmd.OutOrStdout(), overdueColumns, rows)
			return nil
		},
	}
}

const barWidth = 30

func newReportsPopularCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "popular-genres",
		Short: "Genres ranked by loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.PopularGenres(cmd.Context())
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			top := 0
			for _, g := range res.Items {
				top = max(top, g.Count)
			}
			w := cmd.OutOrStdout()
			for _, g := range res.Items {
				n := 0
				if top > 0 {
					n = g.Count * barWidth / top
				}
				fmt.Fprintf(w, "  %s %s %d\n", tui.PadOrTruncate(g.Name, 18), color.GreenString(strings.Repeat("█", n)), g.Count)
			}
			return nil
		},
	}
}
