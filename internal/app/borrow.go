package app

import (
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/spf13/cobra"
)

var transactionColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "MEMBER", Min: 12},
	{Title: "BOOK", Min: 14},
	{Title: "ISSUED", Min: 10},
	{Title: "DUE", Min: 10},
	{Title: "RETURNED", Min: 10},
	{Title: "STATUS", Min: 8},
}

func newBorrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Issue, return and list loans",
	}
	cmd.AddCommand(newBorrowListCmd(), newBorrowIssueCmd(), newBorrowReturnCmd(), newBorrowRenewCmd())
	return cmd
}

func newBorrowListCmd() *cobra.Command {
	var f records.Filter

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List borrow records",
		Example: `  libconsole borrow list --status Overdue`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Transactions(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			printTransactions(cmd, res.Items)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "Match member, book, author or id")
	cmd.Flags().StringVar(&f.Status, "status", "", "Only loans with this status (Active, Returned, Overdue)")
	return cmd
}

func printTransactions(cmd *cobra.Command, txs []records.Transaction) {
	rows := make([][]string, len(txs))
	for i, t := range txs {
		rows[i] = []string{
			t.ID.String(), t.MemberName, t.BookTitle,
			dateText(t.IssueDate), dateText(t.DueDate), dateText(t.ReturnDate),
			t.Status,
		}
	}
	printRows(cmd.OutOrStdout(), transactionColumns, rows)
}

func newBorrowIssueCmd() *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "issue <member-id> <book-id>",
		Short: "Issue a book to a member",
		Example: `  libconsole borrow issue 5 12
  libconsole borrow issue 5 12 --due 2025-07-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			t, err := client.Borrow(cmd.Context(), args[0], args[1], due)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), t)
			}
			ok("Issued %s to %s, due %s", t.BookTitle, t.MemberName, dateText(t.DueDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date YYYY-MM-DD (default: loan period from now)")
	return cmd
}

func newBorrowReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <record-id>",
		Short: "Mark a loan returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := client.Return(cmd.Context(), args[0]); err != nil {
				return err
			}
			ok("Returned loan %s", args[0])
			return nil
		},
	}
}

func newBorrowRenewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renew <record-id>",
		Short: "Extend a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := client.Renew(cmd.Context(), args[0]); err != nil {
				return err
			}
			ok("Renewed loan %s", args[0])
			return nil
		},
	}
}
