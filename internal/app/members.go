package app

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/spf13/cobra"
)

var memberColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "NAME", Min: 12},
	{Title: "EMAIL", Min: 14},
	{Title: "PHONE", Min: 8},
	{Title: "STATUS", Min: 8},
	{Title: "LOANS", Min: 5},
}

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List and manage library members",
	}
	cmd.AddCommand(
		newMembersListCmd(),
		newMembersGetCmd(),
		newMembersAddCmd(),
		newMembersEditCmd(),
		newMembersDeleteCmd(),
		newMembersHistoryCmd(),
	)
	return cmd
}

func newMembersListCmd() *cobra.Command {
	var f records.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Members(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			rows := make([][]string, len(res.Items))
			for i, m := range res.Items {
				rows[i] = []string{m.ID.String(), m.Name, m.Email, orDash(m.Phone), m.Status, fmt.Sprintf("%d/%d", m.BooksIssued, m.MaxBooks)}
			}
			printRows(cmd.OutOrStdout(), memberColumns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "Match name, email, phone or id")
	cmd.Flags().StringVar(&f.Status, "status", "", "Only members with this status (Active, Inactive, Suspended)")
	return cmd
}

func newMembersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			m, err := client.GetMember(cmd.Context(), records.ID(args[0]))
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), m)
			}
			header("Member: %s", m.ID)
			printField("name", m.Name)
			printField("email", m.Email)
			printField("phone", orDash(m.Phone))
			printField("status", m.Status)
			printField("membership", orDash(m.MembershipType))
			printField("joined", dateText(m.JoinDate))
			loans := fmt.Sprintf("%d of %d", m.BooksIssued, m.MaxBooks)
			if m.AtCapacity() {
				loans += " (at limit)"
			}
			printField("loans", loans)
			return nil
		},
	}
}

func memberFlags(cmd *cobra.Command, in *api.MemberInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&in.JoinDate, "joined", "", "Join date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.MaxBooks, "max-books", "", "Loan limit")
}

func newMembersAddCmd() *cobra.Command {
	var in api.MemberInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a member",
		Example: `  libconsole members add --name "Ann Lee" --email ann@example.com --phone "555 0100"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			v, err := fillMissing("Add Member", []tui.Field{
				{Label: "Name", Value: in.Name},
				{Label: "Email", Value: in.Email},
				{Label: "Phone", Value: in.Phone},
				{Label: "Joined", Value: in.JoinDate, Placeholder: "YYYY-MM-DD (today)"},
				{Label: "Max books", Value: in.MaxBooks, Placeholder: "5"},
			}, 0, 1, 2)
			if err != nil {
				return err
			}
			if !api.ValidEmail(v[1]) {
				return &api.ValidationError{Field: "email", Message: "Please enter a valid email"}
			}
			in = api.MemberInput{Name: v[0], Email: v[1], Phone: v[2], JoinDate: v[3], MaxBooks: v[4]}

			m, err := client.CreateMember(cmd.Context(), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), m)
			}
			ok("Added member %s", m.Name)
			return nil
		},
	}

	memberFlags(cmd, &in)
	return cmd
}

func newMembersEditCmd() *cobra.Command {
	var in api.MemberInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a member; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			m, err := client.UpdateMember(cmd.Context(), records.ID(args[0]), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), m)
			}
			ok("Updated member %s", args[0])
			return nil
		},
	}

	memberFlags(cmd, &in)
	return cmd
}

func newMembersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete member %s?", args[0])); err != nil {
				return err
			}
			if err := client.DeleteMember(cmd.Context(), records.ID(args[0])); err != nil {
				return err
			}
			ok("Deleted member %s", args[0])
			return nil
		},
	}
}

func newMembersHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a member's borrowing history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			txs, err := client.MemberHistory(cmd.Context(), records.ID(args[0]))
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), txs)
			}
			printTransactions(cmd, txs)
			return nil
		},
	}
}

func dateText(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}
