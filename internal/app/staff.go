package app

import (
	"fmt"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var staffColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "NAME", Min: 12},
	{Title: "USERNAME", Min: 8},
	{Title: "EMAIL", Min: 14},
	{Title: "ROLE", Min: 9},
	{Title: "DEPARTMENT", Min: 10},
}

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage console accounts (admin)",
	}
	cmd.AddCommand(newStaffListCmd(), newStaffAddCmd(), newStaffEditCmd(), newStaffDeleteCmd())
	return cmd
}

func newStaffListCmd() *cobra.Command {
	var f records.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Staff(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			rows := make([][]string, len(res.Items))
			for i, s := range res.Items {
				rows[i] = []string{s.ID.String(), s.Name, orDash(s.Username), s.Email, s.Role, orDash(s.Department)}
			}
			printRows(cmd.OutOrStdout(), staffColumns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "Match name, username, email or department")
	cmd.Flags().StringVar(&f.Status, "role", "", "Only accounts with this role (admin, librarian)")
	return cmd
}

func staffFlags(cmd *cobra.Command, in *api.StaffInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Username, "username", "", "Login name (derived from email when blank)")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Role, "role", "", "admin or librarian")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&in.Department, "department", "", "Department")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (generated when blank)")
}

func newStaffAddCmd() *cobra.Command {
	var in api.StaffInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a staff account",
		Example: `  libconsole staff add --name "Ann Lee" --email ann@library.com --role librarian`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if in.Role == "" {
				in.Role = records.RoleLibrarian
			}
			v, err := fillMissing("Add Staff", []tui.Field{
				{Label: "Name", Value: in.Name},
				{Label: "Username", Value: in.Username, Placeholder: "derived from email when blank"},
				{Label: "Email", Value: in.Email},
				{Label: "Role", Value: in.Role},
				{Label: "Phone", Value: in.Phone},
				{Label: "Department", Value: in.Department},
				{Label: "Password", Value: in.Password, Secret: true, Placeholder: "generated when blank"},
			}, 0, 2)
			if err != nil {
				return err
			}
			if !records.ValidRole(v[3]) {
				return &api.ValidationError{Field: "role", Message: "Invalid role"}
			}
			in = api.StaffInput{Name: v[0], Username: v[1], Email: v[2], Role: v[3], Phone: v[4], Department: v[5], Password: v[6]}

			res, err := client.CreateStaff(cmd.Context(), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Staff        records.Staff `json:"staff"`
					TempPassword string        `json:"temp_password,omitempty"`
					Simulated    bool          `json:"simulated"`
				}{res.Staff, res.TempPassword, res.Simulated})
			}
			printCreatedStaff(res)
			return nil
		},
	}

	staffFlags(cmd, &in)
	return cmd
}

func printCreatedStaff(res *api.StaffCreated) {
	ok("Added %s", res.Staff.Name)
	warnSimulated(res.Simulated)
	if res.Staff.Username != "" {
		printField("username", res.Staff.Username)
	}
	if res.TempPassword != "" {
		printField("temp password", color.New(color.Bold).Sprint(res.TempPassword))
		warn("This password is shown once. Share it securely.")
	}
}

func warnSimulated(simulated bool) {
	if simulated {
		warn("simulated: the backend has no user endpoint, nothing was stored")
	}
}

type staffChangedOutput struct {
	Staff     records.Staff `json:"staff"`
	Simulated bool          `json:"simulated"`
}

func changedOutput(res *api.StaffChanged) staffChangedOutput {
	return staffChangedOutput{Staff: res.Staff, Simulated: res.Simulated}
}

func newStaffEditCmd() *cobra.Command {
	var in api.StaffInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an account; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			res, err := client.UpdateStaff(cmd.Context(), records.ID(args[0]), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), changedOutput(res))
			}
			ok("Updated staff %s", args[0])
			warnSimulated(res.Simulated)
			return nil
		},
	}

	staffFlags(cmd, &in)
	return cmd
}

func newStaffDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete staff account %s?", args[0])); err != nil {
				return err
			}
			res, err := client.DeleteStaff(cmd.Context(), records.ID(args[0]))
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), changedOutput(res))
			}
			ok("Deleted staff %s", args[0])
			warnSimulated(res.Simulated)
			return nil
		},
	}
}
