package console

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
)

const (
	staffFieldName = iota
	staffFieldUsername
	staffFieldEmail
	staffFieldRole
	staffFieldPhone
	staffFieldDepartment
	staffFieldPassword
)

func newStaffPage(e env) page {
	return newResourcePage(e, resource[records.Staff]{
		title: "Staff",
		noun:  "staff member",
		columns: []tui.Column{
			{Title: "Name", Min: 10, Weight: 2},
			{Title: "Username", Min: 8, Weight: 1},
			{Title: "Email", Min: 12, Weight: 2},
			{Title: "Role", Min: 9},
			{Title: "Department", Min: 10, Weight: 1},
			{Title: "Status", Min: 8},
		},
		row: func(s records.Staff) tui.Row {
			return tui.Row{
				Key:   s.ID.String(),
				Cells: []string{s.Name, s.Username, s.Email, tui.StyleTag.Render(s.Role), s.Department, s.Status},
				Style: tui.StatusStyle(s.Status),
			}
		},
		label: func(s records.Staff) string { return s.Name },
		load:  e.deps.Lists.Staff,

		filterLabel:   "Role",
		filterOptions: func([]records.Staff) []string { return records.Roles },
		setFilter:     func(f *records.Filter, v string) { f.Status = v },

		fields:   staffFields,
		validate: validateStaff,
		create: func(ctx context.Context, v []string) (outcome, error) {
			res, err := e.deps.API.CreateStaff(ctx, staffInput(v))
			if err != nil {
				return outcome{}, err
			}
			return createdStaffOutcome(res), nil
		},
		update: func(ctx context.Context, s records.Staff, v []string) (outcome, error) {
			res, err := e.deps.API.UpdateStaff(ctx, s.ID, staffInput(v))
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: simulatedNote(fmt.Sprintf("Updated %s", v[staffFieldName]), res.Simulated)}, nil
		},
		remove: func(ctx context.Context, s records.Staff) (outcome, error) {
			res, err := e.deps.API.DeleteStaff(ctx, s.ID)
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: simulatedNote(fmt.Sprintf("Deleted %s", s.Name), res.Simulated)}, nil
		},
	})
}

func staffFields(s *records.Staff) []tui.Field {
	f := []tui.Field{
		{Label: "Name", Placeholder: "Full name", CharLimit: 100},
		{Label: "Username", Placeholder: "derived from email when blank", CharLimit: 30},
		{Label: "Email", Placeholder: "name@library.com", CharLimit: 100},
		{Label: "Role", Placeholder: "admin | librarian", Value: records.RoleLibrarian, CharLimit: 9},
		{Label: "Phone", CharLimit: 30},
		{Label: "Department", CharLimit: 60},
		{Label: "Password", Placeholder: "generated when blank", Secret: true, CharLimit: 72},
	}
	if s != nil {
		f[staffFieldName].Value = s.Name
		f[staffFieldUsername].Value = s.Username
		f[staffFieldEmail].Value = s.Email
		f[staffFieldRole].Value = s.Role
		f[staffFieldPhone].Value = s.Phone
		f[staffFieldDepartment].Value = s.Department
		f[staffFieldPassword].Placeholder = "unchanged when blank"
	}
	return f
}

func validateStaff(v []string) error {
	switch {
	case v[staffFieldName] == "":
		return invalid("name", "Name is required")
	case v[staffFieldEmail] == "":
		return invalid("email", "Email is required")
	case !api.ValidEmail(v[staffFieldEmail]):
		return invalid("email", "Please provide a valid email address")
	case !records.ValidRole(v[staffFieldRole]):
		return invalid("role", "Invalid role")
	}
	return nil
}

func staffInput(v []string) api.StaffInput {
	return api.StaffInput{
		Name:       v[staffFieldName],
		Username:   v[staffFieldUsername],
		Email:      v[staffFieldEmail],
		Role:       v[staffFieldRole],
		Phone:      v[staffFieldPhone],
		Department: v[staffFieldDepartment],
		Password:   v[staffFieldPassword],
	}
}

func simulatedNote(flash string, simulated bool) string {
	if simulated {
		return flash + " (simulated: the backend has no user endpoint)"
	}
	return flash
}

func createdStaffOutcome(res *api.StaffCreated) outcome {
	flash := simulatedNote(fmt.Sprintf("Added %s", res.Staff.Name), res.Simulated)
	if res.TempPassword == "" {
		return outcome{flash: flash}
	}
	return outcome{
		flash: flash,
		detail: &detail{
			title: "Account created for " + res.Staff.Name,
			lines: []string{
				"Username:           " + res.Staff.Username,
				"Temporary password: " + tui.StyleHighlight.Render(res.TempPassword),
				"",
				tui.StyleWarn.Render("This password is shown once. Share it securely."),
			},
		},
	}
}
