package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/charmbracelet/bubbles/key"
)

const (
	memberFieldName = iota
	memberFieldEmail
	memberFieldPhone
	memberFieldJoined
	memberFieldMax
)

func newMembersPage(e env) page {
	return newResourcePage(e, resource[records.Member]{
		title: "Members",
		noun:  "member",
		columns: []tui.Column{
			{Title: "Name", Min: 10, Weight: 3},
			{Title: "Email", Min: 12, Weight: 3},
			{Title: "Phone", Min: 10, Weight: 1},
			{Title: "Joined", Min: 10},
			{Title: "Loans", Min: 5},
			{Title: "Status", Min: 8},
		},
		row: func(m records.Member) tui.Row {
			loans := fmt.Sprintf("%d/%d", m.BooksIssued, m.MaxBooks)
			if m.AtCapacity() {
				loans = tui.StyleWarn.Render(loans)
			}
			return tui.Row{
				Key:   m.ID.String(),
				Cells: []string{m.Name, m.Email, m.Phone, dateText(m.JoinDate), loans, m.Status},
				Style: tui.StatusStyle(m.Status),
			}
		},
		label: func(m records.Member) string { return m.Name },
		load:  e.deps.Lists.Members,

		fields:   memberFields,
		validate: validateMember,
		create: func(ctx context.Context, v []string) (outcome, error) {
			m, err := e.deps.API.CreateMember(ctx, memberInput(v))
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Added member %s", m.Name)}, nil
		},
		update: func(ctx context.Context, m records.Member, v []string) (outcome, error) {
			if _, err := e.deps.API.UpdateMember(ctx, m.ID, memberInput(v)); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Updated member %s", v[memberFieldName])}, nil
		},
		remove: func(ctx context.Context, m records.Member) (outcome, error) {
			if err := e.deps.API.DeleteMember(ctx, m.ID); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Deleted member %s", m.Name)}, nil
		},

		actions: []action[records.Member]{{
			binding: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
			run: func(ctx context.Context, m records.Member) (outcome, error) {
				txs, err := e.deps.API.MemberHistory(ctx, m.ID)
				if err != nil {
					return outcome{}, err
				}
				return outcome{detail: historyDetail(m, txs)}, nil
			},
		}},
	})
}

func memberFields(m *records.Member) []tui.Field {
	f := []tui.Field{
		{Label: "Name", Placeholder: "Full name", CharLimit: 100},
		{Label: "Email", Placeholder: "name@example.com", CharLimit: 100},
		{Label: "Phone", Placeholder: "+1 555 0100", CharLimit: 30},
		{Label: "Joined", Placeholder: "YYYY-MM-DD (today)", CharLimit: 10},
		{Label: "Max books", Placeholder: "5", CharLimit: 3},
	}
	if m != nil {
		f[memberFieldName].Value = m.Name
		f[memberFieldEmail].Value = m.Email
		if m.Phone != "—" {
			f[memberFieldPhone].Value = m.Phone
		}
		if m.JoinDate != nil {
			f[memberFieldJoined].Value = m.JoinDate.Format("2006-01-02")
		}
		f[memberFieldMax].Value = strconv.Itoa(m.MaxBooks)
	}
	return f
}

func validateMember(v []string) error {
	switch {
	case v[memberFieldName] == "":
		return invalid("name", "Name is required")
	case v[memberFieldEmail] == "":
		return invalid("email", "Email is required")
	case !api.ValidEmail(v[memberFieldEmail]):
		return invalid("email", "Please enter a valid email")
	case v[memberFieldPhone] == "":
		return invalid("phone", "Phone is required")
	}
	return nil
}

func memberInput(v []string) api.MemberInput {
	return api.MemberInput{
		Name:     v[memberFieldName],
		Email:    v[memberFieldEmail],
		Phone:    v[memberFieldPhone],
		JoinDate: v[memberFieldJoined],
		MaxBooks: v[memberFieldMax],
	}
}

func historyDetail(m records.Member, txs []records.Transaction) *detail {
	d := &detail{title: "Borrowing history: " + m.Name}
	for _, t := range txs {
		d.lines = append(d.lines, fmt.Sprintf("%s  %s  due %s  %s",
			dateText(t.IssueDate),
			tui.PadOrTruncate(t.BookTitle, 30),
			dateText(t.DueDate),
			tui.StatusStyle(t.Status).Render(t.Status)))
	}
	return d
}
