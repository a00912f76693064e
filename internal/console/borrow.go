package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/blackwell-systems/libconsole/internal/tui/picker"
	"github.com/charmbracelet/bubbles/key"
)

const (
	issueFieldMember = iota
	issueFieldBook
	issueFieldDue
)

var loanStatuses = []string{records.StatusActive, records.StatusOverdue, records.StatusReturned}

func newBorrowPage(e env) page {
	return newResourcePage(e, resource[records.Transaction]{
		title: "Borrow / Return",
		noun:  "loan",
		columns: []tui.Column{
			{Title: "Member", Min: 10, Weight: 2},
			{Title: "Book", Min: 12, Weight: 3},
			{Title: "Issued", Min: 10},
			{Title: "Due", Min: 10},
			{Title: "Returned", Min: 10},
			{Title: "Status", Min: 8},
		},
		row: func(t records.Transaction) tui.Row {
			return tui.Row{
				Key:   t.ID.String(),
				Cells: []string{t.MemberName, t.BookTitle, dateText(t.IssueDate), dateText(t.DueDate), dateText(t.ReturnDate), t.Status},
				Style: tui.StatusStyle(t.Status),
			}
		},
		label: func(t records.Transaction) string { return t.BookTitle },
		load:  e.deps.Lists.Transactions,

		filterLabel:   "Status",
		filterOptions: func([]records.Transaction) []string { return loanStatuses },
		setFilter:     func(f *records.Filter, v string) { f.Status = v },

		fields: func(*records.Transaction) []tui.Field {
			return []tui.Field{
				{Label: "Member ID", Placeholder: "numeric member id", CharLimit: 10},
				{Label: "Book ID", Placeholder: "numeric book id", CharLimit: 10},
				{Label: "Due date", Value: dueText(e.deps.API), Placeholder: "YYYY-MM-DD", CharLimit: 10},
			}
		},
		choices: func(ctx context.Context) (map[int][]picker.Option, error) {
			c, err := e.deps.Lists.IssueChoices(ctx)
			if err != nil {
				return nil, err
			}
			return map[int][]picker.Option{
				issueFieldMember: memberOptions(c.Members),
				issueFieldBook:   bookOptions(c.Books),
			}, nil
		},
		validate: validateIssue,
		create: func(ctx context.Context, v []string) (outcome, error) {
			due := v[issueFieldDue]
			if due == dueText(e.deps.API) {
				// untouched prefill: the client applies the loan period from now
				due = ""
			}
			t, err := e.deps.API.Borrow(ctx, v[issueFieldMember], v[issueFieldBook], due)
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Issued %s to %s, due %s", t.BookTitle, t.MemberName, dateText(t.DueDate))}, nil
		},

		actions: []action[records.Transaction]{
			{
				binding: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "return")),
				run: func(ctx context.Context, t records.Transaction) (outcome, error) {
					if t.Status == records.StatusReturned {
						return outcome{}, invalid("borrow_record_id", "This book has already been returned")
					}
					if err := e.deps.API.Return(ctx, t.ID.String()); err != nil {
						return outcome{}, err
					}
					return outcome{flash: fmt.Sprintf("Returned %q", t.BookTitle)}, nil
				},
			},
			{
				binding: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "renew")),
				run: func(ctx context.Context, t records.Transaction) (outcome, error) {
					if err := e.deps.API.Renew(ctx, t.ID.String()); err != nil {
						return outcome{}, err
					}
					return outcome{flash: fmt.Sprintf("Renewed %q", t.BookTitle)}, nil
				},
			},
		},
	})
}

func validateIssue(v []string) error {
	switch {
	case v[issueFieldMember] == "":
		return invalid("member_id", "Select a member")
	case v[issueFieldBook] == "":
		return invalid("book_id", "Select a book")
	case v[issueFieldDue] == "":
		return invalid("due_date", "Choose a due date")
	}
	return nil
}

func dueText(b Backend) string {
	return b.DueDate().Format("2006-01-02")
}

func memberOptions(members []records.Member) []picker.Option {
	out := make([]picker.Option, len(members))
	for i, m := range members {
		label := m.Name
		if label == "" {
			label = "Member #" + m.ID.String()
		}
		detail := m.Email
		if m.AtCapacity() {
			detail += " · at limit"
		}
		out[i] = picker.Option{Value: m.ID.String(), Label: label, Detail: detail}
	}
	return out
}

func bookOptions(books []records.Book) []picker.Option {
	out := make([]picker.Option, len(books))
	for i, b := range books {
		label := b.Title
		if label == "" {
			label = "Book #" + b.ID.String()
		}
		detail := b.Author
		if detail != "" {
			detail += " · "
		}
		detail += strconv.Itoa(b.AvailableCopies) + " available"
		out[i] = picker.Option{Value: b.ID.String(), Label: label, Detail: detail}
	}
	return out
}
