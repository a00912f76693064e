package records

import (
	"strings"
	"time"
)

// TransactionKeys are the envelope properties probed for borrow-record lists.
var TransactionKeys = []string{"transactions", "borrow_records", "records"}

// DeriveStatus applies the borrow status rule: a return date or a raw status
// mentioning "return" means Returned; otherwise a due date before now means
// Overdue; anything else is Active.
func DeriveStatus(raw string, due, returned *time.Time, now time.Time) string {
	if returned != nil || strings.Contains(strings.ToLower(raw), "return") {
		return StatusReturned
	}
	if due != nil && due.Before(now) {
		return StatusOverdue
	}
	return StatusActive
}

// NormalizeTransaction builds a Transaction from one decoded borrow record.
// now is the reference time for overdue derivation.
func NormalizeTransaction(raw any, now time.Time) Transaction {
	m := object(raw)

	t := Transaction{
		ID:         idFrom(m, -1, "id", "record_id", "borrow_record_id", "transactionId", "transaction_id"),
		MemberName: pickText(m, "memberName", "member_name"),
		BookTitle:  pickText(m, "bookTitle", "book_title"),
		BookAuthor: pickText(m, "bookAuthor", "book_author"),
		IssueDate:  pickTime(m, "issueDate", "issued_at", "borrow_date", "borrowDate", "created_at", "createdAt"),
		DueDate:    pickTime(m, "dueDate", "due_date"),
		ReturnDate: pickTime(m, "returnDate", "return_date", "returned_at"),
	}

	if t.MemberName == "" {
		t.MemberName = MemberLabel(pick(m, "member", "member_obj", "user", "borrower"))
	}
	book := pick(m, "book", "book_obj", "item")
	if t.BookTitle == "" {
		t.BookTitle = bookTitle(book)
	}
	if t.BookAuthor == "" {
		t.BookAuthor = bookAuthor(book)
	}

	if t.MemberName == "" {
		t.MemberName = "Unknown Member"
	}
	if t.BookTitle == "" {
		t.BookTitle = "Untitled"
	}
	if t.BookAuthor == "" {
		t.BookAuthor = "Unknown"
	}

	t.Status = DeriveStatus(pickText(m, "status"), t.DueDate, t.ReturnDate, now)
	return t
}

// NormalizeTransactions flattens a borrow-record list payload.
func NormalizeTransactions(raw any, now time.Time) []Transaction {
	items := Collection(raw, TransactionKeys...)
	out := make([]Transaction, 0, len(items))
	for _, it := range items {
		out = append(out, NormalizeTransaction(it, now))
	}
	return out
}

func bookTitle(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if s := pickText(v, "title", "name"); s != "" {
			return s
		}
		if s := pickText(v, "id"); s != "" {
			return "Book #" + s
		}
	}
	return ""
}

func bookAuthor(raw any) string {
	if v, ok := raw.(map[string]any); ok {
		return pickText(v, "author", "writer")
	}
	return ""
}

// DaysOverdue is the number of whole days a due date lies before now.
func DaysOverdue(due *time.Time, now time.Time) int {
	if due == nil || !due.Before(now) {
		return 0
	}
	return int(now.Sub(*due).Hours() / 24)
}
