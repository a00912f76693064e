package api

import (
	"context"
	"net/http"
	"time"

	"github.com/blackwell-systems/libconsole/internal/records"
)

type borrowPayload struct {
	MemberID int    `json:"member_id" validate:"gt=0"`
	BookID   int    `json:"book_id" validate:"gt=0"`
	DueDate  string `json:"due_date" validate:"required"`
}

type returnPayload struct {
	RecordID int `json:"borrow_record_id" validate:"gt=0"`
}

var borrowMessages = messages{
	"member_id":        "member_id must be a positive number",
	"book_id":          "book_id must be a positive number",
	"due_date":         "due_date must be a valid date",
	"borrow_record_id": "borrow_record_id must be a positive number",
}

// ListTransactions fetches all borrow records.
func (c *Client) ListTransactions(ctx context.Context) ([]records.Transaction, error) {
	raw, err := c.getRaw(ctx, c.url("borrow-records"))
	if err != nil {
		return nil, toError(err, "Failed to load transactions")
	}
	return records.NormalizeTransactions(raw, c.now()), nil
}

// DueDate is the default due date for a loan issued now.
func (c *Client) DueDate() time.Time {
	return c.now().UTC().AddDate(0, 0, c.loanDays)
}

// Borrow issues a book to a member. A blank due date defaults to the
// configured loan period from now.
func (c *Client) Borrow(ctx context.Context, memberID, bookID, due string) (records.Transaction, error) {
	p := borrowPayload{
		MemberID: number(memberID),
		BookID:   number(bookID),
		DueDate:  isoDate(due, c.DueDate()),
	}
	if err := check(p, borrowMessages); err != nil {
		return records.Transaction{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPost, c.url("borrow-records", "borrow"), p, &raw); err != nil {
		return records.Transaction{}, toError(err, "Failed to issue book")
	}
	return records.NormalizeTransaction(unwrap(raw, "borrow_record"), c.now()), nil
}

// Return records a book's return.
func (c *Client) Return(ctx context.Context, recordID string) error {
	p := returnPayload{RecordID: number(recordID)}
	if err := check(p, borrowMessages); err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, c.url("borrow-records", "return"), p, nil); err != nil {
		return toError(err, "Failed to return book (ensure borrow_record_id is a positive number)")
	}
	return nil
}

// Renew always fails with ErrRenewUnsupported.
func (c *Client) Renew(ctx context.Context, recordID string) error {
	return ErrRenewUnsupported
}
