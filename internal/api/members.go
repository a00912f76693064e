package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// MemberInput is loosely typed member form input.
type MemberInput struct {
	Name     string
	Email    string
	Phone    string
	JoinDate string // YYYY-MM-DD or RFC 3339; defaults to today on create
	MaxBooks string
}

// memberPayload never carries membership_type or status; the backend
// rejects both.
type memberPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,mailshape"`
	Phone    string `json:"phone,omitempty"`
	JoinDate string `json:"join_date"`
	MaxBooks int    `json:"max_books,omitempty" validate:"gte=0"`
}

type memberPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitnil,mailshape"`
	Phone    *string `json:"phone,omitempty"`
	JoinDate *string `json:"join_date,omitempty"`
	MaxBooks *int    `json:"max_books,omitempty" validate:"omitnil,gt=0"`
}

var memberMessages = messages{
	"name":            "Name is required",
	"email.required":  "Email is required",
	"email.mailshape": "Please enter a valid email",
	"join_date":       "join_date must be a valid date",
	"max_books":       "max_books must be a positive number",
}

// isoDate normalizes a form date to RFC 3339 UTC. Blank input yields
// fallback; unparsable input yields "".
func isoDate(s string, fallback time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback.UTC().Format(time.RFC3339)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

func (c *Client) shapeMember(in MemberInput) (memberPayload, error) {
	p := memberPayload{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		JoinDate: isoDate(in.JoinDate, c.now()),
		MaxBooks: number(in.MaxBooks),
	}
	if err := check(p, memberMessages); err != nil {
		return p, err
	}
	if p.JoinDate == "" {
		return p, &ValidationError{Field: "join_date", Message: memberMessages["join_date"]}
	}
	return p, nil
}

func shapeMemberPatch(in MemberInput) (memberPatch, error) {
	p := memberPatch{
		Name:     optText(in.Name),
		Email:    optText(in.Email),
		Phone:    optText(in.Phone),
		MaxBooks: optNumber(in.MaxBooks),
	}
	if strings.TrimSpace(in.JoinDate) != "" {
		d := isoDate(in.JoinDate, time.Time{})
		if d == "" {
			return p, &ValidationError{Field: "join_date", Message: memberMessages["join_date"]}
		}
		p.JoinDate = &d
	}
	return p, check(p, memberMessages)
}

// ListMembers fetches the member registry.
func (c *Client) ListMembers(ctx context.Context, search string) ([]records.Member, error) {
	u := c.urlQuery(url.Values{"search": {strings.TrimSpace(search)}}, "members")
	raw, err := c.getRaw(ctx, u)
	if err != nil {
		return nil, toError(err, "Failed to load members")
	}
	return records.NormalizeMembers(raw), nil
}

// GetMember fetches one member.
func (c *Client) GetMember(ctx context.Context, id records.ID) (records.Member, error) {
	raw, err := c.getRaw(ctx, c.url("members", id.String()))
	if err != nil {
		return records.Member{}, toError(err, "Failed to load member")
	}
	return records.NormalizeMember(unwrap(raw, "member"), 0), nil
}

// CreateMember validates in and registers a member.
func (c *Client) CreateMember(ctx context.Context, in MemberInput) (records.Member, error) {
	p, err := c.shapeMember(in)
	if err != nil {
		return records.Member{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPost, c.url("members"), p, &raw); err != nil {
		return records.Member{}, toError(err, "Failed to create member")
	}
	return records.NormalizeMember(unwrap(raw, "member"), 0), nil
}

// UpdateMember trims in and sends only the fields present.
func (c *Client) UpdateMember(ctx context.Context, id records.ID, in MemberInput) (records.Member, error) {
	p, err := shapeMemberPatch(in)
	if err != nil {
		return records.Member{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPatch, c.url("members", id.String()), p, &raw); err != nil {
		return records.Member{}, toError(err, "Failed to update member")
	}
	return records.NormalizeMember(unwrap(raw, "member"), 0), nil
}

// DeleteMember removes a member.
func (c *Client) DeleteMember(ctx context.Context, id records.ID) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.url("members", id.String()), nil, nil); err != nil {
		return toError(err, "Failed to delete member")
	}
	return nil
}

// MemberHistory fetches a member's borrowing history.
func (c *Client) MemberHistory(ctx context.Context, id records.ID) ([]records.Transaction, error) {
	raw, err := c.getRaw(ctx, c.url("members", id.String(), "borrowing-history"))
	if err != nil {
		return nil, toError(err, "Failed to load borrowing history")
	}
	return records.NormalizeTransactions(raw, c.now()), nil
}
