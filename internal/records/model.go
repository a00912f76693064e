// Package records holds the UI-level projections of backend entities and the
// normalizers that build them from loosely shaped JSON payloads.
//
// Every normalizer is total: it accepts any decoded JSON value and returns a
// usable record with stable defaults instead of failing.
package records

import (
	"strconv"
	"time"
)

// ID identifies a backend record. Backends return numeric or string ids, and
// records lacking one get a generated value, so the UI keeps them as strings.
type ID string

// Int returns the id as a positive integer, if it is one.
func (id ID) Int() (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (id ID) String() string { return string(id) }

// Roles understood by the console.
const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
)

// Roles is the enumerated set accepted for staff accounts.
var Roles = []string{RoleAdmin, RoleLibrarian}

// ValidRole reports whether r is one of Roles.
func ValidRole(r string) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// Transaction statuses derived on the client.
const (
	StatusActive   = "Active"
	StatusReturned = "Returned"
	StatusOverdue  = "Overdue"
)

// User is the authenticated identity.
type User struct {
	ID       ID     `json:"id" yaml:"id"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
}

// DisplayName returns the best human label for the user.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return "Unknown"
}

// Book is a catalog entry. ISBN and Description are display-only; the backend
// does not persist them.
type Book struct {
	ID              ID     `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	GenreID         ID     `json:"genre_id,omitempty" yaml:"genre_id,omitempty"`
	Genre           string `json:"genre" yaml:"genre"`
	AvailableCopies int    `json:"available_copies" yaml:"available_copies"`
	PublishedYear   int    `json:"published_year,omitempty" yaml:"published_year,omitempty"`
	ISBN            string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Member is a library patron.
type Member struct {
	ID             ID         `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Email          string     `json:"email" yaml:"email"`
	Phone          string     `json:"phone" yaml:"phone"`
	Status         string     `json:"status" yaml:"status"`
	MembershipType string     `json:"membership_type" yaml:"membership_type"`
	JoinDate       *time.Time `json:"join_date,omitempty" yaml:"join_date,omitempty"`
	BooksIssued    int        `json:"books_issued" yaml:"books_issued"`
	MaxBooks       int        `json:"max_books" yaml:"max_books"`
}

// AtCapacity reports whether the member has reached their borrowing limit.
// Display-only; the backend enforces the real rule.
func (m Member) AtCapacity() bool {
	return m.BooksIssued >= m.MaxBooks
}

// Transaction is a borrow record.
type Transaction struct {
	ID         ID         `json:"id" yaml:"id"`
	MemberName string     `json:"member_name" yaml:"member_name"`
	BookTitle  string     `json:"book_title" yaml:"book_title"`
	BookAuthor string     `json:"book_author" yaml:"book_author"`
	IssueDate  *time.Time `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	ReturnDate *time.Time `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	Status     string     `json:"status" yaml:"status"`
}

// Genre is a catalog category.
type Genre struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	BookCount   int    `json:"book_count" yaml:"book_count"`
}

// Staff is a console account. Department and Status are display-only.
type Staff struct {
	ID         ID         `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Username   string     `json:"username,omitempty" yaml:"username,omitempty"`
	Email      string     `json:"email" yaml:"email"`
	Phone      string     `json:"phone,omitempty" yaml:"phone,omitempty"`
	Role       string     `json:"role" yaml:"role"`
	Department string     `json:"department,omitempty" yaml:"department,omitempty"`
	JoinDate   *time.Time `json:"join_date,omitempty" yaml:"join_date,omitempty"`
	Status     string     `json:"status" yaml:"status"`
}

// Summary is the circulation summary report.
type Summary struct {
	TotalBooks    int     `json:"total_books" yaml:"total_books"`
	TotalMembers  int     `json:"total_members" yaml:"total_members"`
	ActiveBorrows int     `json:"active_borrows" yaml:"active_borrows"`
	OverdueBooks  int     `json:"overdue_books" yaml:"overdue_books"`
	ReturnRate    float64 `json:"return_rate" yaml:"return_rate"`
}

// OverdueItem is one row of the overdue report.
type OverdueItem struct {
	Transaction `yaml:",inline"`
	DaysOverdue int `json:"days_overdue" yaml:"days_overdue"`
}

// GenreStat is one row of the popular-genres report.
type GenreStat struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}
