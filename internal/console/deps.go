// Package console is the interactive admin console: a login view and the
// resource pages, switched by a shell model.
package console

import (
	"context"
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/session"
)

// Backend performs the mutations the pages issue. *api.Client satisfies it.
type Backend interface {
	CreateBook(ctx context.Context, in api.BookInput) (records.Book, error)
	UpdateBook(ctx context.Context, id records.ID, in api.BookInput) (records.Book, error)
	DeleteBook(ctx context.Context, id records.ID) error

	CreateMember(ctx context.Context, in api.MemberInput) (records.Member, error)
	UpdateMember(ctx context.Context, id records.ID, in api.MemberInput) (records.Member, error)
	DeleteMember(ctx context.Context, id records.ID) error
	MemberHistory(ctx context.Context, id records.ID) ([]records.Transaction, error)

	DueDate() time.Time
	Borrow(ctx context.Context, memberID, bookID, due string) (records.Transaction, error)
	Return(ctx context.Context, recordID string) error
	Renew(ctx context.Context, recordID string) error

	CreateGenre(ctx context.Context, in api.GenreInput) (records.Genre, error)
	UpdateGenre(ctx context.Context, id records.ID, in api.GenreInput) (records.Genre, error)
	DeleteGenre(ctx context.Context, id records.ID) error

	CreateStaff(ctx context.Context, in api.StaffInput) (*api.StaffCreated, error)
	UpdateStaff(ctx context.Context, id records.ID, in api.StaffInput) (*api.StaffChanged, error)
	DeleteStaff(ctx context.Context, id records.ID) (*api.StaffChanged, error)
}

// Deps are the collaborators of the console.
type Deps struct {
	Session  *session.Store
	Lists    *library.Service
	API      Backend
	Debounce time.Duration
	Logf     func(format string, args ...any)
}

func (d Deps) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

func (d Deps) debounce() time.Duration {
	if d.Debounce > 0 {
		return d.Debounce
	}
	return 300 * time.Millisecond
}

// env is what a page needs from the shell.
type env struct {
	ctx  context.Context
	deps Deps
	gen  int // session generation the page was opened in
}
