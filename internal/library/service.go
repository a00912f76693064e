// Package library serves the list views: it fetches from the backend,
// applies local filters, and substitutes the demo dataset when a fetch
// fails.
package library

import (
	"context"
	"errors"
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/demo"
	"github.com/blackwell-systems/libconsole/internal/records"
)

// Backend is the list surface of the api client.
type Backend interface {
	ListBooks(ctx context.Context, q api.BookQuery) ([]records.Book, error)
	ListGenres(ctx context.Context) ([]records.Genre, error)
	ListMembers(ctx context.Context, search string) ([]records.Member, error)
	ListTransactions(ctx context.Context) ([]records.Transaction, error)
	ListStaff(ctx context.Context) ([]records.Staff, error)
	Summary(ctx context.Context) (records.Summary, error)
	Overdue(ctx context.Context) ([]records.OverdueItem, error)
	PopularGenres(ctx context.Context) ([]records.GenreStat, error)
}

// Result is a list fetch. Demo is true when Items came from the demo
// dataset instead of the backend.
type Result[T any] struct {
	Items T
	Demo  bool
}

// Service provides list operations with demo fallback.
type Service struct {
	backend  Backend
	dataset  *demo.Dataset
	fallback bool
	logf     func(format string, args ...any)
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDataset replaces the built-in demo dataset.
func WithDataset(ds *demo.Dataset) Option {
	return func(s *Service) {
		if ds != nil {
			s.dataset = ds
		}
	}
}

// WithFallback enables or disables demo substitution. Enabled by default.
func WithFallback(enabled bool) Option {
	return func(s *Service) { s.fallback = enabled }
}

// WithLogf routes fetch failures that were masked by demo data.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// WithClock overrides the time used to derive demo transaction statuses.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend:  backend,
		dataset:  demo.Default(),
		fallback: true,
		logf:     func(string, ...any) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetch runs call and, when it fails with anything but an authentication
// rejection, logs the failure and serves sample instead.
func fetch[T any](s *Service, what string, call func() (T, error), sample func() T) (Result[T], error) {
	items, err := call()
	if err == nil {
		return Result[T]{Items: items}, nil
	}
	if !s.fallback || errors.Is(err, api.ErrUnauthorized) {
		return Result[T]{}, err
	}
	s.logf("%s: %v (showing demo data)", what, err)
	return Result[T]{Items: sample(), Demo: true}, nil
}

// Books lists books matching f. Genre names are resolved from the genre
// list when the book records carry only ids.
func (s *Service) Books(ctx context.Context, f records.Filter) (Result[[]records.Book], error) {
	return fetch(s, "books", func() ([]records.Book, error) {
		genres, err := s.backend.ListGenres(ctx)
		if err != nil {
			s.logf("genres: %v (genre names not resolved)", err)
		}
		genre := f.Genre
		if genre == "all" {
			genre = ""
		}
		books, err := s.backend.ListBooks(ctx, api.BookQuery{Search: f.Search, Genre: genre, Genres: genres})
		if err != nil {
			return nil, err
		}
		return f.Books(books), nil
	}, func() []records.Book { return f.Books(s.dataset.Books) })
}

// Genres lists genres matching f.
func (s *Service) Genres(ctx context.Context, f records.Filter) (Result[[]records.Genre], error) {
	return fetch(s, "genres", func() ([]records.Genre, error) {
		genres, err := s.backend.ListGenres(ctx)
		if err != nil {
			return nil, err
		}
		return f.Genres(genres), nil
	}, func() []records.Genre { return f.Genres(s.dataset.Genres) })
}

// Members lists members matching f.
func (s *Service) Members(ctx context.Context, f records.Filter) (Result[[]records.Member], error) {
	return fetch(s, "members", func() ([]records.Member, error) {
		members, err := s.backend.ListMembers(ctx, f.Search)
		if err != nil {
			return nil, err
		}
		return f.Members(members), nil
	}, func() []records.Member { return f.Members(s.dataset.Members) })
}

// Transactions lists borrow records matching f.
func (s *Service) Transactions(ctx context.Context, f records.Filter) (Result[[]records.Transaction], error) {
	return fetch(s, "transactions", func() ([]records.Transaction, error) {
		txs, err := s.backend.ListTransactions(ctx)
		if err != nil {
			return nil, err
		}
		return f.Transactions(txs), nil
	}, func() []records.Transaction { return f.Transactions(s.dataset.TransactionsAt(s.now())) })
}

// errNoStaff marks a staff listing with no accounts at all.
var errNoStaff = errors.New("backend listed no staff accounts")

// Staff lists staff accounts matching f. An empty listing is served the
// demo accounts.
func (s *Service) Staff(ctx context.Context, f records.Filter) (Result[[]records.Staff], error) {
	return fetch(s, "staff", func() ([]records.Staff, error) {
		staff, err := s.backend.ListStaff(ctx)
		if err != nil {
			return nil, err
		}
		if len(staff) == 0 && s.fallback {
			return nil, errNoStaff
		}
		return f.Staff(staff), nil
	}, func() []records.Staff { return f.Staff(s.dataset.Staff) })
}

// Summary fetches the summary report.
func (s *Service) Summary(ctx context.Context) (Result[records.Summary], error) {
	return fetch(s, "summary report", func() (records.Summary, error) {
		return s.backend.Summary(ctx)
	}, func() records.Summary { return s.dataset.Summary })
}

// Overdue fetches the overdue report.
func (s *Service) Overdue(ctx context.Context) (Result[[]records.OverdueItem], error) {
	return fetch(s, "overdue report", func() ([]records.OverdueItem, error) {
		return s.backend.Overdue(ctx)
	}, func() []records.OverdueItem { return s.dataset.OverdueAt(s.now()) })
}

// PopularGenres fetches the popular-genres report.
func (s *Service) PopularGenres(ctx context.Context) (Result[[]records.GenreStat], error) {
	return fetch(s, "popular genres report", func() ([]records.GenreStat, error) {
		return s.backend.PopularGenres(ctx)
	}, func() []records.GenreStat { return s.dataset.PopularGenres })
}

// IssueChoices are the members and books a loan can be issued for.
type IssueChoices struct {
	Members []records.Member
	Books   []records.Book
	Demo    bool
}

// IssueChoices lists every member and book for the issue dialog. A list
// that fails or comes back empty is replaced by the demo records.
func (s *Service) IssueChoices(ctx context.Context) (IssueChoices, error) {
	members, err := s.Members(ctx, records.Filter{})
	if err != nil {
		return IssueChoices{}, err
	}
	books, err := s.Books(ctx, records.Filter{})
	if err != nil {
		return IssueChoices{}, err
	}
	c := IssueChoices{Members: members.Items, Books: books.Items, Demo: members.Demo || books.Demo}
	if !s.fallback {
		return c, nil
	}
	if len(c.Members) == 0 {
		c.Members, c.Demo = s.dataset.Members, true
	}
	if len(c.Books) == 0 {
		c.Books, c.Demo = s.dataset.Books, true
	}
	return c, nil
}

// Dashboard is the landing view: counts computed from the lists plus the
// most recent transactions.
type Dashboard struct {
	Stats  records.DashboardStats
	Recent []records.Transaction
	Demo   bool
}

// RecentLimit is how many transactions the dashboard shows.
const RecentLimit = 10

// Dashboard fetches books, members and transactions and computes the
// landing statistics. Demo is set when any of the three fell back.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	books, err := s.Books(ctx, records.Filter{})
	if err != nil {
		return Dashboard{}, err
	}
	members, err := s.Members(ctx, records.Filter{})
	if err != nil {
		return Dashboard{}, err
	}
	txs, err := s.Transactions(ctx, records.Filter{})
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Stats:  records.ComputeDashboard(books.Items, members.Items, txs.Items),
		Recent: records.Recent(txs.Items, RecentLimit),
		Demo:   books.Demo || members.Demo || txs.Demo,
	}, nil
}

// Reports bundles the three admin reports.
type Reports struct {
	Summary       records.Summary
	Overdue       []records.OverdueItem
	PopularGenres []records.GenreStat
	Demo          bool
}

// Reports fetches all admin reports.
func (s *Service) Reports(ctx context.Context) (Reports, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return Reports{}, err
	}
	over, err := s.Overdue(ctx)
	if err != nil {
		return Reports{}, err
	}
	pop, err := s.PopularGenres(ctx)
	if err != nil {
		return Reports{}, err
	}
	return Reports{
		Summary:       sum.Items,
		Overdue:       over.Items,
		PopularGenres: pop.Items,
		Demo:          sum.Demo || over.Demo || pop.Demo,
	}, nil
}
