package library_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/demo"
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/records"
)

// fakeBackend answers every list with its fields, or err when set.
type fakeBackend struct {
	err     error
	books   []records.Book
	genres  []records.Genre
	members []records.Member
	txs     []records.Transaction
	staff   []records.Staff

	genresErr error
	lastQuery api.BookQuery
}

func (f *fakeBackend) ListBooks(ctx context.Context, q api.BookQuery) ([]records.Book, error) {
	f.lastQuery = q
	return f.books, f.err
}

func (f *fakeBackend) ListGenres(ctx context.Context) ([]records.Genre, error) {
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return f.genres, f.err
}

func (f *fakeBackend) ListMembers(ctx context.Context, search string) ([]records.Member, error) {
	return f.members, f.err
}

func (f *fakeBackend) ListTransactions(ctx context.Context) ([]records.Transaction, error) {
	return f.txs, f.err
}

func (f *fakeBackend) ListStaff(ctx context.Context) ([]records.Staff, error) {
	return f.staff, f.err
}

func (f *fakeBackend) Summary(ctx context.Context) (records.Summary, error) {
	return records.Summary{TotalBooks: 1}, f.err
}

func (f *fakeBackend) Overdue(ctx context.Context) ([]records.OverdueItem, error) {
	return nil, f.err
}

func (f *fakeBackend) PopularGenres(ctx context.Context) ([]records.GenreStat, error) {
	return []records.GenreStat{{Name: "Live", Count: 1}}, f.err
}

var ctx = context.Background()

func TestBooks_Live(t *testing.T) {
	fb := &fakeBackend{
		books:  []records.Book{{Title: "Dune", Genre: "Science Fiction"}, {Title: "Emma", Genre: "Fiction"}},
		genres: []records.Genre{{ID: "1", Name: "Fiction"}},
	}
	svc := library.New(fb)
	res, err := svc.Books(ctx, records.Filter{Genre: "Fiction"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Demo || len(res.Items) != 1 || res.Items[0].Title != "Emma" {
		t.Errorf("res = %+v", res)
	}
	if fb.lastQuery.Genre != "Fiction" || len(fb.lastQuery.Genres) != 1 {
		t.Errorf("query = %+v", fb.lastQuery)
	}

	if _, err := svc.Books(ctx, records.Filter{Genre: "all"}); err != nil {
		t.Fatal(err)
	}
	if fb.lastQuery.Genre != "" {
		t.Errorf("genre all sent as %q", fb.lastQuery.Genre)
	}
}

func TestFallback_ServesDemoAndLogs(t *testing.T) {
	fb := &fakeBackend{err: &api.Error{Message: "Failed to load"}}
	var logged []string
	svc := library.New(fb, library.WithLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))

	books, err := svc.Books(ctx, records.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if !books.Demo || len(books.Items) != 3 {
		t.Errorf("books = %+v", books)
	}
	staff, err := svc.Staff(ctx, records.Filter{})
	if err != nil || !staff.Demo || len(staff.Items) != 2 {
		t.Errorf("staff = %+v, %v", staff, err)
	}
	sum, err := svc.Summary(ctx)
	if err != nil || !sum.Demo || sum.Items.TotalBooks != 124 {
		t.Errorf("summary = %+v, %v", sum, err)
	}
	// books also logs the failed genre lookup
	if len(logged) != 4 {
		t.Errorf("logged = %v", logged)
	}
}

func TestBooks_GenreLookupFailureIsLogged(t *testing.T) {
	fb := &fakeBackend{
		books:     []records.Book{{Title: "Dune", GenreID: "2"}},
		genresErr: errors.New("genres offline"),
	}
	var logged []string
	svc := library.New(fb, library.WithLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))

	res, err := svc.Books(ctx, records.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Demo || len(res.Items) != 1 {
		t.Errorf("res = %+v", res)
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "genres offline") {
		t.Errorf("logged = %v", logged)
	}
}

func TestFallback_FiltersDemoData(t *testing.T) {
	svc := library.New(&fakeBackend{err: errors.New("offline")})
	res, err := svc.Books(ctx, records.Filter{Search: "orwell"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].Title != "1984" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestFallback_UnauthorizedSurfaces(t *testing.T) {
	unauthorized := fmt.Errorf("wrapped: %w", api.ErrUnauthorized)
	svc := library.New(&fakeBackend{err: unauthorized})
	if _, err := svc.Members(ctx, records.Filter{}); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("err = %v", err)
	}
}

func TestFallback_Disabled(t *testing.T) {
	svc := library.New(&fakeBackend{err: errors.New("offline")}, library.WithFallback(false))
	if _, err := svc.Genres(ctx, records.Filter{}); err == nil {
		t.Error("expected error with fallback disabled")
	}
}

func TestFallback_CustomDataset(t *testing.T) {
	ds := &demo.Dataset{Genres: []records.Genre{{ID: "1", Name: "Only"}}}
	svc := library.New(&fakeBackend{err: errors.New("offline")}, library.WithDataset(ds))
	res, err := svc.Genres(ctx, records.Filter{})
	if err != nil || len(res.Items) != 1 || res.Items[0].Name != "Only" {
		t.Errorf("res = %+v, %v", res, err)
	}
}

func TestDashboard(t *testing.T) {
	fb := &fakeBackend{
		books:   make([]records.Book, 4),
		members: make([]records.Member, 2),
	}
	for i := 0; i < 12; i++ {
		status := records.StatusActive
		if i%4 == 0 {
			status = records.StatusOverdue
		}
		fb.txs = append(fb.txs, records.Transaction{ID: records.ID(fmt.Sprint(i)), Status: status})
	}
	d, err := library.New(fb).Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := records.DashboardStats{TotalBooks: 4, TotalMembers: 2, ActiveLoans: 9, OverdueBooks: 3}
	if d.Stats != want || len(d.Recent) != library.RecentLimit || d.Demo {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestDashboard_DemoTransactions(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := library.New(&fakeBackend{err: errors.New("offline")}, library.WithClock(func() time.Time { return now }))
	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Demo || d.Stats.TotalBooks != 3 || d.Stats.OverdueBooks != 1 {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestReports(t *testing.T) {
	r, err := library.New(&fakeBackend{}).Reports(ctx)
	if err != nil || r.Demo || r.Summary.TotalBooks != 1 || r.PopularGenres[0].Name != "Live" {
		t.Errorf("reports = %+v, %v", r, err)
	}

	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r, err = library.New(&fakeBackend{err: errors.New("offline")}, library.WithClock(func() time.Time { return now })).Reports(ctx)
	if err != nil || !r.Demo || len(r.Overdue) != 1 || len(r.PopularGenres) != 4 {
		t.Errorf("demo reports = %+v, %v", r, err)
	}
}

func TestIssueChoices(t *testing.T) {
	fb := &fakeBackend{books: []records.Book{{ID: "7", Title: "Dune"}}}
	c, err := library.New(fb).IssueChoices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Books) != 1 || c.Books[0].Title != "Dune" {
		t.Errorf("books = %+v", c.Books)
	}
	// no members answered, so the demo members stand in
	if !c.Demo || len(c.Members) == 0 {
		t.Errorf("members = %+v, demo %v", c.Members, c.Demo)
	}

	c, err = library.New(fb, library.WithFallback(false)).IssueChoices(ctx)
	if err != nil || c.Demo || len(c.Members) != 0 {
		t.Errorf("without fallback: %+v, %v", c, err)
	}

	unauthorized := &fakeBackend{err: api.ErrUnauthorized}
	if _, err := library.New(unauthorized).IssueChoices(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("err = %v", err)
	}
}

func TestStaff_EmptyListingServesDemo(t *testing.T) {
	var logged []string
	svc := library.New(&fakeBackend{staff: []records.Staff{}}, library.WithLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))
	res, err := svc.Staff(ctx, records.Filter{})
	if err != nil || !res.Demo || len(res.Items) != 2 {
		t.Errorf("res = %+v, %v", res, err)
	}
	if len(logged) != 1 {
		t.Errorf("logged = %v", logged)
	}

	// a search that matches nobody is not an empty listing
	live := library.New(&fakeBackend{staff: []records.Staff{{ID: "1", Name: "Admin User"}}})
	res, err = live.Staff(ctx, records.Filter{Search: "nobody"})
	if err != nil || res.Demo || len(res.Items) != 0 {
		t.Errorf("filtered res = %+v, %v", res, err)
	}

	res, err = library.New(&fakeBackend{}, library.WithFallback(false)).Staff(ctx, records.Filter{})
	if err != nil || res.Demo || len(res.Items) != 0 {
		t.Errorf("without fallback: %+v, %v", res, err)
	}
}
