package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeBackend serves lists, mutations and auth from memory.
type fakeBackend struct {
	mu sync.Mutex

	books   []records.Book
	genres  []records.Genre
	members []records.Member
	txs     []records.Transaction
	staff   []records.Staff

	listErr  error
	writeErr error
	user     records.User

	calls map[string]int
	due   string // last due date passed to Borrow
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		books: []records.Book{
			{ID: "1", Title: "Dune", Author: "Herbert", Genre: "Science Fiction", AvailableCopies: 3},
			{ID: "2", Title: "Emma", Author: "Austen", Genre: "Fiction", AvailableCopies: 1},
		},
		genres: []records.Genre{{ID: "1", Name: "Fiction", Description: "Novels"}},
		txs: []records.Transaction{
			{ID: "10", MemberName: "John Doe", BookTitle: "Dune", Status: records.StatusActive},
			{ID: "11", MemberName: "Jane Roe", BookTitle: "Emma", Status: records.StatusReturned},
		},
		user:  records.User{ID: "1", Email: "admin@library.com", Role: records.RoleAdmin},
		calls: make(map[string]int),
	}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListBooks(ctx context.Context, q api.BookQuery) ([]records.Book, error) {
	f.hit("ListBooks")
	return f.books, f.listErr
}

func (f *fakeBackend) ListGenres(ctx context.Context) ([]records.Genre, error) {
	f.hit("ListGenres")
	return f.genres, f.listErr
}

func (f *fakeBackend) ListMembers(ctx context.Context, search string) ([]records.Member, error) {
	return f.members, f.listErr
}

func (f *fakeBackend) ListTransactions(ctx context.Context) ([]records.Transaction, error) {
	f.hit("ListTransactions")
	return f.txs, f.listErr
}

func (f *fakeBackend) ListStaff(ctx context.Context) ([]records.Staff, error) {
	return f.staff, f.listErr
}

func (f *fakeBackend) Summary(ctx context.Context) (records.Summary, error) {
	return records.Summary{TotalBooks: 2}, f.listErr
}

func (f *fakeBackend) Overdue(ctx context.Context) ([]records.OverdueItem, error) {
	return nil, f.listErr
}

func (f *fakeBackend) PopularGenres(ctx context.Context) ([]records.GenreStat, error) {
	return nil, f.listErr
}

func (f *fakeBackend) CreateBook(ctx context.Context, in api.BookInput) (records.Book, error) {
	f.hit("CreateBook")
	return records.Book{Title: in.Title}, f.writeErr
}

func (f *fakeBackend) UpdateBook(ctx context.Context, id records.ID, in api.BookInput) (records.Book, error) {
	f.hit("UpdateBook")
	return records.Book{ID: id, Title: in.Title}, f.writeErr
}

func (f *fakeBackend) DeleteBook(ctx context.Context, id records.ID) error {
	f.hit("DeleteBook")
	return f.writeErr
}

func (f *fakeBackend) CreateMember(ctx context.Context, in api.MemberInput) (records.Member, error) {
	f.hit("CreateMember")
	return records.Member{Name: in.Name}, f.writeErr
}

func (f *fakeBackend) UpdateMember(ctx context.Context, id records.ID, in api.MemberInput) (records.Member, error) {
	f.hit("UpdateMember")
	return records.Member{ID: id, Name: in.Name}, f.writeErr
}

func (f *fakeBackend) DeleteMember(ctx context.Context, id records.ID) error {
	f.hit("DeleteMember")
	return f.writeErr
}

func (f *fakeBackend) MemberHistory(ctx context.Context, id records.ID) ([]records.Transaction, error) {
	f.hit("MemberHistory")
	return f.txs, f.writeErr
}

func (f *fakeBackend) DueDate() time.Time {
	return time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
}

func (f *fakeBackend) Borrow(ctx context.Context, memberID, bookID, due string) (records.Transaction, error) {
	f.hit("Borrow")
	f.mu.Lock()
	f.due = due
	f.mu.Unlock()
	return records.Transaction{MemberName: "Member #" + memberID, BookTitle: "Book #" + bookID}, f.writeErr
}

func (f *fakeBackend) lastDue() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due
}

func (f *fakeBackend) Return(ctx context.Context, recordID string) error {
	f.hit("Return")
	return f.writeErr
}

func (f *fakeBackend) Renew(ctx context.Context, recordID string) error {
	f.hit("Renew")
	return api.ErrRenewUnsupported
}

func (f *fakeBackend) CreateGenre(ctx context.Context, in api.GenreInput) (records.Genre, error) {
	f.hit("CreateGenre")
	return records.Genre{Name: in.Name}, f.writeErr
}

func (f *fakeBackend) UpdateGenre(ctx context.Context, id records.ID, in api.GenreInput) (records.Genre, error) {
	f.hit("UpdateGenre")
	return records.Genre{ID: id, Name: in.Name}, f.writeErr
}

func (f *fakeBackend) DeleteGenre(ctx context.Context, id records.ID) error {
	f.hit("DeleteGenre")
	return f.writeErr
}

func (f *fakeBackend) CreateStaff(ctx context.Context, in api.StaffInput) (*api.StaffCreated, error) {
	f.hit("CreateStaff")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &api.StaffCreated{Staff: records.Staff{Name: in.Name, Username: "ann"}, TempPassword: "Xy7pQ2mN4k"}, nil
}

func (f *fakeBackend) UpdateStaff(ctx context.Context, id records.ID, in api.StaffInput) (*api.StaffChanged, error) {
	f.hit("UpdateStaff")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &api.StaffChanged{Staff: records.Staff{ID: id, Name: in.Name}}, nil
}

func (f *fakeBackend) DeleteStaff(ctx context.Context, id records.ID) (*api.StaffChanged, error) {
	f.hit("DeleteStaff")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &api.StaffChanged{Staff: records.Staff{ID: id}, Simulated: true}, nil
}

// Authenticator

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	if password != "secret" {
		return nil, &api.Error{Status: 401, Message: "Invalid credentials"}
	}
	u := f.user
	return &api.LoginResult{Token: "tok", User: &u}, nil
}

func (f *fakeBackend) Profile(ctx context.Context) (records.User, error) {
	return f.user, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error { return nil }

func testDeps(t *testing.T, fb *fakeBackend, signedIn bool) Deps {
	t.Helper()
	store := session.New(fb, &session.MemoryTokenStore{})
	if signedIn {
		if err := store.Login(context.Background(), fb.user.Email, "secret"); err != nil {
			t.Fatal(err)
		}
	}
	return Deps{
		Session:  store,
		Lists:    library.New(fb),
		API:      fb,
		Debounce: 10 * time.Millisecond,
	}
}

func testEnv(t *testing.T, fb *fakeBackend) env {
	return env{ctx: context.Background(), deps: testDeps(t, fb, true), gen: 1}
}

// drain runs cmd, flattening batches, and returns the messages that arrive
// within a short window. Slow timers such as cursor blink are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var (
		mu   sync.Mutex
		out  []tea.Msg
		wg   sync.WaitGroup
		exec func(tea.Cmd)
	)
	exec = func(c tea.Cmd) {
		defer wg.Done()
		ch := make(chan tea.Msg, 1)
		go func() { ch <- c() }()
		select {
		case msg := <-ch:
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					if bc != nil {
						wg.Add(1)
						go exec(bc)
					}
				}
				return
			}
			if msg != nil {
				mu.Lock()
				out = append(out, msg)
				mu.Unlock()
			}
		case <-time.After(200 * time.Millisecond):
		}
	}
	wg.Add(1)
	exec(cmd)
	wg.Wait()
	return out
}

// interesting drops animation and cursor messages.
func interesting(msg tea.Msg) bool {
	if _, ok := msg.(spinner.TickMsg); ok {
		return false
	}
	name := fmt.Sprintf("%T", msg)
	return !strings.Contains(name, "cursor.") && !strings.Contains(name, "textinput.") && !strings.Contains(name, "tui.ClearActiveCmdMsg")
}

// settle feeds p the results of cmd until no more interesting messages come.
// It returns every message delivered.
func settle(p page, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	for round := 0; round < 6 && cmd != nil; round++ {
		var next []tea.Cmd
		for _, msg := range drain(cmd) {
			if !interesting(msg) {
				continue
			}
			seen = append(seen, msg)
			next = append(next, p.Update(msg))
		}
		cmd = tea.Batch(next...)
	}
	return seen
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s one rune at a time and returns the last command.
func typeText(p page, s string) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range s {
		cmds = append(cmds, p.Update(keyPress(string(r))))
	}
	return tea.Batch(cmds...)
}
