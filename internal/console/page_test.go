package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui/picker"
)

func mount(t *testing.T, p page) {
	t.Helper()
	p.SetSize(100, 30)
	settle(p, p.Init())
}

func TestResourcePage_LoadsOnMount(t *testing.T) {
	fb := newFakeBackend()
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	if p.state != stateLoading {
		t.Fatalf("initial state = %v, want loading", p.state)
	}
	mount(t, p)
	if p.state != stateReady {
		t.Fatalf("state = %v, want ready", p.state)
	}
	if len(p.items) != 2 || len(p.table.Items()) != 2 {
		t.Errorf("got %d items, %d rows", len(p.items), len(p.table.Items()))
	}
	if p.demo {
		t.Error("live data marked as demo")
	}
	if v := p.View(); !strings.Contains(v, "Dune") || strings.Contains(v, "DEMO DATA") {
		t.Errorf("unexpected view:\n%s", v)
	}
}

func TestResourcePage_DemoBanner(t *testing.T) {
	fb := newFakeBackend()
	fb.listErr = errors.New("connection refused")
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	mount(t, p)
	if !p.demo || len(p.items) == 0 {
		t.Fatalf("demo = %v, items = %d", p.demo, len(p.items))
	}
	if !strings.Contains(p.View(), "DEMO DATA") {
		t.Error("demo banner missing")
	}
}

func TestResourcePage_UnauthorizedSignalsShell(t *testing.T) {
	fb := newFakeBackend()
	fb.listErr = api.ErrUnauthorized
	p := newGenresPage(testEnv(t, fb))
	p.SetSize(100, 30)
	msgs := settle(p, p.Init())
	found := false
	for _, m := range msgs {
		if e, ok := m.(expiredMsg); ok && e.gen == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("no expiredMsg among %T", msgs)
	}
}

func TestResourcePage_SearchIsDebounced(t *testing.T) {
	fb := newFakeBackend()
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	mount(t, p)
	before := fb.count("ListBooks")

	settle(p, p.Update(keyPress("/")))
	if !p.Capturing() {
		t.Fatal("search box should capture keys")
	}
	cmd := typeText(p, "dun")
	settle(p, cmd)

	if got := fb.count("ListBooks") - before; got != 1 {
		t.Errorf("fetches after typing = %d, want 1", got)
	}
	if p.filter.Search != "dun" {
		t.Errorf("filter.Search = %q", p.filter.Search)
	}
}

func TestResourcePage_FilterCycles(t *testing.T) {
	fb := newFakeBackend()
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	mount(t, p)

	settle(p, p.Update(keyPress("f")))
	if p.filter.Genre != "Science Fiction" {
		t.Errorf("after one f: Genre = %q", p.filter.Genre)
	}
	p.Update(keyPress("f"))
	p.Update(keyPress("f"))
	if p.filter.Genre != "" {
		t.Errorf("cycle should wrap to all, got %q", p.filter.Genre)
	}
}

func TestResourcePage_CloseCancelsPendingSearch(t *testing.T) {
	fb := newFakeBackend()
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	mount(t, p)
	p.Update(keyPress("/"))
	cmd := typeText(p, "x")
	if !p.debounce.Pending() {
		t.Fatal("expected a pending search")
	}
	before := fb.count("ListBooks")
	p.Close()
	if p.debounce.Pending() {
		t.Error("search still pending after Close")
	}
	settle(p, cmd)
	if fb.count("ListBooks") != before {
		t.Error("cancelled search still fetched")
	}
}

func TestResourcePage_DialogValidatesLocally(t *testing.T) {
	fb := newFakeBackend()
	p := newGenresPage(testEnv(t, fb)).(*resourcePage[records.Genre])
	mount(t, p)

	p.Update(keyPress("n"))
	if p.state != stateDialog {
		t.Fatalf("state = %v, want dialog", p.state)
	}
	typeText(p, "Poetry")
	p.Update(keyPress("ctrl+s"))
	if p.state != stateDialog {
		t.Fatalf("state = %v, want dialog after failed validation", p.state)
	}
	if p.form.Err() != "Description is required" {
		t.Errorf("form error = %q", p.form.Err())
	}
	if fb.count("CreateGenre") != 0 {
		t.Error("request sent despite local validation failure")
	}
}

func TestResourcePage_CreateReloads(t *testing.T) {
	fb := newFakeBackend()
	p := newGenresPage(testEnv(t, fb)).(*resourcePage[records.Genre])
	mount(t, p)
	before := fb.count("ListGenres")

	p.Update(keyPress("n"))
	typeText(p, "Poetry")
	p.Update(keyPress("enter"))
	typeText(p, "Verse")
	cmd := p.Update(keyPress("enter"))
	if p.state != stateSaving {
		t.Fatalf("state = %v, want saving", p.state)
	}
	settle(p, cmd)

	if p.state != stateReady {
		t.Fatalf("state = %v, want ready", p.state)
	}
	if fb.count("CreateGenre") != 1 {
		t.Errorf("CreateGenre calls = %d", fb.count("CreateGenre"))
	}
	if fb.count("ListGenres") != before+1 {
		t.Error("list not reloaded after create")
	}
	if p.flash != "Added genre Poetry" {
		t.Errorf("flash = %q", p.flash)
	}
}

func TestResourcePage_BackendErrorStaysInDialog(t *testing.T) {
	fb := newFakeBackend()
	fb.writeErr = &api.Error{Status: 409, Message: "Genre already exists"}
	p := newGenresPage(testEnv(t, fb)).(*resourcePage[records.Genre])
	mount(t, p)

	p.Update(keyPress("n"))
	typeText(p, "Fiction")
	p.Update(keyPress("tab"))
	typeText(p, "Novels")
	settle(p, p.Update(keyPress("ctrl+s")))

	if p.state != stateDialog {
		t.Fatalf("state = %v, want dialog", p.state)
	}
	if p.form.Err() != "Genre already exists" {
		t.Errorf("form error = %q", p.form.Err())
	}
	if v := p.form.Values(); v[0] != "Fiction" {
		t.Errorf("input lost: %q", v)
	}
}

func TestResourcePage_DeleteNeedsConfirmation(t *testing.T) {
	fb := newFakeBackend()
	p := newBooksPage(testEnv(t, fb)).(*resourcePage[records.Book])
	mount(t, p)

	p.Update(keyPress("d"))
	if p.state != stateConfirm {
		t.Fatalf("state = %v, want confirm", p.state)
	}
	p.Update(keyPress("n"))
	if p.state != stateReady || fb.count("DeleteBook") != 0 {
		t.Fatalf("declined delete: state %v, calls %d", p.state, fb.count("DeleteBook"))
	}

	p.Update(keyPress("d"))
	settle(p, p.Update(keyPress("y")))
	if fb.count("DeleteBook") != 1 {
		t.Errorf("DeleteBook calls = %d", fb.count("DeleteBook"))
	}
	if p.flash != `Deleted "Dune"` {
		t.Errorf("flash = %q", p.flash)
	}
}

func TestResourcePage_FailedActionShowsBanner(t *testing.T) {
	fb := newFakeBackend()
	p := newBorrowPage(testEnv(t, fb)).(*resourcePage[records.Transaction])
	mount(t, p)

	settle(p, p.Update(keyPress("w")))
	if p.state != stateReady {
		t.Fatalf("state = %v", p.state)
	}
	if !strings.Contains(p.banner, "not available") {
		t.Errorf("banner = %q", p.banner)
	}

	// Second row is already returned.
	p.table.Select(1)
	settle(p, p.Update(keyPress("r")))
	if fb.count("Return") != 0 {
		t.Error("returned loan sent to backend")
	}
	if p.banner != "This book has already been returned" {
		t.Errorf("banner = %q", p.banner)
	}
}

func TestResourcePage_ReturnReloads(t *testing.T) {
	fb := newFakeBackend()
	p := newBorrowPage(testEnv(t, fb)).(*resourcePage[records.Transaction])
	mount(t, p)
	before := fb.count("ListTransactions")

	settle(p, p.Update(keyPress("r")))
	if fb.count("Return") != 1 {
		t.Fatalf("Return calls = %d", fb.count("Return"))
	}
	if fb.count("ListTransactions") != before+1 {
		t.Error("transactions not reloaded after return")
	}
}

func TestBorrowPage_IssueValidation(t *testing.T) {
	fb := newFakeBackend()
	p := newBorrowPage(testEnv(t, fb)).(*resourcePage[records.Transaction])
	mount(t, p)
	p.Update(keyPress("n"))
	p.Update(keyPress("ctrl+s"))
	if p.form.Err() != "Select a member" {
		t.Errorf("form error = %q", p.form.Err())
	}
	if fb.count("Borrow") != 0 {
		t.Error("issued without a member")
	}
}

func TestBorrowPage_IssueFromChoices(t *testing.T) {
	fb := newFakeBackend()
	fb.members = []records.Member{{ID: "5", Name: "John Doe"}, {ID: "6", Name: "Jane Smith"}}
	p := newBorrowPage(testEnv(t, fb)).(*resourcePage[records.Transaction])
	mount(t, p)

	settle(p, p.Update(keyPress("n")))
	if v := p.form.Values(); v[issueFieldDue] != "2024-02-15" {
		t.Errorf("due date shown = %q", v[issueFieldDue])
	}
	if !strings.Contains(p.form.View(), "ctrl+p to choose from 2") {
		t.Fatal("member choices not loaded")
	}

	p.Update(keyPress("ctrl+p"))
	p.Update(keyPress("down"))
	p.Update(keyPress("enter"))
	p.Update(keyPress("tab"))
	p.Update(keyPress("ctrl+p"))
	p.Update(keyPress("enter"))
	v := p.form.Values()
	if v[issueFieldMember] != "6" || v[issueFieldBook] != "1" {
		t.Fatalf("chosen member %q book %q", v[issueFieldMember], v[issueFieldBook])
	}

	settle(p, p.Update(keyPress("ctrl+s")))
	if fb.count("Borrow") != 1 {
		t.Fatalf("Borrow calls = %d", fb.count("Borrow"))
	}
	// an untouched due date leaves the loan period to the client
	if d := fb.lastDue(); d != "" {
		t.Errorf("due sent = %q, want blank", d)
	}
}

func TestBorrowPage_StaleChoicesIgnored(t *testing.T) {
	fb := newFakeBackend()
	p := newBorrowPage(testEnv(t, fb)).(*resourcePage[records.Transaction])
	mount(t, p)

	p.Update(keyPress("n"))
	p.Update(keyPress("esc"))
	p.Update(keyPress("n"))
	p.Update(choicesMsg{page: p.id, seq: p.dialogSeq - 1, options: map[int][]picker.Option{
		issueFieldMember: {{Value: "9", Label: "Old"}},
	}})
	if strings.Contains(p.form.View(), "ctrl+p to choose") {
		t.Error("choices from a closed dialog were applied")
	}
}

func TestMembersPage_HistoryDetail(t *testing.T) {
	fb := newFakeBackend()
	p := newMembersPage(testEnv(t, fb)).(*resourcePage[records.Member])
	p.SetSize(100, 30)
	// Members come from the demo dataset as the fake lists none.
	fb.listErr = errors.New("offline")
	settle(p, p.Init())
	settle(p, p.Update(keyPress("h")))
	if p.state != stateDetail || p.detail == nil {
		t.Fatalf("state = %v", p.state)
	}
	if len(p.detail.lines) != 2 {
		t.Errorf("history lines = %d", len(p.detail.lines))
	}
	p.Update(keyPress("esc"))
	if p.state != stateReady {
		t.Errorf("state = %v after esc", p.state)
	}
}

func TestStaffPage_SimulatedDeleteIsFlagged(t *testing.T) {
	fb := newFakeBackend()
	fb.staff = []records.Staff{{ID: "2", Name: "John Librarian", Role: records.RoleLibrarian}}
	p := newStaffPage(testEnv(t, fb)).(*resourcePage[records.Staff])
	mount(t, p)

	p.Update(keyPress("d"))
	settle(p, p.Update(keyPress("y")))
	if fb.count("DeleteStaff") != 1 {
		t.Fatalf("DeleteStaff calls = %d", fb.count("DeleteStaff"))
	}
	if !strings.Contains(p.flash, "simulated") {
		t.Errorf("flash = %q", p.flash)
	}
}

func TestStaffPage_TempPasswordShownOnce(t *testing.T) {
	out := createdStaffOutcome(&api.StaffCreated{Staff: records.Staff{Name: "Ann", Username: "ann"}, TempPassword: "Xy7pQ2mN4k"})
	if out.detail == nil || !strings.Contains(strings.Join(out.detail.lines, "\n"), "Xy7pQ2mN4k") {
		t.Errorf("temp password not shown: %+v", out)
	}
	out = createdStaffOutcome(&api.StaffCreated{Staff: records.Staff{Name: "Ann"}, Simulated: true})
	if out.detail != nil || !strings.Contains(out.flash, "simulated") {
		t.Errorf("simulated outcome = %+v", out)
	}
}

func TestPageValidators(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"member phone", validateMember([]string{"Ann", "ann@x.com", "", "", ""}), "Phone is required"},
		{"member email", validateMember([]string{"Ann", "ann@x", "555", "", ""}), "Please enter a valid email"},
		{"member ok", validateMember([]string{"Ann", "ann@x.com", "555", "", ""}), ""},
		{"staff email", validateStaff([]string{"Ann", "", "ann", "admin", "", "", ""}), "Please provide a valid email address"},
		{"staff role", validateStaff([]string{"Ann", "", "ann@x.com", "owner", "", "", ""}), "Invalid role"},
		{"book copies", validateBook([]string{"T", "A", "2020", "0", "1"}), "Available copies must be at least 1"},
		{"book year", validateBook([]string{"T", "A", "1700", "2", "1"}), "Published year must be a number not less than 1800"},
		{"book ok", validateBook([]string{"T", "A", "2020", "2", "1"}), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if tt.err != nil {
				got = tt.err.Error()
				if !api.IsValidation(tt.err) {
					t.Errorf("%v is not a validation error", tt.err)
				}
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
