package records_test

import (
	"testing"

	"github.com/blackwell-systems/libconsole/internal/records"
)

func TestNormalizeBook_Variants(t *testing.T) {
	genres := []records.Genre{{ID: "2", Name: "Non-Fiction"}}
	tests := []struct {
		name string
		body string
		want records.Book
	}{
		{
			name: "snake case with nested genre",
			body: `{"id":1,"title":"Dune","author":"Herbert","available_copies":4,"published_year":1965,"genre":{"id":3,"name":"Science Fiction"}}`,
			want: records.Book{ID: "1", Title: "Dune", Author: "Herbert", AvailableCopies: 4, PublishedYear: 1965, GenreID: "3", Genre: "Science Fiction"},
		},
		{
			name: "camel case with flat genre",
			body: `{"_id":"abc","name":"Emma","writer":"Austen","availableCopies":"2","publishedYear":1815,"genreName":"Fiction"}`,
			want: records.Book{ID: "abc", Title: "Emma", Author: "Austen", AvailableCopies: 2, PublishedYear: 1815, Genre: "Fiction"},
		},
		{
			name: "genre by id lookup",
			body: `{"id":5,"title":"Cosmos","author":"Sagan","genre_id":2,"available_copies":-3}`,
			want: records.Book{ID: "5", Title: "Cosmos", Author: "Sagan", GenreID: "2", Genre: "Non-Fiction"},
		},
		{
			name: "defaults",
			body: `{"id":6}`,
			want: records.Book{ID: "6", Title: "Untitled", Author: "Unknown", Genre: "Unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := records.NormalizeBook(decode(t, tt.body), genres)
			if got != tt.want {
				t.Errorf("NormalizeBook =\n  %+v\nwant\n  %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeBook_GeneratedID(t *testing.T) {
	a := records.NormalizeBook(decode(t, `{"title":"x"}`), nil)
	b := records.NormalizeBook(decode(t, `{"title":"y"}`), nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct generated ids, got %q and %q", a.ID, b.ID)
	}
}

func TestAvailabilityLevel(t *testing.T) {
	for copies, want := range map[int]string{-1: "none", 0: "none", 1: "low", 2: "low", 3: "ok", 40: "ok"} {
		if got := records.AvailabilityLevel(copies); got != want {
			t.Errorf("AvailabilityLevel(%d) = %q, want %q", copies, got, want)
		}
	}
}

func TestNormalizeMember(t *testing.T) {
	m := records.NormalizeMember(decode(t, `{"member_id":7,"first_name":"Jane","last_name":"Roe","email":"jane@x.com","is_active":false,"max_books":0,"active_loans":2,"join_date":"2024-01-15T00:00:00.000Z"}`), 0)
	if m.ID != "7" || m.Name != "Jane Roe" || m.Email != "jane@x.com" {
		t.Errorf("identity fields: %+v", m)
	}
	if m.Status != "Inactive" {
		t.Errorf("Status = %q, want Inactive", m.Status)
	}
	if m.MaxBooks != 5 {
		t.Errorf("MaxBooks = %d, want 5", m.MaxBooks)
	}
	if m.BooksIssued != 2 || m.Phone != "—" || m.MembershipType != "Public" {
		t.Errorf("defaults: %+v", m)
	}
	if m.JoinDate == nil || m.JoinDate.Year() != 2024 {
		t.Errorf("JoinDate = %v", m.JoinDate)
	}
}

func TestNormalizeMember_BadDate(t *testing.T) {
	m := records.NormalizeMember(decode(t, `{"name":"A","join_date":"not a date"}`), 3)
	if m.JoinDate != nil {
		t.Errorf("JoinDate = %v, want nil", m.JoinDate)
	}
	if m.ID != "4" {
		t.Errorf("positional ID = %q, want 4", m.ID)
	}
}

func TestMemberAtCapacity(t *testing.T) {
	if !(records.Member{BooksIssued: 5, MaxBooks: 5}).AtCapacity() {
		t.Error("5/5 should be at capacity")
	}
	if (records.Member{BooksIssued: 4, MaxBooks: 5}).AtCapacity() {
		t.Error("4/5 should not be at capacity")
	}
}

func TestNormalizeGenres(t *testing.T) {
	genres := records.NormalizeGenres(decode(t, `{"genres":["Fiction",{"id":9,"name":"Poetry","books":[1,2,3]},{"genre_id":4,"title":"Drama","book_count":"11"}]}`))
	if len(genres) != 3 {
		t.Fatalf("got %d genres", len(genres))
	}
	if genres[0] != (records.Genre{ID: "1", Name: "Fiction"}) {
		t.Errorf("genres[0] = %+v", genres[0])
	}
	if genres[1].ID != "9" || genres[1].BookCount != 3 {
		t.Errorf("genres[1] = %+v", genres[1])
	}
	if genres[2].Name != "Drama" || genres[2].BookCount != 11 {
		t.Errorf("genres[2] = %+v", genres[2])
	}
	if g := records.GenreByName(genres, "Poetry"); g == nil || g.ID != "9" {
		t.Errorf("GenreByName(Poetry) = %+v", g)
	}
	if g := records.GenreByName(genres, "Nope"); g != nil {
		t.Errorf("GenreByName(Nope) = %+v, want nil", g)
	}
}

func TestNormalizeStaff(t *testing.T) {
	list := records.NormalizeStaffList(decode(t, `{"users":[{"id":1,"username":"jdoe","email":"j@x.com"},{"name":"Ann","role":"admin","status":"On Leave"}]}`))
	if len(list) != 2 {
		t.Fatalf("got %d staff", len(list))
	}
	if list[0].Name != "jdoe" || list[0].Role != records.RoleLibrarian || list[0].Status != "Active" {
		t.Errorf("list[0] = %+v", list[0])
	}
	if list[1].ID != "2" || list[1].Role != records.RoleAdmin || list[1].Status != "On Leave" {
		t.Errorf("list[1] = %+v", list[1])
	}
}

func TestNormalizeUser(t *testing.T) {
	u := records.NormalizeUser(decode(t, `{"sub":12,"email":"a@b.co"}`))
	if u.ID != "12" || u.Role != records.RoleLibrarian || u.DisplayName() != "a@b.co" {
		t.Errorf("NormalizeUser = %+v", u)
	}
}

func TestIDInt(t *testing.T) {
	tests := []struct {
		id   records.ID
		n    int
		isOK bool
	}{
		{"5", 5, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		n, ok := tt.id.Int()
		if n != tt.n || ok != tt.isOK {
			t.Errorf("ID(%q).Int() = %d, %v; want %d, %v", tt.id, n, ok, tt.n, tt.isOK)
		}
	}
}

func TestValidRole(t *testing.T) {
	if !records.ValidRole("admin") || !records.ValidRole("librarian") {
		t.Error("enumerated roles rejected")
	}
	if records.ValidRole("Admin") || records.ValidRole("guest") {
		t.Error("unknown role accepted")
	}
}

func TestNormalizeSummary(t *testing.T) {
	s := records.NormalizeSummary(decode(t, `{"summary":{"total_books":10,"totalMembers":4,"active_loans":3,"overdue":1,"return_rate":"92.5%"}}`))
	want := records.Summary{TotalBooks: 10, TotalMembers: 4, ActiveBorrows: 3, OverdueBooks: 1, ReturnRate: 92.5}
	if s != want {
		t.Errorf("NormalizeSummary = %+v, want %+v", s, want)
	}
}

func TestNormalizeGenreStats_Sorted(t *testing.T) {
	stats := records.NormalizeGenreStats(decode(t, `[{"name":"A","count":2},{"genre":{"name":"B"},"borrow_count":9},{"genre_name":"C","total":5}]`))
	if len(stats) != 3 {
		t.Fatalf("got %d stats", len(stats))
	}
	if stats[0].Name != "B" || stats[1].Name != "C" || stats[2].Name != "A" {
		t.Errorf("order = %+v", stats)
	}
}

func TestFilter_Books(t *testing.T) {
	books := []records.Book{
		{Title: "Dune", Author: "Herbert", Genre: "Science Fiction"},
		{Title: "Emma", Author: "Austen", Genre: "Fiction"},
		{Title: "Persuasion", Author: "Austen", Genre: "Fiction"},
	}
	tests := []struct {
		name   string
		filter records.Filter
		want   int
	}{
		{"empty", records.Filter{}, 3},
		{"search author", records.Filter{Search: "austen"}, 2},
		{"genre", records.Filter{Genre: "science fiction"}, 1},
		{"genre all", records.Filter{Genre: "all", Search: "  DUNE "}, 1},
		{"combined miss", records.Filter{Genre: "Fiction", Search: "herbert"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Books(books); len(got) != tt.want {
				t.Errorf("got %d books, want %d", len(got), tt.want)
			}
		})
	}
	if names := records.GenreNames(books); len(names) != 2 || names[0] != "Science Fiction" {
		t.Errorf("GenreNames = %v", names)
	}
}

func TestFilter_OtherResources(t *testing.T) {
	f := records.Filter{Search: "ann"}
	if got := f.Members([]records.Member{{Name: "Ann"}, {Name: "Bob", Email: "bob@x.com"}}); len(got) != 1 {
		t.Errorf("Members: %d", len(got))
	}
	if got := f.Genres([]records.Genre{{Name: "Poetry", Description: "annotated verse"}, {Name: "Drama"}}); len(got) != 1 {
		t.Errorf("Genres: %d", len(got))
	}
	if got := f.Staff([]records.Staff{{Name: "Joanna"}, {Name: "Ed"}}); len(got) != 1 {
		t.Errorf("Staff: %d", len(got))
	}
	st := records.Filter{Status: records.StatusOverdue}
	txs := []records.Transaction{{Status: records.StatusOverdue}, {Status: records.StatusActive}}
	if got := st.Transactions(txs); len(got) != 1 {
		t.Errorf("Transactions: %d", len(got))
	}
}
