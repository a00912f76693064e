package records

import "strings"

// Filter holds the local criteria a page applies after fetching.
type Filter struct {
	Search string // case-insensitive substring over the record's text fields
	Genre  string // books only; exact genre name, "" or "all" matches any
	Status string // members, transactions and staff; "" or "all" matches any
}

// Books returns the books matching all non-empty criteria.
func (f Filter) Books(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if !anyValue(f.Genre) && !strings.EqualFold(b.Genre, f.Genre) {
			continue
		}
		if !matchesSearch(f.Search, b.Title, b.Author, b.ISBN, b.Genre) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Members returns the members matching all non-empty criteria.
func (f Filter) Members(members []Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if !anyValue(f.Status) && !strings.EqualFold(m.Status, f.Status) {
			continue
		}
		if !matchesSearch(f.Search, m.Name, m.Email, m.Phone, string(m.ID)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Transactions returns the borrow records matching all non-empty criteria.
func (f Filter) Transactions(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !anyValue(f.Status) && !strings.EqualFold(t.Status, f.Status) {
			continue
		}
		if !matchesSearch(f.Search, t.MemberName, t.BookTitle, t.BookAuthor, string(t.ID)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Genres returns the genres whose name or description match.
func (f Filter) Genres(genres []Genre) []Genre {
	out := make([]Genre, 0, len(genres))
	for _, g := range genres {
		if !matchesSearch(f.Search, g.Name, g.Description) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Staff returns the staff accounts matching all non-empty criteria. Status is
// matched against the role.
func (f Filter) Staff(staff []Staff) []Staff {
	out := make([]Staff, 0, len(staff))
	for _, s := range staff {
		if !anyValue(f.Status) && !strings.EqualFold(s.Role, f.Status) {
			continue
		}
		if !matchesSearch(f.Search, s.Name, s.Username, s.Email, s.Department) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// GenreNames lists the distinct genre labels of books in first-seen order.
func GenreNames(books []Book) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range books {
		if b.Genre == "" || seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		out = append(out, b.Genre)
	}
	return out
}

func anyValue(v string) bool {
	return v == "" || strings.EqualFold(v, "all")
}

func matchesSearch(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
