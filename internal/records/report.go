package records

import (
	"sort"
	"time"
)

// NormalizeSummary reads the summary report, which may be flat or wrapped in
// a "summary" or "data" object.
func NormalizeSummary(raw any) Summary {
	m := object(raw)
	if inner := object(pick(m, "summary", "data")); inner != nil {
		m = inner
	}
	s := Summary{
		TotalBooks:    intOr(pick(m, "totalBooks", "total_books", "books"), 0),
		TotalMembers:  intOr(pick(m, "totalMembers", "total_members", "members"), 0),
		ActiveBorrows: intOr(pick(m, "activeBorrows", "active_borrows", "activeLoans", "active_loans", "borrowed"), 0),
		OverdueBooks:  intOr(pick(m, "overdueBooks", "overdue_books", "overdue"), 0),
	}
	if f, ok := toFloat(pick(m, "returnRate", "return_rate")); ok {
		s.ReturnRate = f
	}
	return s
}

// NormalizeOverdue flattens the overdue report.
func NormalizeOverdue(raw any, now time.Time) []OverdueItem {
	items := Collection(raw, "overdue", "records", "borrow_records")
	out := make([]OverdueItem, 0, len(items))
	for _, it := range items {
		t := NormalizeTransaction(it, now)
		days := DaysOverdue(t.DueDate, now)
		if n, ok := toInt(pick(object(it), "days_overdue", "daysOverdue")); ok {
			days = n
		}
		out = append(out, OverdueItem{Transaction: t, DaysOverdue: days})
	}
	return out
}

// NormalizeGenreStats flattens the popular-genres report, highest count first.
func NormalizeGenreStats(raw any) []GenreStat {
	items := Collection(raw, "genres", "popular_genres", "popularGenres")
	out := make([]GenreStat, 0, len(items))
	for _, it := range items {
		m := object(it)
		name := pickText(m, "name", "genre_name", "genreName")
		if name == "" {
			if g := object(pick(m, "genre")); g != nil {
				name = pickText(g, "name")
			} else {
				name = pickText(m, "genre")
			}
		}
		if s, ok := it.(string); ok {
			name = s
		}
		if name == "" {
			name = "Unknown"
		}
		count := intOr(pick(m, "count", "borrow_count", "borrowCount", "total", "borrows"), 0)
		out = append(out, GenreStat{Name: name, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DashboardStats are computed locally from list fetches.
type DashboardStats struct {
	TotalBooks   int `json:"total_books"`
	TotalMembers int `json:"total_members"`
	ActiveLoans  int `json:"active_loans"`
	OverdueBooks int `json:"overdue_books"`
}

// ComputeDashboard counts records by derived status.
func ComputeDashboard(books []Book, members []Member, txs []Transaction) DashboardStats {
	st := DashboardStats{TotalBooks: len(books), TotalMembers: len(members)}
	for _, t := range txs {
		switch t.Status {
		case StatusActive:
			st.ActiveLoans++
		case StatusOverdue:
			st.OverdueBooks++
		}
	}
	return st
}

// Recent returns at most n transactions from the head of the list.
func Recent(txs []Transaction, n int) []Transaction {
	if len(txs) <= n {
		return txs
	}
	return txs[:n]
}
