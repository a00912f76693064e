package records

// BookKeys are the envelope properties probed for book lists.
var BookKeys = []string{"books"}

// NormalizeBook builds a Book from one decoded record. genres resolves a bare
// genre id to its name when the record carries no genre label.
func NormalizeBook(raw any, genres []Genre) Book {
	m := object(raw)

	b := Book{
		ID:              idFrom(m, -1, "id", "_id", "book_id"),
		Title:           pickText(m, "title", "name"),
		Author:          pickText(m, "author", "writer"),
		ISBN:            pickText(m, "isbn", "ISBN"),
		Description:     pickText(m, "description"),
		AvailableCopies: intOr(pick(m, "available_copies", "availableCopies"), 0),
		PublishedYear:   intOr(pick(m, "published_year", "publishedYear"), 0),
		GenreID:         ID(pickText(m, "genre_id", "genreId")),
	}
	if b.Title == "" {
		b.Title = "Untitled"
	}
	if b.Author == "" {
		b.Author = "Unknown"
	}
	if b.AvailableCopies < 0 {
		b.AvailableCopies = 0
	}

	// genre may be a nested object, a flat label, or only an id.
	if g := object(pick(m, "genre")); g != nil {
		b.Genre = pickText(g, "name", "title")
		if b.GenreID == "" {
			b.GenreID = ID(pickText(g, "id"))
		}
	}
	if b.Genre == "" {
		b.Genre = pickText(m, "genre_name", "genreName", "genre")
	}
	if b.Genre == "" && b.GenreID != "" {
		for _, g := range genres {
			if g.ID == b.GenreID {
				b.Genre = g.Name
				break
			}
		}
	}
	if b.Genre == "" {
		b.Genre = "Unknown"
	}
	return b
}

// NormalizeBooks flattens a book list payload.
func NormalizeBooks(raw any, genres []Genre) []Book {
	items := Collection(raw, BookKeys...)
	out := make([]Book, 0, len(items))
	for _, it := range items {
		out = append(out, NormalizeBook(it, genres))
	}
	return out
}

// AvailabilityLevel buckets a copy count for display: 0 none, 1-2 low, 3+ ok.
func AvailabilityLevel(copies int) string {
	switch {
	case copies <= 0:
		return "none"
	case copies <= 2:
		return "low"
	default:
		return "ok"
	}
}
