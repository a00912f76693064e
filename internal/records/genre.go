package records

// GenreKeys are the envelope properties probed for genre lists.
var GenreKeys = []string{"genres"}

// NormalizeGenre builds a Genre from one decoded record at position index.
// A bare string becomes a genre with that name.
func NormalizeGenre(raw any, index int) Genre {
	if s, ok := raw.(string); ok {
		return Genre{ID: idFrom(nil, index), Name: s}
	}
	m := object(raw)
	g := Genre{
		ID:          idFrom(m, index, "id", "genre_id", "_id"),
		Name:        pickText(m, "name", "title"),
		Description: pickText(m, "description"),
		BookCount:   intOr(pick(m, "bookCount", "book_count", "books_count"), 0),
	}
	if books, ok := m["books"].([]any); ok && g.BookCount == 0 {
		g.BookCount = len(books)
	}
	if g.Name == "" {
		g.Name = "Unknown"
	}
	return g
}

// NormalizeGenres flattens a genre list payload.
func NormalizeGenres(raw any) []Genre {
	items := Collection(raw, GenreKeys...)
	out := make([]Genre, 0, len(items))
	for i, it := range items {
		out = append(out, NormalizeGenre(it, i))
	}
	return out
}

// GenreByName returns the first genre whose name matches, or nil.
func GenreByName(genres []Genre, name string) *Genre {
	for i := range genres {
		if genres[i].Name == name {
			return &genres[i]
		}
	}
	return nil
}
