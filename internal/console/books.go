package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
)

const (
	bookFieldTitle = iota
	bookFieldAuthor
	bookFieldYear
	bookFieldCopies
	bookFieldGenre
)

func newBooksPage(e env) page {
	return newResourcePage(e, resource[records.Book]{
		title: "Books",
		noun:  "book",
		columns: []tui.Column{
			{Title: "Title", Min: 12, Weight: 4},
			{Title: "Author", Min: 10, Weight: 3},
			{Title: "Genre", Min: 8, Weight: 2},
			{Title: "Year", Min: 4},
			{Title: "Copies", Min: 6},
		},
		row: func(b records.Book) tui.Row {
			return tui.Row{
				Key:   b.ID.String(),
				Cells: []string{b.Title, b.Author, b.Genre, yearText(b.PublishedYear), strconv.Itoa(b.AvailableCopies)},
				Style: tui.AvailabilityStyle(records.AvailabilityLevel(b.AvailableCopies)),
			}
		},
		label: func(b records.Book) string { return b.Title },
		load:  e.deps.Lists.Books,

		filterLabel:   "Genre",
		filterOptions: records.GenreNames,
		setFilter:     func(f *records.Filter, v string) { f.Genre = v },

		fields:   bookFields,
		validate: validateBook,
		create: func(ctx context.Context, v []string) (outcome, error) {
			b, err := e.deps.API.CreateBook(ctx, bookInput(v))
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Added %q", b.Title)}, nil
		},
		update: func(ctx context.Context, b records.Book, v []string) (outcome, error) {
			if _, err := e.deps.API.UpdateBook(ctx, b.ID, bookInput(v)); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Updated %q", v[bookFieldTitle])}, nil
		},
		remove: func(ctx context.Context, b records.Book) (outcome, error) {
			if err := e.deps.API.DeleteBook(ctx, b.ID); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Deleted %q", b.Title)}, nil
		},
	})
}

func bookFields(b *records.Book) []tui.Field {
	f := []tui.Field{
		{Label: "Title", Placeholder: "Book title"},
		{Label: "Author", Placeholder: "Author name", CharLimit: 100},
		{Label: "Year", Placeholder: "2024", CharLimit: 4},
		{Label: "Copies", Placeholder: "1", CharLimit: 5},
		{Label: "Genre ID", Placeholder: "numeric genre id", CharLimit: 10},
	}
	if b != nil {
		f[bookFieldTitle].Value = b.Title
		f[bookFieldAuthor].Value = b.Author
		if b.PublishedYear > 0 {
			f[bookFieldYear].Value = strconv.Itoa(b.PublishedYear)
		}
		f[bookFieldCopies].Value = strconv.Itoa(b.AvailableCopies)
		f[bookFieldGenre].Value = b.GenreID.String()
	}
	return f
}

func validateBook(v []string) error {
	switch {
	case v[bookFieldTitle] == "":
		return invalid("title", "Title is required")
	case v[bookFieldAuthor] == "":
		return invalid("author", "Author is required")
	case v[bookFieldGenre] == "":
		return invalid("genre_id", "Genre is required")
	}
	if n, _ := strconv.Atoi(v[bookFieldCopies]); n < 1 {
		return invalid("available_copies", "Available copies must be at least 1")
	}
	if y, _ := strconv.Atoi(v[bookFieldYear]); y < 1800 {
		return invalid("published_year", "Published year must be a number not less than 1800")
	}
	return nil
}

func bookInput(v []string) api.BookInput {
	return api.BookInput{
		Title:           v[bookFieldTitle],
		Author:          v[bookFieldAuthor],
		PublishedYear:   v[bookFieldYear],
		AvailableCopies: v[bookFieldCopies],
		GenreID:         v[bookFieldGenre],
	}
}

func yearText(y int) string {
	if y <= 0 {
		return "—"
	}
	return strconv.Itoa(y)
}
