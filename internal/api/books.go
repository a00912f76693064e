package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// BookQuery narrows a book list. Genres resolves bare genre ids to names.
type BookQuery struct {
	Search string
	Genre  string
	Genres []records.Genre
}

// BookInput is loosely typed form input. Both snake_case and camelCase
// sources map onto these fields before shaping.
type BookInput struct {
	Title           string
	Author          string
	PublishedYear   string
	AvailableCopies string
	GenreID         string
}

type bookPayload struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	PublishedYear   int    `json:"published_year" validate:"gte=1800"`
	AvailableCopies int    `json:"available_copies" validate:"gt=0"`
	GenreID         int    `json:"genre_id" validate:"gt=0"`
}

type bookPatch struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	PublishedYear   *int    `json:"published_year,omitempty" validate:"omitnil,gte=1800"`
	AvailableCopies *int    `json:"available_copies,omitempty" validate:"omitnil,gte=0"`
	GenreID         *int    `json:"genre_id,omitempty" validate:"omitnil,gt=0"`
}

var bookMessages = messages{
	"title":            "Title is required",
	"author":           "Author is required",
	"published_year":   "published_year must be a number >= 1800",
	"available_copies": "available_copies must be a positive number",
	"genre_id":         "genre_id must be a positive number",
}

var bookPatchMessages = messages{
	"published_year":   "published_year must be a number >= 1800",
	"available_copies": "available_copies must be a non-negative number",
	"genre_id":         "genre_id must be a positive number",
}

func shapeBook(in BookInput) (bookPayload, error) {
	p := bookPayload{
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		PublishedYear:   number(in.PublishedYear),
		AvailableCopies: number(in.AvailableCopies),
		GenreID:         number(in.GenreID),
	}
	return p, check(p, bookMessages)
}

func shapeBookPatch(in BookInput) (bookPatch, error) {
	p := bookPatch{
		Title:           optText(in.Title),
		Author:          optText(in.Author),
		PublishedYear:   optNumber(in.PublishedYear),
		AvailableCopies: optNumber(in.AvailableCopies),
		GenreID:         optNumber(in.GenreID),
	}
	return p, check(p, bookPatchMessages)
}

// ListBooks fetches the catalog.
func (c *Client) ListBooks(ctx context.Context, q BookQuery) ([]records.Book, error) {
	u := c.urlQuery(url.Values{"search": {strings.TrimSpace(q.Search)}, "genre": {q.Genre}}, "books")
	raw, err := c.getRaw(ctx, u)
	if err != nil {
		return nil, toError(err, "Failed to load books")
	}
	return records.NormalizeBooks(raw, q.Genres), nil
}

// GetBook fetches one book.
func (c *Client) GetBook(ctx context.Context, id records.ID) (records.Book, error) {
	raw, err := c.getRaw(ctx, c.url("books", id.String()))
	if err != nil {
		return records.Book{}, toError(err, "Failed to load book")
	}
	return records.NormalizeBook(unwrap(raw, "book"), nil), nil
}

// CreateBook validates in and creates a book.
func (c *Client) CreateBook(ctx context.Context, in BookInput) (records.Book, error) {
	p, err := shapeBook(in)
	if err != nil {
		return records.Book{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPost, c.url("books"), p, &raw); err != nil {
		return records.Book{}, toError(err, "Failed to create book")
	}
	return records.NormalizeBook(unwrap(raw, "book"), nil), nil
}

// UpdateBook sends only the fields present in in.
func (c *Client) UpdateBook(ctx context.Context, id records.ID, in BookInput) (records.Book, error) {
	p, err := shapeBookPatch(in)
	if err != nil {
		return records.Book{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPatch, c.url("books", id.String()), p, &raw); err != nil {
		return records.Book{}, toError(err, "Failed to update book")
	}
	return records.NormalizeBook(unwrap(raw, "book"), nil), nil
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id records.ID) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.url("books", id.String()), nil, nil); err != nil {
		return toError(err, "Failed to delete book")
	}
	return nil
}

// unwrap returns raw[key] (or raw["data"]) when raw is an envelope around a
// single record.
func unwrap(raw any, key string) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	for _, k := range []string{key, "data"} {
		if inner, ok := m[k].(map[string]any); ok {
			return inner
		}
	}
	return raw
}
