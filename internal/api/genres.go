package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// GenreInput is genre form input.
type GenreInput struct {
	Name        string
	Description string
}

type genrePayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

var genreMessages = messages{"name": "Name is required"}

func shapeGenre(in GenreInput) (genrePayload, error) {
	p := genrePayload{Name: strings.TrimSpace(in.Name), Description: strings.TrimSpace(in.Description)}
	return p, check(p, genreMessages)
}

// ListGenres fetches the genre taxonomy.
func (c *Client) ListGenres(ctx context.Context) ([]records.Genre, error) {
	raw, err := c.getRaw(ctx, c.url("genres"))
	if err != nil {
		return nil, toError(err, "Failed to load genres")
	}
	return records.NormalizeGenres(raw), nil
}

// CreateGenre validates in and creates a genre.
func (c *Client) CreateGenre(ctx context.Context, in GenreInput) (records.Genre, error) {
	p, err := shapeGenre(in)
	if err != nil {
		return records.Genre{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPost, c.url("genres"), p, &raw); err != nil {
		return records.Genre{}, toError(err, "Failed to create genre")
	}
	return records.NormalizeGenre(unwrap(raw, "genre"), 0), nil
}

// UpdateGenre replaces a genre's name and description.
func (c *Client) UpdateGenre(ctx context.Context, id records.ID, in GenreInput) (records.Genre, error) {
	p, err := shapeGenre(in)
	if err != nil {
		return records.Genre{}, err
	}
	var raw any
	if err := c.doJSON(ctx, http.MethodPatch, c.url("genres", id.String()), p, &raw); err != nil {
		return records.Genre{}, toError(err, "Failed to update genre")
	}
	return records.NormalizeGenre(unwrap(raw, "genre"), 0), nil
}

// DeleteGenre removes a genre.
func (c *Client) DeleteGenre(ctx context.Context, id records.ID) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.url("genres", id.String()), nil, nil); err != nil {
		return toError(err, "Failed to delete genre")
	}
	return nil
}
