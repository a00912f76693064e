package api

import (
	"context"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// Summary fetches the circulation summary report.
func (c *Client) Summary(ctx context.Context) (records.Summary, error) {
	raw, err := c.getRaw(ctx, c.url("borrow-records", "reports", "summary"))
	if err != nil {
		return records.Summary{}, toError(err, "Failed to load summary report")
	}
	return records.NormalizeSummary(raw), nil
}

// Overdue fetches the overdue report.
func (c *Client) Overdue(ctx context.Context) ([]records.OverdueItem, error) {
	raw, err := c.getRaw(ctx, c.url("borrow-records", "reports", "overdue"))
	if err != nil {
		return nil, toError(err, "Failed to load overdue report")
	}
	return records.NormalizeOverdue(raw, c.now()), nil
}

// PopularGenres fetches the popular-genres report.
func (c *Client) PopularGenres(ctx context.Context) ([]records.GenreStat, error) {
	raw, err := c.getRaw(ctx, c.url("borrow-records", "reports", "popular-genres"))
	if err != nil {
		return nil, toError(err, "Failed to load popular genres report")
	}
	return records.NormalizeGenreStats(raw), nil
}
