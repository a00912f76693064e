package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
)

func newGenresPage(e env) page {
	return newResourcePage(e, resource[records.Genre]{
		title: "Genres",
		noun:  "genre",
		columns: []tui.Column{
			{Title: "Name", Min: 10, Weight: 1},
			{Title: "Description", Min: 16, Weight: 3},
			{Title: "Books", Min: 5},
		},
		row: func(g records.Genre) tui.Row {
			return tui.Row{
				Key:   g.ID.String(),
				Cells: []string{g.Name, g.Description, strconv.Itoa(g.BookCount)},
				Style: tui.StyleTag,
			}
		},
		label: func(g records.Genre) string { return g.Name },
		load:  e.deps.Lists.Genres,

		fields: func(g *records.Genre) []tui.Field {
			f := []tui.Field{
				{Label: "Name", Placeholder: "Genre name", CharLimit: 60},
				{Label: "About", Placeholder: "Short description"},
			}
			if g != nil {
				f[0].Value = g.Name
				f[1].Value = g.Description
			}
			return f
		},
		validate: func(v []string) error {
			if v[0] == "" {
				return invalid("name", "Name is required")
			}
			if v[1] == "" {
				return invalid("description", "Description is required")
			}
			return nil
		},
		create: func(ctx context.Context, v []string) (outcome, error) {
			g, err := e.deps.API.CreateGenre(ctx, api.GenreInput{Name: v[0], Description: v[1]})
			if err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Added genre %s", g.Name)}, nil
		},
		update: func(ctx context.Context, g records.Genre, v []string) (outcome, error) {
			if _, err := e.deps.API.UpdateGenre(ctx, g.ID, api.GenreInput{Name: v[0], Description: v[1]}); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Updated genre %s", v[0])}, nil
		},
		remove: func(ctx context.Context, g records.Genre) (outcome, error) {
			if err := e.deps.API.DeleteGenre(ctx, g.ID); err != nil {
				return outcome{}, err
			}
			return outcome{flash: fmt.Sprintf("Deleted genre %s", g.Name)}, nil
		},
	})
}
