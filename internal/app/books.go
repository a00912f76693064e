package app

import (
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/spf13/cobra"
)

var bookColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "TITLE", Min: 12},
	{Title: "AUTHOR", Min: 10},
	{Title: "GENRE", Min: 8},
	{Title: "YEAR", Min: 4},
	{Title: "COPIES", Min: 6},
}

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List and manage the catalog",
	}
	cmd.AddCommand(newBooksListCmd(), newBooksGetCmd(), newBooksAddCmd(), newBooksEditCmd(), newBooksDeleteCmd())
	return cmd
}

func newBooksListCmd() *cobra.Command {
	var f records.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Example: `  libconsole books list --search dune
  libconsole books list --genre "Science Fiction" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Books(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			rows := make([][]string, len(res.Items))
			for i, b := range res.Items {
				rows[i] = []string{b.ID.String(), b.Title, b.Author, orDash(b.Genre), yearText(b.PublishedYear), strconv.Itoa(b.AvailableCopies)}
			}
			printRows(cmd.OutOrStdout(), bookColumns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "Match title, author, ISBN or genre")
	cmd.Flags().StringVar(&f.Genre, "genre", "", "Only books of this genre")
	return cmd
}

func newBooksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			b, err := client.GetBook(cmd.Context(), records.ID(args[0]))
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), b)
			}
			header("Book: %s", b.ID)
			printField("title", b.Title)
			printField("author", b.Author)
			printField("genre", orDash(b.Genre))
			printField("year", yearText(b.PublishedYear))
			printField("copies", fmt.Sprintf("%d (%s)", b.AvailableCopies, records.AvailabilityLevel(b.AvailableCopies)))
			if b.ISBN != "" {
				printField("isbn", b.ISBN)
			}
			if b.Description != "" {
				printField("description", b.Description)
			}
			return nil
		},
	}
}

// bookFlags binds the book input flags shared by add and edit.
func bookFlags(cmd *cobra.Command, in *api.BookInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "Book title")
	cmd.Flags().StringVar(&in.Author, "author", "", "Author name")
	cmd.Flags().StringVar(&in.PublishedYear, "year", "", "Published year (1800 or later)")
	cmd.Flags().StringVar(&in.AvailableCopies, "copies", "", "Available copies")
	cmd.Flags().StringVar(&in.GenreID, "genre-id", "", "Numeric genre id")
}

func newBooksAddCmd() *cobra.Command {
	var in api.BookInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a book",
		Example: `  libconsole books add --title Dune --author "Frank Herbert" --year 1965 --copies 3 --genre-id 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if in.AvailableCopies == "" {
				in.AvailableCopies = "1"
			}
			v, err := fillMissing("Add Book", []tui.Field{
				{Label: "Title", Value: in.Title},
				{Label: "Author", Value: in.Author},
				{Label: "Year", Value: in.PublishedYear, Placeholder: "2024"},
				{Label: "Copies", Value: in.AvailableCopies},
				{Label: "Genre ID", Value: in.GenreID},
			}, 0, 1, 2, 4)
			if err != nil {
				return err
			}
			in = api.BookInput{Title: v[0], Author: v[1], PublishedYear: v[2], AvailableCopies: v[3], GenreID: v[4]}

			b, err := client.CreateBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), b)
			}
			ok("Added %q", b.Title)
			return nil
		},
	}

	bookFlags(cmd, &in)
	return cmd
}

func newBooksEditCmd() *cobra.Command {
	var in api.BookInput

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change fields of a book; unset flags keep their value",
		Example: `  libconsole books edit 12 --copies 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			b, err := client.UpdateBook(cmd.Context(), records.ID(args[0]), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), b)
			}
			ok("Updated book %s", args[0])
			return nil
		},
	}

	bookFlags(cmd, &in)
	return cmd
}

func newBooksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete book %s?", args[0])); err != nil {
				return err
			}
			if err := client.DeleteBook(cmd.Context(), records.ID(args[0])); err != nil {
				return err
			}
			ok("Deleted book %s", args[0])
			return nil
		},
	}
}

func yearText(y int) string {
	if y <= 0 {
		return "—"
	}
	return strconv.Itoa(y)
}
