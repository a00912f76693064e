package app

import (
	"fmt"
	"strconv"

	"github.com/blackwell-systems/libconsole/internal/api"
	"github.com/blackwell-systems/libconsole/internal/records"
	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/spf13/cobra"
)

var genreColumns = []tui.Column{
	{Title: "ID", Min: 4},
	{Title: "NAME", Min: 12},
	{Title: "BOOKS", Min: 5},
	{Title: "DESCRIPTION", Min: 20},
}

func newGenresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List and manage genres",
	}
	cmd.AddCommand(newGenresListCmd(), newGenresAddCmd(), newGenresEditCmd(), newGenresDeleteCmd())
	return cmd
}

func newGenresListCmd() *cobra.Command {
	var f records.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			res, err := lists.Genres(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), listOutput{Demo: res.Demo, Items: res.Items})
			}
			demoNotice(res.Demo)
			rows := make([][]string, len(res.Items))
			for i, g := range res.Items {
				rows[i] = []string{g.ID.String(), g.Name, strconv.Itoa(g.BookCount), orDash(g.Description)}
			}
			printRows(cmd.OutOrStdout(), genreColumns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "Match name or description")
	return cmd
}

func newGenresAddCmd() *cobra.Command {
	var in api.GenreInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a genre",
		Example: `  libconsole genres add --name Poetry --description "Verse and collections"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			v, err := fillMissing("Add Genre", []tui.Field{
				{Label: "Name", Value: in.Name},
				{Label: "About", Value: in.Description},
			}, 0, 1)
			if err != nil {
				return err
			}
			g, err := client.CreateGenre(cmd.Context(), api.GenreInput{Name: v[0], Description: v[1]})
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), g)
			}
			ok("Added genre %s", g.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Genre name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Short description")
	return cmd
}

func newGenresEditCmd() *cobra.Command {
	var in api.GenreInput

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a genre's name and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			g, err := client.UpdateGenre(cmd.Context(), records.ID(args[0]), in)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), g)
			}
			ok("Updated genre %s", g.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Genre name")
	cmd.Flags().StringVar(&in.Description, "description", "", "Short description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGenresDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := confirm(cmd, fmt.Sprintf("Delete genre %s?", args[0])); err != nil {
				return err
			}
			if err := client.DeleteGenre(cmd.Context(), records.ID(args[0])); err != nil {
				return err
			}
			ok("Deleted genre %s", args[0])
			return nil
		},
	}
}
