package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/blackwell-systems/libconsole/internal/console"
	"github.com/blackwell-systems/libconsole/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Launch the interactive admin console",
		Long: `Launch the interactive admin console.

Set LIBCONSOLE_DEBUG to a file path to write the console's log there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !util.IsTTY() {
				return fmt.Errorf("the console needs a terminal")
			}
			return runConsole(cmd.Context())
		},
	}
}

func runConsole(ctx context.Context) error {
	if path := os.Getenv("LIBCONSOLE_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "libconsole")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logTo = log.Printf
	} else {
		logTo = func(string, ...any) {}
	}

	return console.Run(ctx, console.Deps{
		Session:  store,
		Lists:    lists,
		API:      client,
		Debounce: cfg.Console.Debounce,
		Logf:     logf,
	})
}
