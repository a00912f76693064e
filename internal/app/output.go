package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/tui"
	"github.com/blackwell-systems/libconsole/internal/util"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	fmt.Printf("  %-16s %s\n", color.CyanString(label+":"), value)
}

// logTo receives failures that are reported but never returned. The console
// swaps it for the debug log so stderr does not tear the screen.
var logTo = func(format string, args ...any) { warn(format, args...) }

func logf(format string, args ...any) { logTo(format, args...) }

// listOutput is the JSON envelope of every list command.
type listOutput struct {
	Demo  bool `json:"demo"`
	Items any  `json:"items"`
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func demoNotice(isDemo bool) {
	if isDemo {
		warn("backend unavailable, showing demo data")
	}
}

// printRows writes an aligned table. Cells wider than their column are
// truncated.
func printRows(w io.Writer, cols []tui.Column, rows [][]string) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = max(c.Min, xansi.StringWidth(c.Title))
	}
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = min(max(widths[i], xansi.StringWidth(cell)), 40)
			}
		}
	}
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	fmt.Fprintln(w, color.CyanString(joinCells(widths, titles)))
	for _, r := range rows {
		fmt.Fprintln(w, joinCells(widths, r))
	}
	fmt.Fprintf(w, "\n%d result(s)\n", len(rows))
}

func joinCells(widths []int, cells []string) string {
	parts := make([]string, len(widths))
	for i, wd := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = tui.PadOrTruncate(cell, wd)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// confirm asks before a destructive action. --yes skips the prompt; without
// a terminal the action is refused.
func confirm(cmd *cobra.Command, prompt string) error {
	if flagYes {
		return nil
	}
	if !interactive() {
		return errors.New("refusing without confirmation (pass --yes)")
	}
	if !util.NewPrompter(cmd.InOrStdin(), os.Stderr).Confirm(prompt) {
		return errCanceled
	}
	return nil
}

var errCanceled = errors.New("canceled")

// fillMissing completes values through an interactive form when any of the
// required positions is empty. Without a terminal it fails naming the first
// missing field.
func fillMissing(title string, fields []tui.Field, required ...int) ([]string, error) {
	values := make([]string, len(fields))
	var missing []string
	for i, f := range fields {
		values[i] = f.Value
	}
	for _, i := range required {
		if strings.TrimSpace(values[i]) == "" {
			missing = append(missing, fields[i].Label)
		}
	}
	if len(missing) == 0 {
		return values, nil
	}
	if !interactive() {
		return nil, fmt.Errorf("missing required value: %s", strings.ToLower(missing[0]))
	}
	out, err := tui.RunForm(title, fields)
	if errors.Is(err, tui.ErrCanceled) {
		return nil, errCanceled
	}
	return out, err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
