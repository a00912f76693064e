package tui

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/libconsole/internal/tui/picker"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestColumnWidths(t *testing.T) {
	cols := []Column{{Title: "Title", Min: 10, Weight: 3}, {Title: "Author", Min: 8, Weight: 1}, {Title: "Qty", Min: 4}}
	widths := ColumnWidths(cols, 80)
	sum := cursorWidth + columnGap*2
	for _, w := range widths {
		sum += w
	}
	if sum != 80 {
		t.Errorf("widths %v fill %d cells, want 80", widths, sum)
	}
	if widths[2] != 4 {
		t.Errorf("unweighted column grew to %d", widths[2])
	}

	narrow := ColumnWidths(cols, 10)
	if narrow[0] != 10 || narrow[1] != 8 || narrow[2] != 4 {
		t.Errorf("narrow widths = %v, want minimums", narrow)
	}
}

func TestPadOrTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Dune", 6, "Dune  "},
		{"The Great Gatsby", 8, "The Gre…"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := PadOrTruncate(tt.in, tt.width); got != tt.want {
			t.Errorf("PadOrTruncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
	if got := xansi.StringWidth(PadOrTruncate(StyleError.Render("Overdue by many days"), 7)); got != 7 {
		t.Errorf("styled cell width = %d, want 7", got)
	}
}

func TestSetRows_ClampsCursor(t *testing.T) {
	l := NewTable([]Column{{Title: "A", Min: 4}})
	l.SetSize(40, 10)
	SetRows(&l, []Row{{Key: "1"}, {Key: "2"}, {Key: "3"}})
	l.Select(2)
	SetRows(&l, []Row{{Key: "1"}})
	if l.Index() != 0 {
		t.Errorf("Index = %d, want 0", l.Index())
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestForm_EnterAdvancesThenSubmits(t *testing.T) {
	f := NewForm("Add Genre", []Field{{Label: "Name"}, {Label: "Description"}})
	f, _, _ = f.Update(keyMsg("P"))
	f, act, _ := f.Update(keyMsg("enter"))
	if act != FormEditing || f.focused != 1 {
		t.Fatalf("after first enter: action %v focus %d", act, f.focused)
	}
	f, _, _ = f.Update(keyMsg("v"))
	_, act, _ = f.Update(keyMsg("enter"))
	if act != FormSubmitted {
		t.Fatalf("action = %v, want submitted", act)
	}
	if v := f.Values(); v[0] != "P" || v[1] != "v" {
		t.Errorf("Values = %q", v)
	}
}

func TestForm_ConfirmStep(t *testing.T) {
	f := NewForm("Edit", []Field{{Label: "Name", Value: "Poetry"}}).WithConfirm()
	f, act, _ := f.Update(keyMsg("enter"))
	if act != FormEditing || !f.confirming {
		t.Fatalf("expected confirmation prompt, action %v", act)
	}
	f, act, _ = f.Update(keyMsg("n"))
	if act != FormEditing || f.confirming {
		t.Fatalf("n should return to editing")
	}
	f, _, _ = f.Update(keyMsg("enter"))
	if _, act, _ = f.Update(keyMsg("y")); act != FormSubmitted {
		t.Errorf("action = %v, want submitted", act)
	}
}

func TestForm_TabWrapsAndEscCancels(t *testing.T) {
	f := NewForm("Login", []Field{{Label: "Email"}, {Label: "Password", Secret: true}})
	f, _, _ = f.Update(keyMsg("tab"))
	f, _, _ = f.Update(keyMsg("tab"))
	if f.focused != 0 {
		t.Errorf("focus = %d, want wrap to 0", f.focused)
	}
	f.SetError("Invalid credentials")
	if f.Err() == "" {
		t.Error("error not kept")
	}
	if _, act, _ := f.Update(keyMsg("esc")); act != FormCanceled {
		t.Errorf("action = %v, want canceled", act)
	}
}

func TestForm_ChooseOption(t *testing.T) {
	members := []picker.Option{{Value: "1", Label: "John Doe"}, {Value: "2", Label: "Jane Smith"}}
	f := NewForm("Issue Book", []Field{{Label: "Member ID", Options: members}, {Label: "Due date"}})
	if !strings.Contains(f.View(), "ctrl+p to choose from 2") {
		t.Error("missing choose hint")
	}

	f, _, _ = f.Update(keyMsg("ctrl+p"))
	if !f.Picking() {
		t.Fatal("ctrl+p did not open the options")
	}
	f, _, _ = f.Update(keyMsg("down"))
	f, act, _ := f.Update(keyMsg("enter"))
	if act != FormEditing || f.Picking() {
		t.Fatalf("enter should choose and close, action %v", act)
	}
	if v := f.Values()[0]; v != "2" {
		t.Errorf("member = %q, want 2", v)
	}
	if !strings.Contains(f.View(), "Jane Smith") {
		t.Error("chosen label not shown")
	}

	f, _, _ = f.Update(keyMsg("ctrl+p"))
	f, act, _ = f.Update(keyMsg("esc"))
	if act != FormEditing || f.Picking() || f.Values()[0] != "2" {
		t.Errorf("esc should close the options and keep the value, action %v", act)
	}
}

func TestForm_TypedValueBesideOptions(t *testing.T) {
	f := NewForm("Issue Book", []Field{{Label: "Book ID"}})
	f, _, _ = f.Update(keyMsg("ctrl+p"))
	if f.Picking() {
		t.Fatal("opened a picker without options")
	}
	f.SetOptions(0, []picker.Option{{Value: "3", Label: "The Great Gatsby"}})
	f, _, _ = f.Update(keyMsg("7"))
	if f.Values()[0] != "7" {
		t.Errorf("value = %q", f.Values()[0])
	}
	if !strings.Contains(f.View(), "not in the list") {
		t.Error("unknown id not flagged")
	}
}
