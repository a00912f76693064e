package console

import (
	"github.com/blackwell-systems/libconsole/internal/library"
	"github.com/blackwell-systems/libconsole/internal/tui/picker"
)

// NavigateMsg is emitted when a view wants to switch to another page.
type NavigateMsg struct {
	Target View
}

// QuitAppMsg is emitted when the console should exit.
type QuitAppMsg struct{}

// sessionCheckedMsg reports that a persisted session was restored or dropped.
type sessionCheckedMsg struct{}

// loginDoneMsg carries the result of a login attempt.
type loginDoneMsg struct {
	err error
}

// loggedOutMsg is sent after the session was cleared.
type loggedOutMsg struct{}

// expiredMsg is sent by a page whose request was rejected with 401. gen is
// the session generation the page was opened in.
type expiredMsg struct {
	gen int
}

// loadedMsg carries a list fetch for the page with the given id. Results
// from a superseded query (gen) or a torn-down page are dropped.
type loadedMsg[T any] struct {
	page   int64
	gen    int
	result library.Result[[]T]
	err    error
}

// searchMsg fires when the search box or filter settled.
type searchMsg struct {
	page int64
	seq  int
}

// choicesMsg carries the option lists for the dialog opened as seq.
type choicesMsg struct {
	page    int64
	seq     int
	options map[int][]picker.Option
	err     error
}

// doneMsg reports a finished mutation.
type doneMsg struct {
	page int64
	out  outcome
	err  error
}

// outcome is what a successful mutation shows the user.
type outcome struct {
	flash  string
	detail *detail
}

// detail is a read-only overlay, e.g. a member's borrowing history.
type detail struct {
	title string
	lines []string
}
