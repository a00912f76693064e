package console

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Debouncer delays a message until input settles. Scheduling again cancels
// the pending message, and Stop cancels it without scheduling another.
// A cancelled command yields nil.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel chan struct{}
}

// NewDebouncer returns a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule returns a command that yields msg once delay passes without
// another Schedule or Stop.
func (d *Debouncer) Schedule(msg tea.Msg) tea.Cmd {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	fired := make(chan struct{})
	cancel := make(chan struct{})
	d.timer = time.AfterFunc(d.delay, func() { close(fired) })
	d.cancel = cancel

	return func() tea.Msg {
		select {
		case <-fired:
			return msg
		case <-cancel:
			return nil
		}
	}
}

// Stop cancels the pending message, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Pending reports whether a message was scheduled since the last Stop.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer == nil {
		return
	}
	// A timer that already fired has closed fired; its message is delivered
	// and dropped by the receiver's sequence check.
	if d.timer.Stop() {
		close(d.cancel)
	}
	d.timer = nil
	d.cancel = nil
}
