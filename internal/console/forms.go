package console

import (
	"time"

	"github.com/blackwell-systems/libconsole/internal/api"
)

func invalid(field, msg string) error {
	return &api.ValidationError{Field: field, Message: msg}
}

func dateText(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}
