package notifications

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Dispatcher writes notifications for other features
type Dispatcher struct {
	repo *Repository
}

func NewDispatcher(repo *Repository) *Dispatcher {
	return &Dispatcher{repo: repo}
}

// Notify creates one notification for userID. Failures go back to the caller.
func (d *Dispatcher) Notify(ctx context.Context, userID string, typ Type, title, message string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("notify: empty recipient")
	}
	if typ == "" {
		typ = TypeGeneric
	}

	n := &Notification{
		UserID:  userID,
		Type:    typ,
		Title:   truncate(title, 120),
		Message: truncate(message, 1000),
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notify %s: %w", userID, err)
	}
	return nil
}

// truncate limits s to maxLen characters, counting the trailing ellipsis.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
