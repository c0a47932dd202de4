package services

import (
	"context"
	"log"

	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/store"
)

// ActivityLogger writes fire-and-forget audit records to activity_logs.
// Failures are logged and never reach the caller; no state transition waits
// on the audit trail.
type ActivityLogger struct {
	store store.Client
}

func NewActivityLogger(st store.Client) *ActivityLogger {
	return &ActivityLogger{store: st}
}

func (l *ActivityLogger) Log(action, description, entityType, adminEmail string) {
	entry := models.ActivityLog{
		Action:      action,
		Description: description,
		EntityType:  entityType,
		AdminEmail:  adminEmail,
		CreatedAt:   NowISO(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), store.DefaultTimeout)
		defer cancel()
		if _, err := l.store.Push(ctx, store.PathActivityLogs, entry); err != nil {
			log.Printf("[Activity] log write failed (%s): %v", action, err)
		}
	}()
}
