package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/db"
)

// RTDB is the production Client backed by the Firebase Realtime Database.
type RTDB struct {
	db *db.Client
}

func New(client *db.Client) *RTDB {
	return &RTDB{db: client}
}

func (r *RTDB) ReadOnce(ctx context.Context, path string, dest interface{}) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	if err := r.db.NewRef(path).Get(ctx, dest); err != nil {
		return classify(path, err)
	}
	return nil
}

func (r *RTDB) Push(ctx context.Context, path string, record interface{}) (string, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	ref, err := r.db.NewRef(path).Push(ctx, record)
	if err != nil {
		return "", classify(path, err)
	}
	return ref.Key, nil
}

func (r *RTDB) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	if err := r.db.NewRef(path).Update(ctx, fields); err != nil {
		return classify(path, err)
	}
	return nil
}

func (r *RTDB) Set(ctx context.Context, path string, record interface{}) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	if err := r.db.NewRef(path).Set(ctx, record); err != nil {
		return classify(path, err)
	}
	return nil
}

func (r *RTDB) Remove(ctx context.Context, path string) error {
	ctx, cancel := withDeadline(ctx)
	defer cancel()
	if err := r.db.NewRef(path).Delete(ctx); err != nil {
		return classify(path, err)
	}
	return nil
}

func withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}

// classify maps SDK errors onto the two kinds callers branch on. The db
// package surfaces permission problems as HTTP 401/403 strings.
func classify(path string, err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "deadline exceeded"):
		return fmt.Errorf("%w: read timed out (%s)", ErrUnreachable, path)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(strings.ToLower(msg), "permission"):
		return fmt.Errorf("%w: %s: %v", ErrDenied, path, err)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host"):
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, path, err)
	default:
		return fmt.Errorf("store %s: %w", path, err)
	}
}
