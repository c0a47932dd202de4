package store

import (
	"context"
	"errors"
	"time"
)

// Collection paths in the realtime database.
const (
	PathTrialBookings  = "trial_bookings"
	PathClients        = "clients"
	PathAvailability   = "availability"
	PathCalendarEvents = "calendar_events"
	PathActivityLogs   = "activity_logs"
	PathProspects      = "prospects"
	PathContracts      = "contracts"
	PathInvoices       = "invoices"
)

// DefaultTimeout bounds every store operation that arrives without its own
// deadline. Public calendar loads use a tighter budget (see services).
const DefaultTimeout = 12 * time.Second

var (
	// ErrUnreachable covers connection failures and timed-out operations.
	ErrUnreachable = errors.New("store unreachable")
	// ErrDenied covers permission failures.
	ErrDenied = errors.New("store permission denied")
)

// Client is the path-addressed document store the rest of the service talks
// to. ReadOnce fills dest with the value at path (dest is left zero when the
// path is absent); Push inserts with a store-generated key and returns it;
// Update is a merge-patch of direct children; Set replaces the whole value.
type Client interface {
	ReadOnce(ctx context.Context, path string, dest interface{}) error
	Push(ctx context.Context, path string, record interface{}) (string, error)
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Set(ctx context.Context, path string, record interface{}) error
	Remove(ctx context.Context, path string) error
}

// ChildPath joins a collection path and a record key.
func ChildPath(collection, key string) string {
	return collection + "/" + key
}
