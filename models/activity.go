package models

// ActivityLog is a write-only audit record under activity_logs/<key>.
type ActivityLog struct {
	ID          string `json:"id,omitempty"`
	Action      string `json:"action"`
	Description string `json:"description"`
	EntityType  string `json:"entity_type"`
	AdminEmail  string `json:"admin_email,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// DashboardSummary feeds the admin landing panel.
type DashboardSummary struct {
	PendingBookings int           `json:"pending_bookings"`
	ActiveClients   int           `json:"active_clients"`
	NewProspects    int           `json:"new_prospects"`
	UnpaidInvoices  int           `json:"unpaid_invoices"`
	RecentActivity  []ActivityLog `json:"recent_activity"`
}
