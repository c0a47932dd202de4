package models

const (
	InvoiceUnpaid = "unpaid"
	InvoicePaid   = "paid"
)

// Invoice under invoices/<key>. Line-item and tax math belongs to the
// dashboard; the backend stores the totals it is given.
type Invoice struct {
	ID            string  `json:"id,omitempty"`
	InvoiceNumber string  `json:"invoice_number"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email,omitempty"`
	ClientKey     string  `json:"client_key,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	DueDate       string  `json:"due_date,omitempty"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	PaidAt        string  `json:"paid_at,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// InvoiceWithState adds the read-time overdue derivation: unpaid with a due
// date in the past.
type InvoiceWithState struct {
	Invoice
	Overdue bool `json:"overdue,omitempty"`
}

type InvoiceRequest struct {
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	ClientName    string  `json:"client_name" binding:"required"`
	ClientEmail   string  `json:"client_email,omitempty"`
	ClientKey     string  `json:"client_key,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	DueDate       string  `json:"due_date,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}
