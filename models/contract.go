package models

const (
	ContractDraft = "draft"
	ContractSent  = "sent"
)

// Contract is a service agreement under contracts/<key>. An empty ClientKey
// marks a manual document not linked to any client record; linkage back to a
// client is then by email match only.
type Contract struct {
	ID          string `json:"id,omitempty"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientKey   string `json:"client_key,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	Rate        string `json:"rate,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status,omitempty"`
	ShortID     string `json:"short_id,omitempty"`
	SentAt      string `json:"sent_at,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type ContractRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientKey   string `json:"client_key,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	Rate        string `json:"rate,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
