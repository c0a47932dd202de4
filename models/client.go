package models

// Client statuses. Expired is only ever set by the auto-expiry sweep and is
// never flipped back by the status toggle.
const (
	ClientActive   = "active"
	ClientInactive = "inactive"
	ClientExpired  = "expired"
)

type ClientChild struct {
	Name      string `json:"name"`
	Age       string `json:"age,omitempty"`
	Allergies string `json:"allergies,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Client is a family record under clients/<key>. Contract dates are pushed
// onto it whenever a linked contract is saved (one-way sync); an active
// client with a contract_start blocks its contract window on the public
// calendar unless availability_override is set.
type Client struct {
	ID                   string        `json:"id,omitempty"`
	FamilyName           string        `json:"family_name"`
	ParentName           string        `json:"parent_name"`
	Email                string        `json:"email,omitempty"`
	Phone                string        `json:"phone,omitempty"`
	Address              string        `json:"address,omitempty"`
	Children             []ClientChild `json:"children,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	Status               string        `json:"status"`
	ContractStart        string        `json:"contract_start,omitempty"`
	ContractEnd          string        `json:"contract_end,omitempty"`
	AvailabilityOverride bool          `json:"availability_override,omitempty"`
	ServiceType          string        `json:"service_type,omitempty"`
	Schedule             string        `json:"schedule,omitempty"`
	Source               string        `json:"source,omitempty"`
	ExpiredAt            string        `json:"expired_at,omitempty"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at,omitempty"`
}

// ClientWithCounts decorates a client with linked-document counts for the
// admin list view.
type ClientWithCounts struct {
	Client
	ContractCount int `json:"contract_count"`
	InvoiceCount  int `json:"invoice_count"`
}

// ClientDraft is the prefilled form payload returned by the booking
// convert-to-client action. Saving it is a second, separate client create;
// the source booking record is left untouched.
type ClientDraft struct {
	FamilyName string        `json:"family_name"`
	ParentName string        `json:"parent_name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Children   []ClientChild `json:"children,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

type ClientRequest struct {
	FamilyName string        `json:"family_name" binding:"required"`
	ParentName string        `json:"parent_name" binding:"required"`
	Email      string        `json:"email,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	Address    string        `json:"address,omitempty"`
	Children   []ClientChild `json:"children,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	Status     string        `json:"status,omitempty"`
}
