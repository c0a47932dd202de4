package models

const (
	ProspectNew       = "new"
	ProspectContacted = "contacted"
	ProspectConverted = "converted"
)

// Prospect is a contact-form lead under prospects/<key>.
type Prospect struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Message     string `json:"message,omitempty"`
	Source      string `json:"source,omitempty"`
	Status      string `json:"status"`
	ContactedAt string `json:"contacted_at,omitempty"`
	ConvertedAt string `json:"converted_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CreateProspectRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}
