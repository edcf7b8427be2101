// Package contactapi defines the JSON exchanged with POST /api/contact.
package contactapi

// Path is the relative endpoint the contact form posts to.
const Path = "/api/contact"

// Request is the contact form submission.
type Request struct {
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Anonymous    bool     `json:"anonymous"`
	Persona      string   `json:"persona"`
	Message      string   `json:"message"`
	Skills       []string `json:"skills"`
	Contribution string   `json:"contribution,omitempty"`
}

// Response is returned for every outcome. Success responses carry Message and
// ID; failures carry Error and, outside production, Details.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}
