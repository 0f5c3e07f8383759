package session

import "time"

// Flow names which authorization flow a record belongs to.
type Flow string

const (
	FlowLogin Flow = "login"
	FlowDrive Flow = "drive"
)

// Record is the server side state of one in-flight authorization attempt.
// The PKCE verifier never leaves the store.
type Record struct {
	Flow      Flow      `json:"flow"`
	Provider  string    `json:"provider"`
	Verifier  string    `json:"verifier"`
	CSRF      string    `json:"csrf"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Key is the store key the record was read from. It is not persisted.
	Key string `json:"-"`
}

// Complete reports whether both secrets needed by a callback are present.
func (r *Record) Complete() bool {
	return r != nil && r.Verifier != "" && r.CSRF != ""
}
