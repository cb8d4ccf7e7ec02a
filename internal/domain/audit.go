package domain

import (
	"time"

	"github.com/google/uuid"
)

// Load outcomes recorded in the audit trail.
const (
	LoadOutcomeLoaded   = "loaded"
	LoadOutcomeRejected = "rejected"
)

// ConfigLoad is one load or reload attempt of the configuration document.
type ConfigLoad struct {
	ID         uuid.UUID `json:"id"`
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	Outcome    string    `json:"outcome"`
	ErrorCount int       `json:"error_count"`
	Detail     string    `json:"detail,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
