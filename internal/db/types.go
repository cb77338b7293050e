package db

import (
	"time"

	"github.com/google/uuid"
)

// SessionValue is one stored key within a session namespace.
type SessionValue struct {
	Namespace uuid.UUID `json:"namespace"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
