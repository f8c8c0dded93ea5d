package domain

import "github.com/google/uuid"

// ConnID identifies one live bidirectional channel. Server-assigned.
type ConnID string

// NewConnID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}
