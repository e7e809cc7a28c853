package model

import "github.com/google/uuid"

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListParams controls pagination of list queries. After is an id cursor:
// ids are time-ordered, so rows after it were created later.
type ListParams struct {
	After  string
	Limit  int
	Offset int
}

// Normalize clamps Limit and Offset into their allowed range.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// NewID returns a new time-ordered identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
