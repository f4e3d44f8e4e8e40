package state

import "github.com/google/uuid"

// NewID allocates a fresh identity for an action or sheet. Edits of an
// existing element reuse its id instead of calling this.
func NewID() string {
	return uuid.NewString()
}
