package project

import "github.com/google/uuid"

// NewID generates a random identifier for participants, lots, and projects.
func NewID() string {
	return uuid.NewString()
}
