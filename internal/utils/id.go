package utils

import "github.com/google/uuid"

// NewID returns a unique peer handle.
func NewID() string {
	return uuid.NewString()
}
