package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7, falling back to a random v4.
func NewID() uuid.UUID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return v7
}
