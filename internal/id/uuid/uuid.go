// Package uuid names archived snapshots and API requests.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator implements brand.IDGenerator with UUID v7 strings. They sort by
// creation time, so one host's snapshots list oldest first.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID v7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate snapshot id: %w", err)
	}
	return id.String(), nil
}

// RequestID returns a UUID v7 string, falling back to a random v4 when the
// v7 source fails.
func RequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
