// Package idgen handles unique ID generation for records.
package idgen

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UUIDLength is the length of a UUID in canonical text form.
const UUIDLength = 36

// ErrGenerate is returned when the random source fails.
var ErrGenerate = errors.New("failed to generate id")

// Generator defines the interface for generating unique IDs.
type Generator interface {
	// Generate creates a new unique ID.
	Generate() (string, error)
}

// UUIDGenerator generates random version 4 UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv4 in canonical 36-character form.
func (g *UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return id.String(), nil
}

// IsValid reports whether s is a version 4 UUID in canonical lowercase form.
func IsValid(s string) bool {
	if len(s) != UUIDLength {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122 && id.String() == s
}
