// Package crunch turns caller input into validated records and provides
// small call helpers used around that conversion.
package crunch

import (
	"fmt"

	"github.com/recordkit/recordkit/internal/idgen"
	"github.com/recordkit/recordkit/internal/models"
)

// Cruncher validates RecordCreate input and assigns fresh IDs.
type Cruncher struct {
	generator idgen.Generator
}

// New creates a Cruncher. A nil generator falls back to UUIDv4.
func New(gen idgen.Generator) *Cruncher {
	if gen == nil {
		gen = idgen.NewUUIDGenerator()
	}
	return &Cruncher{generator: gen}
}

// Crunch validates in and returns a new Record carrying a generated ID.
// A zero amount fails with models.ErrZeroAmount and no record.
func (c *Cruncher) Crunch(in models.RecordCreate) (*models.Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := c.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("crunch: %w", err)
	}

	return &models.Record{
		ID:     id,
		Label:  in.Label,
		Amount: in.Amount,
	}, nil
}
