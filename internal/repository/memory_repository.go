package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/recordkit/recordkit/internal/models"
)

// MemoryRecordRepository keeps records in process, in insertion order.
type MemoryRecordRepository struct {
	records map[string]models.Record
	order   []string
	mu      sync.RWMutex
}

// NewMemoryRecordRepository creates an empty in-memory repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		records: make(map[string]models.Record),
	}
}

// Create stores a copy of record.
func (r *MemoryRecordRepository) Create(ctx context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("%w: %s", models.ErrDuplicateID, record.ID)
	}
	r.records[record.ID] = *record
	r.order = append(r.order, record.ID)
	return nil
}

// GetByID returns a copy of the stored record.
func (r *MemoryRecordRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &record, nil
}

// List returns a page of records in insertion order.
func (r *MemoryRecordRepository) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	limit, offset = NormalizePage(limit, offset)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= len(r.order) {
		return []*models.Record{}, nil
	}
	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	out := make([]*models.Record, 0, end-offset)
	for _, id := range r.order[offset:end] {
		record := r.records[id]
		out = append(out, &record)
	}
	return out, nil
}

// Count returns the number of stored records.
func (r *MemoryRecordRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

// Delete removes a record by its ID.
func (r *MemoryRecordRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// HealthCheck always succeeds.
func (r *MemoryRecordRepository) HealthCheck(ctx context.Context) error {
	return nil
}
