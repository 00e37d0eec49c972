package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordkit/recordkit/internal/models"
)

func seed(t *testing.T, repo RecordRepository, n int) []*models.Record {
	t.Helper()
	out := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := &models.Record{ID: fmt.Sprintf("id-%03d", i), Label: fmt.Sprintf("label %d", i), Amount: float64(i + 1)}
		require.NoError(t, repo.Create(context.Background(), rec))
		out = append(out, rec)
	}
	return out
}

func TestMemoryRecordRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	rec := &models.Record{ID: "a", Label: "some label", Amount: 1}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	got.Label = "mutated"
	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "some label", again.Label)
}

func TestMemoryRecordRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	require.NoError(t, repo.Create(ctx, &models.Record{ID: "a", Label: "x", Amount: 1}))
	err := repo.Create(ctx, &models.Record{ID: "a", Label: "y", Amount: 2})
	assert.ErrorIs(t, err, models.ErrDuplicateID)
}

func TestMemoryRecordRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestMemoryRecordRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()
	records := seed(t, repo, 5)

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantIDs []string
	}{
		{"first page", 2, 0, []string{"id-000", "id-001"}},
		{"second page", 2, 2, []string{"id-002", "id-003"}},
		{"partial last page", 2, 4, []string{"id-004"}},
		{"past the end", 2, 10, []string{}},
		{"default limit", 0, 0, []string{"id-000", "id-001", "id-002", "id-003", "id-004"}},
		{"negative offset", 1, -3, []string{"id-000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.limit, tt.offset)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	assert.Len(t, records, 5)
}

func TestMemoryRecordRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()
	seed(t, repo, 3)

	require.NoError(t, repo.Delete(ctx, "id-001"))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "id-000", got[0].ID)
	assert.Equal(t, "id-002", got[1].ID)
}

func TestMemoryRecordRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c-%d", n)
			assert.NoError(t, repo.Create(ctx, &models.Record{ID: id, Label: "c", Amount: 1}))
			_, err := repo.GetByID(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	assert.NoError(t, repo.HealthCheck(ctx))
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultListLimit, 0},
		{-5, -5, DefaultListLimit, 0},
		{10, 20, 10, 20},
		{MaxListLimit + 1, 0, MaxListLimit, 0},
	}

	for _, tt := range tests {
		limit, offset := NormalizePage(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOffset, offset)
	}
}

func TestRepositoryInterface(t *testing.T) {
	var _ RecordRepository = (*MemoryRecordRepository)(nil)
	var _ RecordRepository = (*PostgresRecordRepository)(nil)
	var _ RecordRepository = (*CachedRecordRepository)(nil)
}
