// Package services contains business logic.
package services

import (
	"context"
	"errors"

	"github.com/recordkit/recordkit/internal/crunch"
	"github.com/recordkit/recordkit/internal/idgen"
	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/internal/models"
	"github.com/recordkit/recordkit/internal/repository"
	"github.com/recordkit/recordkit/pkg/logger"
)

// RecordPage is one page of a record listing.
type RecordPage struct {
	Records []*models.Record
	Total   int64
	Limit   int
	Offset  int
}

// RecordService defines the interface for record operations.
type RecordService interface {
	Create(ctx context.Context, in models.RecordCreate) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	List(ctx context.Context, limit, offset int) (*RecordPage, error)
	Delete(ctx context.Context, id string) error
}

// RecordServiceImpl implements RecordService.
type RecordServiceImpl struct {
	repo     repository.RecordRepository
	cruncher *crunch.Cruncher
	log      *logger.Logger
}

// NewRecordService creates a new RecordService instance.
func NewRecordService(repo repository.RecordRepository, gen idgen.Generator, log *logger.Logger) *RecordServiceImpl {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordServiceImpl{
		repo:     repo,
		cruncher: crunch.New(gen),
		log:      log,
	}
}

// Create validates the input, assigns an ID and stores the record.
func (s *RecordServiceImpl) Create(ctx context.Context, in models.RecordCreate) (*models.Record, error) {
	log := logger.FromContext(ctx, s.log)

	record, err := s.cruncher.Crunch(in)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordValidationFailure(verr.Field)
			log.Debug("record rejected", "field", verr.Field, "error", verr)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		log.Error("failed to store record", "id", record.ID, "error", err)
		return nil, err
	}

	metrics.RecordRecordCreated()
	log.Info("record created", "id", record.ID)
	return record, nil
}

// Get retrieves a record by ID.
func (s *RecordServiceImpl) Get(ctx context.Context, id string) (*models.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of records along with the total count.
func (s *RecordServiceImpl) List(ctx context.Context, limit, offset int) (*RecordPage, error) {
	limit, offset = repository.NormalizePage(limit, offset)

	records, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &RecordPage{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// Delete removes a record by ID.
func (s *RecordServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx, s.log).Info("record deleted", "id", id)
	return nil
}
