package history

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/db"
	"github.com/adminhub/adminhub/pkg/db/models"
	"github.com/adminhub/adminhub/pkg/db/query"
	"github.com/adminhub/adminhub/pkg/filter"
)

// ErrInvalidDateRange is returned when a filter's end date precedes its start
// date. The range is never silently swapped.
var ErrInvalidDateRange = fmt.Errorf("end date precedes start date")

var validate = validator.New()

// Store persists and queries change events.
type Store interface {
	Record(ctx context.Context, entityType string, entityID, actorID uint, changes []models.FieldChange) error
	Query(ctx context.Context, f apitype.HistoryFilter, opts *filter.FilterOptions) ([]models.ChangeEvent, error)
}

// GormStore is the postgres-backed Store.
type GormStore struct {
	dbc *db.DB
}

func NewGormStore(dbc *db.DB) *GormStore {
	return &GormStore{dbc: dbc}
}

// Record persists one ChangeEvent with its FieldChange rows in a single
// transaction: concurrent readers see all of them or none. An empty change
// list writes nothing at all.
func (s *GormStore) Record(ctx context.Context, entityType string, entityID, actorID uint, changes []models.FieldChange) error {
	if len(changes) == 0 {
		return nil
	}

	event := models.ChangeEvent{
		ReferenceType: entityType,
		ReferenceID:   entityID,
		ChangedBy:     actorID,
		ChangedAt:     time.Now().UTC(),
		Changes:       changes,
	}

	err := s.dbc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&event).Error
	})
	if err != nil {
		return errors.Wrapf(err, "error recording change event for %s %d", entityType, entityID)
	}
	return nil
}

// Query validates the filter and returns matching events, newest first.
func (s *GormStore) Query(ctx context.Context, f apitype.HistoryFilter, opts *filter.FilterOptions) ([]models.ChangeEvent, error) {
	if err := ValidateFilter(f); err != nil {
		return nil, err
	}
	if opts != nil && opts.Filter != nil {
		if err := opts.Filter.Validate(query.ChangeEventColumns{}); err != nil {
			return nil, err
		}
	}

	events, err := query.ChangeEvents(ctx, s.dbc, f, opts)
	if err != nil {
		return nil, errors.Wrap(err, "error querying change events")
	}
	return events, nil
}

// ValidateFilter rejects caller errors before any storage work happens.
func ValidateFilter(f apitype.HistoryFilter) error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}
