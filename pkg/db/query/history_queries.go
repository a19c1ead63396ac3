package query

import (
	"context"

	"gorm.io/gorm"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/db"
	"github.com/adminhub/adminhub/pkg/db/models"
	"github.com/adminhub/adminhub/pkg/filter"
)

// ChangeEventColumns types the change_events columns callers may filter on
// with the generic JSON filter.
type ChangeEventColumns struct{}

func (ChangeEventColumns) GetFieldType(param string) apitype.ColumnType {
	switch param {
	case "id", "reference_id", "changed_by":
		return apitype.ColumnTypeNumerical
	case "reference_type":
		return apitype.ColumnTypeString
	case "changed_at":
		return apitype.ColumnTypeTimestamp
	}
	return apitype.ColumnTypeUnknown
}

// ChangeEvents returns the audit events matching the filter, newest first,
// with their field changes preloaded. opts carries the optional generic
// column filter from the API; ordering stays newest-first regardless.
// Structured filter validation happens in the history store; this builder
// assumes a sane filter.
func ChangeEvents(ctx context.Context, dbc *db.DB, f apitype.HistoryFilter, opts *filter.FilterOptions) ([]models.ChangeEvent, error) {
	events := []models.ChangeEvent{}

	q := dbc.DB.WithContext(ctx).Model(&models.ChangeEvent{}).
		Where("reference_type = ?", f.EntityType)

	if opts != nil && opts.Filter != nil {
		q = opts.Filter.ToSQL(q)
	}

	if f.ActorID != 0 {
		q = q.Where("changed_by = ?", f.ActorID)
	}
	if f.StartDate != nil {
		q = q.Where("changed_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("changed_at <= ?", *f.EndDate)
	}
	if f.Field != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM field_changes
			WHERE field_changes.change_event_id = change_events.id
			AND field_changes.field = ?)`, f.Field)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(`EXISTS (SELECT 1 FROM field_changes
			WHERE field_changes.change_event_id = change_events.id
			AND (field_changes.field ILIKE @p
				OR field_changes.previous_value ILIKE @p
				OR field_changes.new_value ILIKE @p))
			OR EXISTS (SELECT 1 FROM profiles
			WHERE profiles.id = change_events.changed_by
			AND concat(profiles.first_name, ' ', profiles.last_name) ILIKE @p)`,
			map[string]interface{}{"p": pattern})
	}

	q = q.Order("changed_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	res := q.Preload("Changes", func(db *gorm.DB) *gorm.DB {
		return db.Order("field_changes.id")
	}).Find(&events)

	return events, res.Error
}
