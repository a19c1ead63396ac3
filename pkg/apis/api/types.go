package api

import (
	"time"

	"github.com/adminhub/adminhub/pkg/db/models"
)

type Sort string

const (
	SortAscending  Sort = "asc"
	SortDescending Sort = "desc"
)

type ColumnType int

const (
	ColumnTypeUnknown ColumnType = iota
	ColumnTypeString
	ColumnTypeNumerical
	ColumnTypeTimestamp
)

// HistoryFilter selects change events. EntityType is required; everything
// else narrows the result. Search matches field names, previous/new values,
// and the actor's display name.
type HistoryFilter struct {
	EntityType string     `json:"entity_type" validate:"required"`
	Search     string     `json:"search,omitempty"`
	ActorID    uint       `json:"actor_id,omitempty"`
	Field      string     `json:"field,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Offset     int        `json:"offset,omitempty" validate:"gte=0"`
	Limit      int        `json:"limit,omitempty" validate:"gte=0,lte=1000"`
}

// HistoryResponse is the query API payload. ExportURL is empty when no export
// was requested or the result had no rows.
type HistoryResponse struct {
	Events    []models.ChangeEvent `json:"events"`
	ExportURL string               `json:"export_url,omitempty"`
}
