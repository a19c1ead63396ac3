package models

import (
	"time"
)

// ChangeEvent is one audit record capturing every field-level change made to an
// entity by a single create/update operation. Events are append-only: they are
// created in one transaction together with their FieldChange rows and never
// mutated or deleted by the audit engine afterward.
type ChangeEvent struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	ReferenceType string        `json:"reference_type" gorm:"not null;index:idx_change_events_ref"`
	ReferenceID   uint          `json:"reference_id" gorm:"not null;index:idx_change_events_ref"`
	ChangedBy     uint          `json:"changed_by" gorm:"not null"`
	ChangedAt     time.Time     `json:"changed_at" gorm:"not null;index"`
	Changes       []FieldChange `json:"changes" gorm:"constraint:OnDelete:CASCADE;"`
}

// FieldChange is one field's previous/new display value pair within a
// ChangeEvent. Values are always strings (empty, not null, when absent) so the
// audit trail stays uniformly displayable and exportable.
type FieldChange struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ChangeEventID uint   `json:"change_event_id" gorm:"not null;index"`
	Field         string `json:"field" gorm:"not null"`
	PreviousValue string `json:"previous_value"`
	NewValue      string `json:"new_value"`
}
