package models

// TableRelation is the seeded metadata describing how a payload field on an
// audited entity resolves to a display name. A row with an empty JoinTable is a
// direct foreign key; a row with a JoinTable is a many-to-many relation walked
// through that join table. MasterTable is the logical (singular) name of the
// table supplying the human-readable "name" column.
//
// At most one active row exists per (EntityType, FieldName) pair.
type TableRelation struct {
	Model
	EntityType  string `json:"entity_type" gorm:"not null;uniqueIndex:idx_table_relations_entity_field"`
	FieldName   string `json:"field_name" gorm:"not null;uniqueIndex:idx_table_relations_entity_field"`
	JoinTable   string `json:"join_table"`
	MasterTable string `json:"master_table" gorm:"not null"`
}
