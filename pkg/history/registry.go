package history

import (
	"github.com/pkg/errors"

	"github.com/adminhub/adminhub/pkg/db"
	"github.com/adminhub/adminhub/pkg/db/models"
)

// RelationKind says how a payload field reaches the master table carrying the
// display name.
type RelationKind int

const (
	// OneToOne is a direct foreign key on the entity row.
	OneToOne RelationKind = iota
	// ManyToMany walks a join table to a set of linked master rows.
	ManyToMany
)

// RelationDescriptor is the typed, in-memory form of a TableRelation row. The
// "empty join table means one-to-one" convention of the seed data does not
// leak past NewRegistry.
type RelationDescriptor struct {
	EntityType  string
	FieldName   string
	Kind        RelationKind
	JoinTable   string
	MasterTable string
}

// Label is the canonical field name a change to this relation is recorded
// under, e.g. "roleNames" for the many-to-many role relation.
func (d RelationDescriptor) Label() string {
	if d.Kind == ManyToMany {
		return d.MasterTable + "Names"
	}
	return d.MasterTable + "Name"
}

type registryKey struct {
	entityType string
	fieldName  string
}

// Registry is the relation metadata store: a read-only lookup of descriptors
// built once at startup. Lookups are called on every recorded change, so they
// stay allocation-free.
type Registry struct {
	byKey    map[registryKey]RelationDescriptor
	byEntity map[string][]RelationDescriptor
}

func NewRegistry(rows []models.TableRelation) *Registry {
	r := &Registry{
		byKey:    make(map[registryKey]RelationDescriptor, len(rows)),
		byEntity: make(map[string][]RelationDescriptor),
	}
	for _, row := range rows {
		d := RelationDescriptor{
			EntityType:  row.EntityType,
			FieldName:   row.FieldName,
			Kind:        OneToOne,
			JoinTable:   row.JoinTable,
			MasterTable: row.MasterTable,
		}
		if row.JoinTable != "" {
			d.Kind = ManyToMany
		}
		key := registryKey{entityType: row.EntityType, fieldName: row.FieldName}
		if _, ok := r.byKey[key]; ok {
			// At most one descriptor per (entityType, fieldName) is active.
			continue
		}
		r.byKey[key] = d
		r.byEntity[row.EntityType] = append(r.byEntity[row.EntityType], d)
	}
	return r
}

// LoadRegistry reads all relation metadata rows from the database.
func LoadRegistry(dbc *db.DB) (*Registry, error) {
	rows := []models.TableRelation{}
	if res := dbc.DB.Find(&rows); res.Error != nil {
		return nil, errors.Wrap(res.Error, "error loading relation metadata")
	}
	return NewRegistry(rows), nil
}

// Descriptors returns every relation declared for the entity type. An empty
// slice just means the entity has no relation fields.
func (r *Registry) Descriptors(entityType string) []RelationDescriptor {
	return r.byEntity[entityType]
}

// Lookup finds the descriptor for one payload field, if any.
func (r *Registry) Lookup(entityType, fieldName string) (RelationDescriptor, bool) {
	d, ok := r.byKey[registryKey{entityType: entityType, fieldName: fieldName}]
	return d, ok
}
