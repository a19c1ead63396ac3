package history

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Snapshot is an entity's current state at diff time, keyed by camelCase field
// name with every value already rendered for display. Built fresh on each call
// and never cached, so it always reflects the latest committed state.
type Snapshot map[string]string

// Enricher adds entity-specific projections to a snapshot, e.g. flattening a
// profile's default email into a flat field. Enrichers are registered per
// entity type so the diff engine itself stays entity-agnostic.
type Enricher interface {
	Enrich(ctx context.Context, reader EntityReader, entityID uint, snap Snapshot) error
}

// ChildProjection flattens one column of the first child row matching Match
// into the snapshot under SnapshotKey.
type ChildProjection struct {
	ChildTable  string
	ForeignKey  string
	Match       map[string]interface{}
	Column      string
	SnapshotKey string
}

func (p ChildProjection) Enrich(ctx context.Context, reader EntityReader, entityID uint, snap Snapshot) error {
	value, err := reader.FirstChildValue(ctx, p.ChildTable, p.ForeignKey, entityID, p.Match, p.Column)
	if err != nil {
		return err
	}
	snap[p.SnapshotKey] = value
	return nil
}

// ReferenceProjection resolves a foreign key already present in the snapshot
// to a column on the referenced table, e.g. a profile's delegate to that
// delegate's external identifier.
type ReferenceProjection struct {
	SourceKey   string
	Table       string
	Column      string
	SnapshotKey string
}

func (p ReferenceProjection) Enrich(ctx context.Context, reader EntityReader, entityID uint, snap Snapshot) error {
	id := asID(snap[p.SourceKey])
	if id == 0 {
		snap[p.SnapshotKey] = ""
		return nil
	}
	row, err := reader.FetchRow(ctx, p.Table, id)
	if err != nil {
		return err
	}
	if row == nil {
		snap[p.SnapshotKey] = ""
		return nil
	}
	snap[p.SnapshotKey] = stringify(row[p.Column])
	return nil
}

// profileEnrichers flatten the default-tagged email and phone child rows and
// the delegate reference into the profile snapshot.
func profileEnrichers() []Enricher {
	return []Enricher{
		ChildProjection{
			ChildTable:  "profile_emails",
			ForeignKey:  "profile_id",
			Match:       map[string]interface{}{"is_default": true},
			Column:      "email",
			SnapshotKey: "email",
		},
		ChildProjection{
			ChildTable:  "profile_phones",
			ForeignKey:  "profile_id",
			Match:       map[string]interface{}{"is_default": true},
			Column:      "phone_number",
			SnapshotKey: "phoneNumber",
		},
		ReferenceProjection{
			SourceKey:   "delegateId",
			Table:       "profiles",
			Column:      "external_id",
			SnapshotKey: "delegate",
		},
	}
}

// Fetcher builds entity snapshots for the diff engine.
type Fetcher struct {
	registry  *Registry
	reader    EntityReader
	enrichers map[string][]Enricher
}

func NewFetcher(registry *Registry, reader EntityReader) *Fetcher {
	return &Fetcher{
		registry: registry,
		reader:   reader,
		enrichers: map[string][]Enricher{
			"profile": profileEnrichers(),
		},
	}
}

// RegisterEnricher adds a projection for an entity type beyond the shipped
// profile conventions.
func (f *Fetcher) RegisterEnricher(entityType string, e Enricher) {
	f.enrichers[entityType] = append(f.enrichers[entityType], e)
}

// FetchSnapshot loads the entity's scalar fields plus the display names of
// every declared relation. An id of zero (creation, no prior row) yields an
// empty snapshot. A missing row with a non-zero id also yields an empty
// snapshot: the diff then shows every field as newly set, so an audit record
// is still produced even with inconsistent reference data.
func (f *Fetcher) FetchSnapshot(ctx context.Context, entityType string, entityID uint) (Snapshot, error) {
	snap := Snapshot{}
	if entityID == 0 {
		return snap, nil
	}

	row, err := f.reader.FetchRow(ctx, tableFor(entityType), entityID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		log.WithField("entityType", entityType).WithField("entityId", entityID).
			Warn("no row found for snapshot, treating all fields as newly set")
		return snap, nil
	}

	for column, value := range row {
		snap[toCamel(column)] = stringify(value)
	}

	for _, d := range f.registry.Descriptors(entityType) {
		switch d.Kind {
		case OneToOne:
			if err := f.resolveOneToOne(ctx, d, row, snap); err != nil {
				return nil, err
			}
		case ManyToMany:
			if err := f.resolveManyToMany(ctx, d, entityType, entityID, snap); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range f.enrichers[entityType] {
		if err := e.Enrich(ctx, f.reader, entityID, snap); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func (f *Fetcher) resolveOneToOne(ctx context.Context, d RelationDescriptor, row map[string]interface{}, snap Snapshot) error {
	label := d.Label()
	id := asID(row[foreignKeyColumn(d.MasterTable)])
	if id == 0 {
		snap[label] = ""
		return nil
	}

	names, err := f.reader.NamesByIDs(ctx, tableFor(d.MasterTable), []uint{id})
	if err != nil {
		return err
	}
	snap[label] = names[id]
	return nil
}

func (f *Fetcher) resolveManyToMany(ctx context.Context, d RelationDescriptor, entityType string, entityID uint, snap Snapshot) error {
	label := d.Label()
	ids, err := f.reader.LinkedIDs(ctx, d.JoinTable, foreignKeyColumn(entityType), foreignKeyColumn(d.MasterTable), entityID)
	if err != nil {
		return err
	}

	names, err := f.reader.NamesByIDs(ctx, tableFor(d.MasterTable), ids)
	if err != nil {
		return err
	}

	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			resolved = append(resolved, name)
		}
	}
	snap[label] = strings.Join(resolved, ",")
	return nil
}
