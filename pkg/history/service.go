package history

import (
	"context"

	log "github.com/sirupsen/logrus"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/db"
	"github.com/adminhub/adminhub/pkg/db/models"
	"github.com/adminhub/adminhub/pkg/filter"
	"github.com/adminhub/adminhub/pkg/metrics"
)

// Service is the facade the CRUD services call: record a change, query the
// trail, optionally export it.
type Service struct {
	fetcher  *Fetcher
	differ   *DiffEngine
	resolver *Resolver
	store    Store
	exporter *CSVExporter
}

// NewService wires the engine from its parts. exporter may be nil when no
// blob storage is configured; export requests then return an empty URL.
func NewService(registry *Registry, reader EntityReader, store Store, exporter *CSVExporter) *Service {
	resolver := NewResolver(registry, reader)
	return &Service{
		fetcher:  NewFetcher(registry, reader),
		differ:   NewDiffEngine(registry, resolver),
		resolver: resolver,
		store:    store,
		exporter: exporter,
	}
}

// NewServiceFromDB builds the production service: registry loaded from the
// relation metadata table, gorm-backed reads and store.
func NewServiceFromDB(dbc *db.DB, uploader Uploader) (*Service, error) {
	registry, err := LoadRegistry(dbc)
	if err != nil {
		return nil, err
	}

	var exporter *CSVExporter
	if uploader != nil {
		exporter = NewCSVExporter(uploader)
	}
	return NewService(registry, NewGormReader(dbc), NewGormStore(dbc), exporter), nil
}

// RecordChange fetches the entity's current state, diffs it against the
// proposed payload, and persists the result. A payload producing no field
// changes writes nothing. All reads complete before the single transactional
// write.
func (s *Service) RecordChange(ctx context.Context, entityType string, entityID, actorID uint, payload map[string]interface{}) error {
	snap, err := s.fetcher.FetchSnapshot(ctx, entityType, entityID)
	if err != nil {
		return err
	}

	changes, err := s.differ.Diff(ctx, entityType, snap, payload)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		log.WithField("entityType", entityType).WithField("entityId", entityID).
			Debug("no field changes to record")
		return nil
	}

	if err := s.store.Record(ctx, entityType, entityID, actorID, changes); err != nil {
		return err
	}

	metrics.ChangeEventsRecorded.WithLabelValues(entityType).Inc()
	log.WithFields(log.Fields{
		"entityType": entityType,
		"entityId":   entityID,
		"actorId":    actorID,
		"fields":     len(changes),
	}).Info("recorded change event")
	return nil
}

// QueryHistory returns matching events newest first. With export set, the
// result is also uploaded as CSV; an empty result or a nil exporter yields an
// empty URL, which means "no export produced", not an error.
func (s *Service) QueryHistory(ctx context.Context, f apitype.HistoryFilter, opts *filter.FilterOptions, export bool) (apitype.HistoryResponse, error) {
	events, err := s.store.Query(ctx, f, opts)
	if err != nil {
		return apitype.HistoryResponse{}, err
	}

	response := apitype.HistoryResponse{Events: events}
	if !export || s.exporter == nil || len(events) == 0 {
		return response, nil
	}

	rows, err := s.exportRows(ctx, events)
	if err != nil {
		return apitype.HistoryResponse{}, err
	}

	url, err := s.exporter.Export(ctx, rows)
	if err != nil {
		return apitype.HistoryResponse{}, err
	}
	if url != "" {
		metrics.HistoryExports.Inc()
	}
	response.ExportURL = url
	return response, nil
}

// exportRows flattens events into CSV rows, resolving each actor id to a
// display name. Actor names are cached per call since exports often contain
// long runs of changes by the same few actors.
func (s *Service) exportRows(ctx context.Context, events []models.ChangeEvent) ([]ExportRow, error) {
	actorNames := map[uint]string{}
	rows := make([]ExportRow, 0, len(events))

	for _, event := range events {
		name, ok := actorNames[event.ChangedBy]
		if !ok {
			resolved, err := s.resolver.ActorName(ctx, event.ChangedBy)
			if err != nil {
				return nil, err
			}
			name = resolved
			actorNames[event.ChangedBy] = name
		}

		for _, change := range event.Changes {
			rows = append(rows, ExportRow{
				ID:            change.ID,
				Field:         change.Field,
				PreviousValue: change.PreviousValue,
				NewValue:      change.NewValue,
				ModifiedBy:    name,
				ModifiedAt:    event.ChangedAt,
			})
		}
	}
	return rows, nil
}
