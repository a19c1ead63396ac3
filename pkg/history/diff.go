package history

import (
	"context"
	"sort"

	"github.com/adminhub/adminhub/pkg/db/models"
)

// DiffEngine computes the field-level changes between an entity snapshot and a
// proposed update payload.
type DiffEngine struct {
	registry *Registry
	resolver *Resolver
}

func NewDiffEngine(registry *Registry, resolver *Resolver) *DiffEngine {
	return &DiffEngine{registry: registry, resolver: resolver}
}

// Diff produces one FieldChange per payload field. Relation fields are
// recorded under their canonical label (e.g. "roleNames"); when several
// payload keys map to the same label, the first resolution wins. Payload keys
// are walked in sorted order so repeated calls over the same inputs yield
// identical output.
//
// An entry is emitted even when the previous and new values are equal. The
// upstream system records no-op changes too, and consumers depend on the
// trail being complete; suppressing unchanged fields is a behavior change
// that needs sign-off.
func (e *DiffEngine) Diff(ctx context.Context, entityType string, snap Snapshot, payload map[string]interface{}) ([]models.FieldChange, error) {
	fields := make([]string, 0, len(payload))
	for f := range payload {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	changes := make([]models.FieldChange, 0, len(fields))
	seen := map[string]bool{}

	for _, f := range fields {
		if d, ok := e.registry.Lookup(entityType, f); ok {
			label := d.Label()
			if seen[label] {
				continue
			}
			seen[label] = true

			newValue, _, err := e.resolver.ResolveNew(ctx, entityType, f, payload[f])
			if err != nil {
				return nil, err
			}
			changes = append(changes, models.FieldChange{
				Field:         label,
				PreviousValue: snap[label],
				NewValue:      newValue,
			})
			continue
		}

		if isActorField(f) {
			if seen[f] {
				continue
			}
			seen[f] = true

			previous, err := e.resolver.ActorName(ctx, asID(snap[f]))
			if err != nil {
				return nil, err
			}
			newValue, err := e.resolver.ActorName(ctx, asID(payload[f]))
			if err != nil {
				return nil, err
			}
			changes = append(changes, models.FieldChange{
				Field:         f,
				PreviousValue: previous,
				NewValue:      newValue,
			})
			continue
		}

		if seen[f] {
			continue
		}
		seen[f] = true
		changes = append(changes, models.FieldChange{
			Field:         f,
			PreviousValue: snap[f],
			NewValue:      stringify(payload[f]),
		})
	}

	return changes, nil
}
