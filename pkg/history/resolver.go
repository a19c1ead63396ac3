package history

import (
	"context"
	"strings"
)

const (
	fieldCreatedBy = "createdBy"
	fieldUpdatedBy = "updatedBy"
)

func isActorField(fieldName string) bool {
	return fieldName == fieldCreatedBy || fieldName == fieldUpdatedBy
}

// Resolver turns the ids in an incoming payload into display names.
type Resolver struct {
	registry *Registry
	reader   EntityReader
}

func NewResolver(registry *Registry, reader EntityReader) *Resolver {
	return &Resolver{registry: registry, reader: reader}
}

// ResolveNew resolves the proposed value for a payload field. The second
// return is false when the field has no relation metadata and the caller
// should fall back to raw stringification.
func (r *Resolver) ResolveNew(ctx context.Context, entityType, fieldName string, value interface{}) (string, bool, error) {
	d, ok := r.registry.Lookup(entityType, fieldName)
	if !ok {
		return "", false, nil
	}

	if d.Kind == OneToOne {
		id := asID(value)
		if id == 0 {
			return "", true, nil
		}
		names, err := r.reader.NamesByIDs(ctx, tableFor(d.MasterTable), []uint{id})
		if err != nil {
			return "", true, err
		}
		return names[id], true, nil
	}

	ids := asIDs(value)
	names, err := r.reader.NamesByIDs(ctx, tableFor(d.MasterTable), ids)
	if err != nil {
		return "", true, err
	}

	// Join in the order the caller supplied, skipping ids that no longer
	// resolve: the trail reflects the closest reality rather than failing.
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			resolved = append(resolved, name)
		}
	}
	return strings.Join(resolved, ","), true, nil
}

// ActorName resolves a profile id to "firstName lastName", trimmed. Actor
// fields bypass the relation metadata and always resolve against profiles.
// A missing profile yields the empty string.
func (r *Resolver) ActorName(ctx context.Context, id uint) (string, error) {
	if id == 0 {
		return "", nil
	}
	row, err := r.reader.FetchRow(ctx, "profiles", id)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	return strings.TrimSpace(stringify(row["first_name"]) + " " + stringify(row["last_name"])), nil
}
