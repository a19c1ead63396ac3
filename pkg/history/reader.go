package history

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/adminhub/adminhub/pkg/db"
)

// EntityReader is the read-only capability set the audit engine needs from the
// rest of the system: fetch an entity row, batch-resolve ids to display names,
// walk a join table, and flatten a child row. One implementation is registered
// for the whole gorm-backed schema; tests swap in fakes.
type EntityReader interface {
	// FetchRow returns the entity row as a column->value map, or nil when no
	// such row exists.
	FetchRow(ctx context.Context, table string, id uint) (map[string]interface{}, error)

	// NamesByIDs resolves ids against the table's "name" column. Ids without a
	// row are simply absent from the result.
	NamesByIDs(ctx context.Context, table string, ids []uint) (map[uint]string, error)

	// LinkedIDs returns the refColumn values of join-table rows owned by id,
	// in the database's natural order.
	LinkedIDs(ctx context.Context, joinTable, ownerColumn, refColumn string, id uint) ([]uint, error)

	// FirstChildValue returns one column of the first child row matching the
	// given criteria, or "" when none matches.
	FirstChildValue(ctx context.Context, table, fkColumn string, id uint, match map[string]interface{}, column string) (string, error)
}

// GormReader implements EntityReader against the adminhub schema.
type GormReader struct {
	dbc *db.DB
}

func NewGormReader(dbc *db.DB) *GormReader {
	return &GormReader{dbc: dbc}
}

func (r *GormReader) FetchRow(ctx context.Context, table string, id uint) (map[string]interface{}, error) {
	row := map[string]interface{}{}
	res := r.dbc.DB.WithContext(ctx).Table(table).Where("id = ?", id).Take(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(res.Error, "error fetching %s row %d", table, id)
	}
	return row, nil
}

func (r *GormReader) NamesByIDs(ctx context.Context, table string, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows := []struct {
		ID   uint
		Name string
	}{}
	res := r.dbc.DB.WithContext(ctx).Table(table).Select("id, name").Where("id IN ?", ids).Find(&rows)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "error resolving names from %s", table)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *GormReader) LinkedIDs(ctx context.Context, joinTable, ownerColumn, refColumn string, id uint) ([]uint, error) {
	ids := []uint{}
	// No ORDER BY: callers rely on the database's natural, reproducible order.
	res := r.dbc.DB.WithContext(ctx).Table(joinTable).
		Where(fmt.Sprintf("%q = ?", ownerColumn), id).
		Pluck(refColumn, &ids)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "error walking join table %s", joinTable)
	}
	return ids, nil
}

func (r *GormReader) FirstChildValue(ctx context.Context, table, fkColumn string, id uint, match map[string]interface{}, column string) (string, error) {
	q := r.dbc.DB.WithContext(ctx).Table(table).Where(fmt.Sprintf("%q = ?", fkColumn), id)
	for col, val := range match {
		q = q.Where(fmt.Sprintf("%q = ?", col), val)
	}

	values := []string{}
	res := q.Limit(1).Pluck(column, &values)
	if res.Error != nil {
		return "", errors.Wrapf(res.Error, "error flattening %s for %s %d", table, fkColumn, id)
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}
