package history

import (
	"context"
	"io"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/db/models"
	"github.com/adminhub/adminhub/pkg/filter"
)

// fakeReader serves canned rows, names, and links without a database.
type fakeReader struct {
	rows     map[string]map[uint]map[string]interface{}
	names    map[string]map[uint]string
	links    map[string]map[uint][]uint
	children map[string]string
	err      error
}

func (f *fakeReader) FetchRow(_ context.Context, table string, id uint) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[table][id], nil
}

func (f *fakeReader) NamesByIDs(_ context.Context, table string, ids []uint) (map[uint]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names := map[uint]string{}
	for _, id := range ids {
		if name, ok := f.names[table][id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (f *fakeReader) LinkedIDs(_ context.Context, joinTable, _, _ string, id uint) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.links[joinTable][id], nil
}

func (f *fakeReader) FirstChildValue(_ context.Context, table, _ string, _ uint, _ map[string]interface{}, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.children[table], nil
}

func testRegistry() *Registry {
	return NewRegistry([]models.TableRelation{
		{EntityType: "profile", FieldName: "roleIds", JoinTable: "profile_roles", MasterTable: "role"},
		{EntityType: "profile", FieldName: "clientIds", JoinTable: "profile_clients", MasterTable: "client"},
		{EntityType: "profile", FieldName: "statusId", MasterTable: "status"},
		{EntityType: "role", FieldName: "permissionIds", JoinTable: "role_permissions", MasterTable: "permission"},
	})
}

type recordedCall struct {
	entityType string
	entityID   uint
	actorID    uint
	changes    []models.FieldChange
}

// fakeStore captures Record calls and serves canned query results.
type fakeStore struct {
	recorded  []recordedCall
	events    []models.ChangeEvent
	recordErr error
	queryErr  error
}

func (f *fakeStore) Record(_ context.Context, entityType string, entityID, actorID uint, changes []models.FieldChange) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, recordedCall{
		entityType: entityType,
		entityID:   entityID,
		actorID:    actorID,
		changes:    changes,
	})
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ apitype.HistoryFilter, _ *filter.FilterOptions) ([]models.ChangeEvent, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.events, nil
}

// fakeUploader captures uploaded contents and can simulate upload failures.
type fakeUploader struct {
	uploads map[string][]byte
	url     string
	err     error
	calls   int
}

func (f *fakeUploader) Upload(_ context.Context, key string, contents io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(contents)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return f.url, nil
}
