package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminhub/adminhub/pkg/db/models"
)

func newTestDiffEngine(reader EntityReader) *DiffEngine {
	registry := testRegistry()
	return NewDiffEngine(registry, NewResolver(registry, reader))
}

func TestDiffNewEntity(t *testing.T) {
	e := newTestDiffEngine(&fakeReader{})

	changes, err := e.Diff(context.Background(), "client", Snapshot{}, map[string]interface{}{"name": "Acme"})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, models.FieldChange{Field: "name", PreviousValue: "", NewValue: "Acme"}, changes[0])
}

func TestDiffManyToManyRelation(t *testing.T) {
	reader := &fakeReader{
		names: map[string]map[uint]string{
			"roles": {5: "Admin", 9: "Editor"},
		},
	}
	e := newTestDiffEngine(reader)

	snap := Snapshot{"roleNames": "Admin"}
	payload := map[string]interface{}{"roleIds": []interface{}{float64(5), float64(9)}}

	changes, err := e.Diff(context.Background(), "profile", snap, payload)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, models.FieldChange{Field: "roleNames", PreviousValue: "Admin", NewValue: "Admin,Editor"}, changes[0])
}

func TestDiffActorField(t *testing.T) {
	reader := &fakeReader{
		rows: map[string]map[uint]map[string]interface{}{
			"profiles": {
				41: {"first_name": "Sam", "last_name": "Poe"},
				42: {"first_name": "Jo", "last_name": "Lee"},
			},
		},
	}
	e := newTestDiffEngine(reader)

	snap := Snapshot{"updatedBy": "41"}
	payload := map[string]interface{}{"updatedBy": float64(42)}

	changes, err := e.Diff(context.Background(), "profile", snap, payload)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, models.FieldChange{Field: "updatedBy", PreviousValue: "Sam Poe", NewValue: "Jo Lee"}, changes[0])
}

func TestDiffRecordsUnchangedValues(t *testing.T) {
	// The trail deliberately includes no-op changes; see Diff.
	e := newTestDiffEngine(&fakeReader{})

	snap := Snapshot{"name": "Acme"}
	changes, err := e.Diff(context.Background(), "client", snap, map[string]interface{}{"name": "Acme"})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "Acme", changes[0].PreviousValue)
	assert.Equal(t, "Acme", changes[0].NewValue)
}

func TestDiffIsDeterministic(t *testing.T) {
	reader := &fakeReader{
		names: map[string]map[uint]string{
			"roles":    {5: "Admin"},
			"statuses": {2: "Active"},
		},
	}
	e := newTestDiffEngine(reader)

	snap := Snapshot{"firstName": "Ada", "roleNames": "", "statusName": ""}
	payload := map[string]interface{}{
		"firstName": "Ada B",
		"roleIds":   []interface{}{float64(5)},
		"statusId":  float64(2),
		"lastName":  "Byron",
	}

	first, err := e.Diff(context.Background(), "profile", snap, payload)
	require.NoError(t, err)
	second, err := e.Diff(context.Background(), "profile", snap, payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// payload keys are walked sorted, so output order is stable
	fields := make([]string, 0, len(first))
	for _, c := range first {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"firstName", "lastName", "roleNames", "statusName"}, fields)
}

func TestDiffDeduplicatesLabels(t *testing.T) {
	registry := NewRegistry([]models.TableRelation{
		{EntityType: "profile", FieldName: "roleIds", JoinTable: "profile_roles", MasterTable: "role"},
		{EntityType: "profile", FieldName: "extraRoleIds", JoinTable: "profile_roles", MasterTable: "role"},
	})
	reader := &fakeReader{
		names: map[string]map[uint]string{
			"roles": {5: "Admin", 9: "Editor"},
		},
	}
	e := NewDiffEngine(registry, NewResolver(registry, reader))

	payload := map[string]interface{}{
		"extraRoleIds": []interface{}{float64(9)},
		"roleIds":      []interface{}{float64(5)},
	}

	changes, err := e.Diff(context.Background(), "profile", Snapshot{}, payload)
	require.NoError(t, err)

	// both payload keys map to roleNames; the first resolution wins
	require.Len(t, changes, 1)
	assert.Equal(t, "roleNames", changes[0].Field)
	assert.Equal(t, "Editor", changes[0].NewValue)
}

func TestDiffStringification(t *testing.T) {
	e := newTestDiffEngine(&fakeReader{})

	payload := map[string]interface{}{
		"active": true,
		"score":  float64(12.5),
		"count":  float64(3),
		"note":   nil,
	}

	changes, err := e.Diff(context.Background(), "client", Snapshot{}, payload)
	require.NoError(t, err)

	byField := map[string]models.FieldChange{}
	for _, c := range changes {
		byField[c.Field] = c
	}
	assert.Equal(t, "true", byField["active"].NewValue)
	assert.Equal(t, "12.5", byField["score"].NewValue)
	assert.Equal(t, "3", byField["count"].NewValue)
	assert.Equal(t, "", byField["note"].NewValue)
}
