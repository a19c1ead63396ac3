package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempExportFiles(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(os.TempDir(), "history-export-*.csv"))
	require.NoError(t, err)
	return files
}

func sampleRows() []ExportRow {
	return []ExportRow{
		{
			ID:            1,
			Field:         "name",
			PreviousValue: "",
			NewValue:      "Acme",
			ModifiedBy:    "Jo Lee",
			ModifiedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Field:         "roleNames",
			PreviousValue: "Admin",
			NewValue:      "Admin,Editor",
			ModifiedBy:    "Jo Lee",
			ModifiedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportEmptyRowsSkipsUpload(t *testing.T) {
	uploader := &fakeUploader{url: "https://example.com/export.csv"}
	e := NewCSVExporter(uploader)

	url, err := e.Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", url)
	assert.Zero(t, uploader.calls)
}

func TestExportWritesHeaderAndRows(t *testing.T) {
	before := tempExportFiles(t)

	uploader := &fakeUploader{url: "https://example.com/export.csv"}
	e := NewCSVExporter(uploader)

	url, err := e.Export(context.Background(), sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/export.csv", url)
	require.Equal(t, 1, uploader.calls)

	var contents []byte
	for _, data := range uploader.uploads {
		contents = data
	}
	records, err := csv.NewReader(bytes.NewReader(contents)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Field Name", "Previous Value", "New Value", "ModifiedBy", "Modified DateTime"}, records[0])
	assert.Equal(t, []string{"1", "name", "", "Acme", "Jo Lee", "2024-05-01T10:00:00Z"}, records[1])
	assert.Equal(t, []string{"2", "roleNames", "Admin", "Admin,Editor", "Jo Lee", "2024-05-01T10:00:00Z"}, records[2])

	// the local temp file is gone
	assert.Equal(t, before, tempExportFiles(t))
}

func TestExportCleansUpOnUploadFailure(t *testing.T) {
	before := tempExportFiles(t)

	uploader := &fakeUploader{err: fmt.Errorf("bucket unavailable")}
	e := NewCSVExporter(uploader)

	url, err := e.Export(context.Background(), sampleRows())
	assert.Error(t, err)
	assert.Equal(t, "", url)

	assert.Equal(t, before, tempExportFiles(t))
}
