package history

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// exportHeader is a compatibility contract: downstream consumers parse the
// export by these exact columns in this exact order.
var exportHeader = []string{"ID", "Field Name", "Previous Value", "New Value", "ModifiedBy", "Modified DateTime"}

const exportPrefix = "exports/history"

// Uploader is the blob-storage collaborator: store the contents under key and
// return a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, key string, contents io.Reader) (string, error)
}

// ExportRow is one CSV line of a history export.
type ExportRow struct {
	ID            uint
	Field         string
	PreviousValue string
	NewValue      string
	ModifiedBy    string
	ModifiedAt    time.Time
}

// CSVExporter writes query results to a temp file and hands them to blob
// storage.
type CSVExporter struct {
	uploader Uploader
}

func NewCSVExporter(uploader Uploader) *CSVExporter {
	return &CSVExporter{uploader: uploader}
}

// Export streams rows to a CSV upload and returns its URL. Zero rows skip the
// upload entirely and return "", which callers must treat as "no export
// produced". The local temp file is removed on every exit path.
func (e *CSVExporter) Export(ctx context.Context, rows []ExportRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	f, err := os.CreateTemp("", "history-export-*.csv")
	if err != nil {
		return "", errors.Wrap(err, "error creating export temp file")
	}
	defer func() {
		f.Close()
		if err := os.Remove(f.Name()); err != nil {
			log.WithError(err).WithField("file", f.Name()).Warn("could not remove export temp file")
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return "", errors.Wrap(err, "error writing export header")
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Field,
			row.PreviousValue,
			row.NewValue,
			row.ModifiedBy,
			row.ModifiedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", errors.Wrap(err, "error writing export row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, "error flushing export")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "error rewinding export temp file")
	}

	key := path.Join(exportPrefix, uuid.New().String()+".csv")
	url, err := e.uploader.Upload(ctx, key, f)
	if err != nil {
		return "", errors.Wrap(err, "error uploading export")
	}
	return url, nil
}
