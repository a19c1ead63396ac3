package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/db/models"
	"github.com/adminhub/adminhub/pkg/filter"
	"github.com/adminhub/adminhub/pkg/history"
)

type fakeHistoryService struct {
	filter   apitype.HistoryFilter
	export   bool
	response apitype.HistoryResponse
	err      error
}

func (f *fakeHistoryService) QueryHistory(_ context.Context, hf apitype.HistoryFilter, _ *filter.FilterOptions, export bool) (apitype.HistoryResponse, error) {
	f.filter = hf
	f.export = export
	if f.err != nil {
		return apitype.HistoryResponse{}, f.err
	}
	return f.response, nil
}

func TestGetHistoryParsesParams(t *testing.T) {
	svc := &fakeHistoryService{response: apitype.HistoryResponse{Events: []models.ChangeEvent{{ID: 1}}}}
	h := &HistoryAPI{Service: svc}

	req := httptest.NewRequest("GET", "/api/history?entityType=role&search=name&actorId=42&field=roleNames&startDate=2024-05-01T00:00:00Z&endDate=2024-05-02T00:00:00Z&offset=10&limit=50", nil)
	w := httptest.NewRecorder()
	h.GetHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.export)
	assert.Equal(t, "role", svc.filter.EntityType)
	assert.Equal(t, "name", svc.filter.Search)
	assert.Equal(t, uint(42), svc.filter.ActorID)
	assert.Equal(t, "roleNames", svc.filter.Field)
	assert.Equal(t, 10, svc.filter.Offset)
	assert.Equal(t, 50, svc.filter.Limit)
	require.NotNil(t, svc.filter.StartDate)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), svc.filter.StartDate.UTC())

	response := apitype.HistoryResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Events, 1)
}

func TestExportHistorySetsExport(t *testing.T) {
	svc := &fakeHistoryService{response: apitype.HistoryResponse{ExportURL: "https://example.com/export.csv"}}
	h := &HistoryAPI{Service: svc}

	req := httptest.NewRequest("GET", "/api/history/export?entityType=role", nil)
	w := httptest.NewRecorder()
	h.ExportHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.export)

	response := apitype.HistoryResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "https://example.com/export.csv", response.ExportURL)
}

func TestGetHistoryRejectsBadParams(t *testing.T) {
	h := &HistoryAPI{Service: &fakeHistoryService{}}

	tests := []struct {
		name string
		url  string
	}{
		{"bad actorId", "/api/history?entityType=role&actorId=abc"},
		{"bad offset", "/api/history?entityType=role&offset=abc"},
		{"bad startDate", "/api/history?entityType=role&startDate=yesterday"},
		{"bad endDate", "/api/history?entityType=role&endDate=tomorrow"},
		{"bad limit", "/api/history?entityType=role&limit=abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.GetHistory(w, httptest.NewRequest("GET", tc.url, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetHistoryCallerErrorsAre400(t *testing.T) {
	svc := &fakeHistoryService{err: history.ErrInvalidDateRange}
	h := &HistoryAPI{Service: svc}

	w := httptest.NewRecorder()
	h.GetHistory(w, httptest.NewRequest("GET", "/api/history?entityType=role", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistoryInfrastructureErrorsAre500(t *testing.T) {
	svc := &fakeHistoryService{err: assert.AnError}
	h := &HistoryAPI{Service: svc}

	w := httptest.NewRecorder()
	h.GetHistory(w, httptest.NewRequest("GET", "/api/history?entityType=role", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
