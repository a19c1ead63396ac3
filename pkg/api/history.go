package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
	"github.com/adminhub/adminhub/pkg/filter"
	"github.com/adminhub/adminhub/pkg/history"
)

// HistoryService is what the handlers need from the audit engine.
type HistoryService interface {
	QueryHistory(ctx context.Context, f apitype.HistoryFilter, opts *filter.FilterOptions, export bool) (apitype.HistoryResponse, error)
}

// HistoryAPI serves the audit trail read endpoints.
type HistoryAPI struct {
	Service HistoryService
}

func (h *HistoryAPI) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", GetHealth)
	mux.HandleFunc("/api/history", h.GetHistory)
	mux.HandleFunc("/api/history/export", h.ExportHistory)
}

// GetHistory returns change events matching the query params, newest first.
func (h *HistoryAPI) GetHistory(w http.ResponseWriter, req *http.Request) {
	h.serveHistory(w, req, false)
}

// ExportHistory runs the same query and additionally uploads a CSV export,
// returning its URL. An empty export_url means the result had no rows.
func (h *HistoryAPI) ExportHistory(w http.ResponseWriter, req *http.Request) {
	h.serveHistory(w, req, true)
}

func (h *HistoryAPI) serveHistory(w http.ResponseWriter, req *http.Request, export bool) {
	f, opts, err := historyFilterFromRequest(req)
	if err != nil {
		failureResponse(http.StatusBadRequest, w, err.Error())
		return
	}

	response, err := h.Service.QueryHistory(req.Context(), f, opts, export)
	if err != nil {
		if isCallerError(err) {
			failureResponse(http.StatusBadRequest, w, err.Error())
			return
		}
		log.WithError(err).Error("error querying history")
		failureResponse(http.StatusInternalServerError, w, "error querying history")
		return
	}

	RespondWithJSON(http.StatusOK, w, response)
}

func historyFilterFromRequest(req *http.Request) (apitype.HistoryFilter, *filter.FilterOptions, error) {
	f := apitype.HistoryFilter{
		EntityType: req.URL.Query().Get("entityType"),
		Search:     req.URL.Query().Get("search"),
		Field:      req.URL.Query().Get("field"),
	}

	if v := req.URL.Query().Get("actorId"); v != "" {
		actorID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, nil, errors.Wrap(err, "error parsing actorId param")
		}
		f.ActorID = uint(actorID)
	}
	if v := req.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return f, nil, errors.Wrap(err, "error parsing offset param")
		}
		f.Offset = offset
	}
	if v := req.URL.Query().Get("startDate"); v != "" {
		start, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, nil, errors.Wrap(err, "error parsing startDate param")
		}
		f.StartDate = &start
	}
	if v := req.URL.Query().Get("endDate"); v != "" {
		end, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, nil, errors.Wrap(err, "error parsing endDate param")
		}
		f.EndDate = &end
	}

	opts, err := filter.FilterOptionsFromRequest(req)
	if err != nil {
		return f, nil, err
	}
	f.Limit = opts.Limit

	return f, opts, nil
}

func isCallerError(err error) bool {
	if errors.Is(err, history.ErrInvalidDateRange) || errors.Is(err, filter.ErrUnknownField) {
		return true
	}
	var verr validator.ValidationErrors
	return errors.As(err, &verr)
}

// GetHealth reports liveness.
func GetHealth(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(http.StatusOK, w, map[string]interface{}{"status": "ok"})
}
