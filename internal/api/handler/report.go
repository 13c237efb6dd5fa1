package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
	"github.com/shorecast/shorecast/internal/report"
)

// ReportHandler handles community report endpoints.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{reports: service}
}

// CreateReport handles POST /v1/reports - submit a community report. The
// report enters the moderation queue and does not affect any signal until
// approved.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var input models.ReportCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.reports.Submit(r.Context(), report.Report{
		BeachID:  input.BeachID,
		Type:     input.Type,
		Severity: input.Severity,
		Lat:      input.Lat,
		Lon:      input.Lon,
	})
	if err != nil {
		if errors.Is(err, report.ErrInvalidReport) {
			response.BadRequest(w, r, "type must be ODOR or DEBRIS and severity 1-3", nil)
			return
		}
		response.InternalError(w, r, "failed to store report")
		return
	}

	location := fmt.Sprintf("/v1/reports/%s", created.ID)
	response.Created(w, r, location, models.NewReportResponse(*created))
}

// ListReports handles GET /v1/reports - list reports for one beach.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	beachID, err := strconv.Atoi(r.URL.Query().Get("beachId"))
	if err != nil {
		response.BadRequest(w, r, "beachId query parameter is required", []models.FieldError{
			{Field: "beachId", Message: "must be an integer", Code: "invalid_type"},
		})
		return
	}

	reports, err := h.reports.List(r.Context(), beachID)
	if err != nil {
		response.InternalError(w, r, "failed to list reports")
		return
	}

	items := make([]models.ReportResponse, 0, len(reports))
	for _, rep := range reports {
		items = append(items, models.NewReportResponse(rep))
	}
	response.JSON(w, r, http.StatusOK, models.PagedReports{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: len(items)},
	})
}

// ModerateReport handles POST /v1/reports/{reportId}:moderate - record the
// one-time moderation decision.
func (h *ReportHandler) ModerateReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	if reportID == "" {
		response.BadRequest(w, r, "reportId is required", nil)
		return
	}

	var input models.ReportModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := h.reports.Moderate(r.Context(), reportID, input.Approved); err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			response.NotFound(w, r, "no report matches the given identifier")
			return
		}
		response.InternalError(w, r, "failed to moderate report")
		return
	}
	response.NoContent(w, r)
}
