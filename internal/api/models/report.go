package models

import "github.com/shorecast/shorecast/internal/report"

// ReportCreateRequest is the public report submission payload.
type ReportCreateRequest struct {
	BeachID  int         `json:"beachId" validate:"required"`
	Type     report.Type `json:"type" validate:"required"`
	Severity int         `json:"severity" validate:"required,gte=1,lte=3"`
	Lat      float64     `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon      float64     `json:"lon" validate:"required,gte=-180,lte=180"`
}

// ReportModerateRequest is the moderation decision payload.
type ReportModerateRequest struct {
	Approved bool `json:"approved"`
}

// ReportResponse represents one community report.
type ReportResponse struct {
	ID        string      `json:"id"`
	BeachID   int         `json:"beachId"`
	Type      report.Type `json:"type"`
	Severity  int         `json:"severity"`
	Point     Point       `json:"point"`
	Moderated bool        `json:"moderated"`
	Approved  bool        `json:"approved"`
	CreatedAt Timestamp   `json:"createdAt"`
}

// PagedReports represents a paginated list of reports.
type PagedReports struct {
	Items []ReportResponse  `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// NewReportResponse maps a domain report onto the wire model.
func NewReportResponse(r report.Report) ReportResponse {
	return ReportResponse{
		ID:        r.ID,
		BeachID:   r.BeachID,
		Type:      r.Type,
		Severity:  r.Severity,
		Point:     Point{Lat: r.Lat, Lon: r.Lon},
		Moderated: r.Moderated,
		Approved:  r.Approved,
		CreatedAt: Timestamp(r.CreatedAt),
	}
}
