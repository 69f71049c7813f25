package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/services"
	"github.com/username/termtracker/backend/src/utils"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// writeWithETag sends the payload with an ETag, honoring If-None-Match so
// unchanged reports cost the client nothing to re-poll.
func writeWithETag(w http.ResponseWriter, r *http.Request, payload any) {
	etag, err := utils.GenerateETag(payload)
	if err != nil {
		logger.L.Error("Failed to generate ETag for report", "error", err)
	} else {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *ReportHandler) HandleGetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	summary, err := h.reports.DashboardSummary(userID)
	if err != nil {
		logger.L.Error("Failed to compute dashboard summary", "error", err, "userID", userID)
		sendJSONError(w, "Failed to compute dashboard summary", http.StatusInternalServerError)
		return
	}

	writeWithETag(w, r, summary)
}

func (h *ReportHandler) HandleGetTaxObligations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	year := 0
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			sendJSONError(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	report, err := h.reports.TaxObligations(userID, year)
	if err != nil {
		logger.L.Error("Failed to compute tax obligations", "error", err, "userID", userID, "year", year)
		sendJSONError(w, "Failed to compute tax obligations", http.StatusInternalServerError)
		return
	}

	writeWithETag(w, r, report)
}
