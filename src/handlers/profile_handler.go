package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/models"
	"github.com/username/termtracker/backend/src/security/validation"
	"github.com/username/termtracker/backend/src/services"
)

type ProfileHandler struct {
	instruments services.InstrumentService
}

func NewProfileHandler(instruments services.InstrumentService) *ProfileHandler {
	return &ProfileHandler{instruments: instruments}
}

// HandleListTaxProfiles returns the user's profile for every jurisdiction,
// creating missing ones with defaults so the client always sees both.
func (h *ProfileHandler) HandleListTaxProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	profiles, err := h.instruments.ListTaxProfiles(userID)
	if err != nil {
		logger.L.Error("Failed to list tax profiles", "error", err, "userID", userID)
		sendJSONError(w, "Failed to list tax profiles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

func (h *ProfileHandler) HandleGetTaxProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	jurisdiction := models.Jurisdiction(r.PathValue("jurisdiction"))
	if !jurisdiction.Valid() {
		sendJSONError(w, "Unknown jurisdiction", http.StatusBadRequest)
		return
	}

	profile, err := h.instruments.GetOrCreateTaxProfile(userID, jurisdiction)
	if err != nil {
		logger.L.Error("Failed to get tax profile", "error", err, "userID", userID, "jurisdiction", jurisdiction)
		sendJSONError(w, "Failed to get tax profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) HandleUpdateTaxProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	jurisdiction := models.Jurisdiction(r.PathValue("jurisdiction"))
	if !jurisdiction.Valid() {
		sendJSONError(w, "Unknown jurisdiction", http.StatusBadRequest)
		return
	}

	var profile models.TaxProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	profile.UserID = userID
	profile.Jurisdiction = jurisdiction

	if err := validation.ValidateTaxProfile(&profile); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Ensure the row exists before updating so a fresh user can PUT directly.
	if _, err := h.instruments.GetOrCreateTaxProfile(userID, jurisdiction); err != nil {
		logger.L.Error("Failed to ensure tax profile exists", "error", err, "userID", userID, "jurisdiction", jurisdiction)
		sendJSONError(w, "Failed to update tax profile", http.StatusInternalServerError)
		return
	}

	if err := h.instruments.UpdateTaxProfile(userID, &profile); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendJSONError(w, "Tax profile not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update tax profile", "error", err, "userID", userID, "jurisdiction", jurisdiction)
		sendJSONError(w, "Failed to update tax profile", http.StatusInternalServerError)
		return
	}

	updated, err := h.instruments.GetOrCreateTaxProfile(userID, jurisdiction)
	if err != nil {
		logger.L.Error("Failed to re-read tax profile after update", "error", err, "userID", userID)
		sendJSONError(w, "Failed to update tax profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
