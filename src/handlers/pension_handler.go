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

type PensionHandler struct {
	instruments services.InstrumentService
}

func NewPensionHandler(instruments services.InstrumentService) *PensionHandler {
	return &PensionHandler{instruments: instruments}
}

func (h *PensionHandler) HandleCreatePension(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var pension models.Pension
	if err := json.NewDecoder(r.Body).Decode(&pension); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePension(&pension); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.instruments.CreatePension(userID, &pension); err != nil {
		logger.L.Error("Failed to create pension", "error", err, "userID", userID)
		sendJSONError(w, "Failed to create pension", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pension)
}

func (h *PensionHandler) HandleListPensions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	pensions, err := h.instruments.ListPensions(userID)
	if err != nil {
		logger.L.Error("Failed to list pensions", "error", err, "userID", userID)
		sendJSONError(w, "Failed to list pensions", http.StatusInternalServerError)
		return
	}
	if pensions == nil {
		pensions = []models.Pension{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pensions)
}

func (h *PensionHandler) HandleGetPension(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	pensionID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid pension id", http.StatusBadRequest)
		return
	}

	pension, err := h.instruments.GetPension(userID, pensionID)
	if errors.Is(err, services.ErrNotFound) {
		sendJSONError(w, "Pension not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("Failed to get pension", "error", err, "userID", userID, "pensionID", pensionID)
		sendJSONError(w, "Failed to get pension", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pension)
}

func (h *PensionHandler) HandleUpdatePension(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	pensionID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid pension id", http.StatusBadRequest)
		return
	}

	var pension models.Pension
	if err := json.NewDecoder(r.Body).Decode(&pension); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	pension.ID = pensionID

	if err := validation.ValidatePension(&pension); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.instruments.UpdatePension(userID, &pension); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendJSONError(w, "Pension not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update pension", "error", err, "userID", userID, "pensionID", pensionID)
		sendJSONError(w, "Failed to update pension", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pension)
}

func (h *PensionHandler) HandleDeletePension(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	pensionID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid pension id", http.StatusBadRequest)
		return
	}

	if err := h.instruments.DeletePension(userID, pensionID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendJSONError(w, "Pension not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete pension", "error", err, "userID", userID, "pensionID", pensionID)
		sendJSONError(w, "Failed to delete pension", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
