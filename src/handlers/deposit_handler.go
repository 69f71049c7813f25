package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/username/termtracker/backend/src/config"
	"github.com/username/termtracker/backend/src/finance"
	"github.com/username/termtracker/backend/src/logger"
	"github.com/username/termtracker/backend/src/models"
	"github.com/username/termtracker/backend/src/security/validation"
	"github.com/username/termtracker/backend/src/services"
)

type DepositHandler struct {
	instruments services.InstrumentService
}

func NewDepositHandler(instruments services.InstrumentService) *DepositHandler {
	return &DepositHandler{instruments: instruments}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// applyDefaultFX fills in the configured exchange-rate snapshot when the
// client did not supply one. Once set it is frozen on the instrument.
func applyDefaultFX(d *models.Deposit) {
	if d.FX.AUDToGBP.IsZero() {
		d.FX.AUDToGBP = config.Cfg.DefaultFXAUDToGBP
	}
	if d.FX.GBPToAUD.IsZero() {
		d.FX.GBPToAUD = config.Cfg.DefaultFXGBPToAUD
	}
}

func (h *DepositHandler) HandleCreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var deposit models.Deposit
	if err := json.NewDecoder(r.Body).Decode(&deposit); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	applyDefaultFX(&deposit)
	if err := validation.ValidateDeposit(&deposit); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.instruments.CreateDeposit(userID, &deposit); err != nil {
		logger.L.Error("Failed to create deposit", "error", err, "userID", userID)
		sendJSONError(w, "Failed to create deposit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(deposit)
}

func (h *DepositHandler) HandleListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var (
		deposits []models.Deposit
		err      error
	)
	if currencyParam := r.URL.Query().Get("currency"); currencyParam != "" {
		currency := models.Currency(currencyParam)
		if !currency.Valid() {
			sendJSONError(w, "Unknown currency filter", http.StatusBadRequest)
			return
		}
		deposits, err = h.instruments.ListDepositsByCurrency(userID, currency)
	} else {
		deposits, err = h.instruments.ListDeposits(userID)
	}
	if err != nil {
		logger.L.Error("Failed to list deposits", "error", err, "userID", userID)
		sendJSONError(w, "Failed to list deposits", http.StatusInternalServerError)
		return
	}
	if deposits == nil {
		deposits = []models.Deposit{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deposits)
}

func (h *DepositHandler) HandleGetDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	depositID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid deposit id", http.StatusBadRequest)
		return
	}

	deposit, err := h.instruments.GetDeposit(userID, depositID)
	if errors.Is(err, services.ErrNotFound) {
		sendJSONError(w, "Deposit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("Failed to get deposit", "error", err, "userID", userID, "depositID", depositID)
		sendJSONError(w, "Failed to get deposit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deposit)
}

// HandleGetDepositConverted returns the deposit's principal, gross interest
// and maturity value expressed in the requested currency using the
// deposit's frozen exchange-rate snapshot.
func (h *DepositHandler) HandleGetDepositConverted(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	depositID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid deposit id", http.StatusBadRequest)
		return
	}

	target := models.Currency(r.URL.Query().Get("currency"))
	if target == "" {
		sendJSONError(w, "currency query parameter is required", http.StatusBadRequest)
		return
	}

	deposit, err := h.instruments.GetDeposit(userID, depositID)
	if errors.Is(err, services.ErrNotFound) {
		sendJSONError(w, "Deposit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("Failed to get deposit for conversion", "error", err, "userID", userID, "depositID", depositID)
		sendJSONError(w, "Failed to get deposit", http.StatusInternalServerError)
		return
	}

	converted := finance.ConvertedDeposit(*deposit, target)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(converted)
}

func (h *DepositHandler) HandleUpdateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	depositID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid deposit id", http.StatusBadRequest)
		return
	}

	existing, err := h.instruments.GetDeposit(userID, depositID)
	if errors.Is(err, services.ErrNotFound) {
		sendJSONError(w, "Deposit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.L.Error("Failed to load deposit for update", "error", err, "userID", userID, "depositID", depositID)
		sendJSONError(w, "Failed to update deposit", http.StatusInternalServerError)
		return
	}

	var deposit models.Deposit
	if err := json.NewDecoder(r.Body).Decode(&deposit); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	deposit.ID = depositID
	deposit.FX = existing.FX

	if err := validation.ValidateDeposit(&deposit); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.instruments.UpdateDeposit(userID, &deposit); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendJSONError(w, "Deposit not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update deposit", "error", err, "userID", userID, "depositID", depositID)
		sendJSONError(w, "Failed to update deposit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deposit)
}

func (h *DepositHandler) HandleDeleteDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	depositID, err := pathID(r)
	if err != nil {
		sendJSONError(w, "Invalid deposit id", http.StatusBadRequest)
		return
	}

	if err := h.instruments.DeleteDeposit(userID, depositID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendJSONError(w, "Deposit not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete deposit", "error", err, "userID", userID, "depositID", depositID)
		sendJSONError(w, "Failed to delete deposit", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
