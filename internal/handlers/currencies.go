package handlers

import (
	"encoding/json"
	"net/http"

	"negoce/internal/services"
)

type createCurrencyRequest struct {
	Code   string `json:"code_devise"`
	Name   string `json:"nom_devise"`
	Symbol string `json:"symbole_devise"`
}

func (h *Handler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req createCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	currency, err := h.currencies.CreateCurrency(r.Context(), services.CreateCurrencyRequest{
		Code:   req.Code,
		Name:   req.Name,
		Symbol: req.Symbol,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"code_dev":    currency.Code,
		"nom_dev":     currency.Name,
		"symbole_dev": currency.Symbol,
	})
}

func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyStore.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load currencies")
		return
	}
	respondJSON(w, http.StatusOK, currencies)
}

type setRateRequest struct {
	Currency string `json:"devise"`
	Rate     string `json:"taux"`
	Date     string `json:"date_taux"`
}

func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	var req setRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rate, err := parseRate(req.Rate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le taux de change est invalide.")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "La date est obligatoire.")
		return
	}
	if err := h.currencies.SetRate(r.Context(), req.Currency, rate, date); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Le taux de change a été mis à jour.")
}

func (h *Handler) ListActiveRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.currencyStore.ListActiveRates(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load rates")
		return
	}
	normalized := make([]map[string]any, 0, len(rates))
	for _, rate := range rates {
		normalized = append(normalized, map[string]any{
			"dev_code":   rate.Currency,
			"taux":       rate.Rate.String(),
			"date_debut": rate.StartDate,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}
