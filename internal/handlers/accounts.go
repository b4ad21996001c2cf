package handlers

import (
	"encoding/json"
	"net/http"

	"negoce/internal/services"
)

type createAccountRequest struct {
	Designation string `json:"designation"`
	Type        string `json:"type"`
	Devise      string `json:"devise"`
	CashFunded  bool   `json:"alimente_par_caisse"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := h.accounts.CreateAccount(r.Context(), services.CreateAccountRequest{
		Designation: req.Designation,
		Type:        req.Type,
		Currency:    req.Devise,
		CashFunded:  req.CashFunded,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_cpt":          account.ID,
		"designation_cpt": account.Designation,
		"type_cpt":        account.Type,
		"dev_code":        account.Currency,
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountStore.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	normalized := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		normalized = append(normalized, map[string]any{
			"id_cpt":              account.ID,
			"designation_cpt":     account.Designation,
			"type_cpt":            account.Type,
			"dev_code":            account.Currency,
			"solde_actuel":        account.Balance.StringFixed(2),
			"taux_change_actuel":  account.Rate.String(),
			"alimente_par_caisse": account.CashFunded,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type creditRequest struct {
	AccountID int64  `json:"cpt"`
	Amount    string `json:"mnt"`
	Rate      string `json:"taux"`
	Date      string `json:"date_op"`
}

func (h *Handler) CreditAccount(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le montant doit être supérieur à 0.")
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
	account, err := h.accounts.Credit(r.Context(), services.CreditRequest{
		AccountID: req.AccountID,
		Amount:    amount,
		Rate:      rate,
		Date:      date,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":            "Votre compte a été mis à jour avec succès!",
		"solde_actuel":       account.Balance.StringFixed(2),
		"taux_change_actuel": account.Rate.String(),
	})
}
