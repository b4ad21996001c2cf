package handlers

import (
	"encoding/json"
	"net/http"

	"negoce/internal/services"
)

type addExpenseRequest struct {
	Amount    string `json:"montant"`
	AccountID int64  `json:"cpt"`
	NatureID  int64  `json:"nature"`
	Date      string `json:"dateDepense"`
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le montant est invalide.")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "La date est obligatoire.")
		return
	}
	expense, err := h.expenses.AddExpense(r.Context(), services.AddExpenseRequest{
		AccountID: req.AccountID,
		Amount:    amount,
		NatureID:  req.NatureID,
		Date:      date,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_op_dep":   expense.ID,
		"mnt_dep":     expense.Amount.StringFixed(2),
		"mnt_dep_dzd": expense.AmountBase.StringFixed(2),
		"message":     "Dépense ajoutée avec succès!",
	})
}

type createNatureRequest struct {
	Designation string `json:"natDep"`
}

func (h *Handler) CreateNature(w http.ResponseWriter, r *http.Request) {
	var req createNatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	nature, err := h.expenses.CreateNature(r.Context(), req.Designation)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_nat_dep":          nature.ID,
		"designation_nat_dep": nature.Designation,
	})
}

func (h *Handler) ListNatures(w http.ResponseWriter, r *http.Request) {
	natures, err := h.expenseStore.ListNatures(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load expense natures")
		return
	}
	respondJSON(w, http.StatusOK, natures)
}
