package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"negoce/internal/services"

	"github.com/go-chi/chi/v5"
)

type addLoanRequest struct {
	Designation string `json:"desEmprunt"`
	Amount      string `json:"montant"`
	AccountID   int64  `json:"cpt"`
	Date        string `json:"dateEmprunt"`
}

func (h *Handler) AddLoan(w http.ResponseWriter, r *http.Request) {
	var req addLoanRequest
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
	loan, err := h.loans.AddLoan(r.Context(), services.AddLoanRequest{
		AccountID:   req.AccountID,
		Amount:      amount,
		Designation: req.Designation,
		Date:        date,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_emprunt":      loan.ID,
		"designation":     loan.Designation,
		"montant_emprunt": loan.Principal.StringFixed(2),
		"statut_emprunt":  loan.Status,
		"message":         "Emprunt ajouté avec succès!",
	})
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanStore.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loans")
		return
	}
	normalized := make([]map[string]any, 0, len(loans))
	for _, loan := range loans {
		repayments, err := h.loanStore.ListRepayments(r.Context(), h.db, loan.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to load repayments")
			return
		}
		normalized = append(normalized, map[string]any{
			"id_emprunt":      loan.ID,
			"designation":     loan.Designation,
			"montant_emprunt": loan.Principal.StringFixed(2),
			"date_emprunt":    loan.Date,
			"statut_emprunt":  loan.Status,
			"cpt_id":          loan.AccountID,
			"remboursements":  repayments,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type addRepaymentRequest struct {
	Amount    string `json:"mntRembourse"`
	AccountID int64  `json:"cptCible"`
	Date      string `json:"dateRembourse"`
}

func (h *Handler) AddRepayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID de l'emprunt invalide.")
		return
	}
	var req addRepaymentRequest
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
	repayment, err := h.loans.AddRepayment(r.Context(), services.AddRepaymentRequest{
		LoanID:    loanID,
		Amount:    amount,
		AccountID: req.AccountID,
		Date:      date,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_remb":      repayment.ID,
		"montant_remb": repayment.Amount.StringFixed(2),
		"message":      "Remboursement effectué avec succès!",
	})
}
