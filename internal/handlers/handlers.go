package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"negoce/internal/services"
	"negoce/internal/validator"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError translates workflow sentinels into the HTTP contract:
// 400 for rejected input, 404 for missing entities, 403 for loan and Caisse
// funding rules, 405 for insufficient balance on expenses and purchases, 409
// for stock races and uniqueness, 500 otherwise.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidOrder),
		errors.Is(err, validator.ErrInvalidCurrencyCode),
		errors.Is(err, validator.ErrInvalidDesignation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "Compte introuvable.")
	case errors.Is(err, services.ErrLotNotFound):
		respondError(w, http.StatusNotFound, "Colis non trouvé.")
	case errors.Is(err, services.ErrLoanNotFound):
		respondError(w, http.StatusNotFound, "Emprunt introuvable.")
	case errors.Is(err, services.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "Catégorie introuvable.")
	case errors.Is(err, services.ErrLoanSettled):
		respondError(w, http.StatusForbidden, "Cet emprunt est déjà totalement soldé.")
	case errors.Is(err, services.ErrOverpayment):
		respondError(w, http.StatusForbidden, "Le montant saisi dépasse le reste à payer.")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusForbidden, "Fonds insuffisants sur le compte sélectionné.")
	case errors.Is(err, services.ErrNatureExists):
		respondError(w, http.StatusForbidden, "Cette nature de dépense existe déjà.")
	case errors.Is(err, services.ErrInsufficientBalance):
		respondError(w, http.StatusMethodNotAllowed, "Votre solde est insuffisant.")
	case errors.Is(err, services.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInventoryConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrLotAlreadySold):
		respondError(w, http.StatusConflict, "Le colis a déjà alimenté une vente.")
	case errors.Is(err, services.ErrLotAlreadyStocked):
		respondError(w, http.StatusConflict, "Le colis est déjà en stock.")
	case errors.Is(err, services.ErrAccountExists):
		respondError(w, http.StatusConflict, "Ce compte existe déjà.")
	case errors.Is(err, services.ErrCurrencyExists):
		respondError(w, http.StatusConflict, "Cette devise existe déjà.")
	case errors.Is(err, services.ErrCategoryExists):
		respondError(w, http.StatusConflict, "Cette catégorie existe déjà.")
	default:
		respondError(w, http.StatusInternalServerError, "Erreur interne du serveur.")
	}
}
