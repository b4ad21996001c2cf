package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"negoce/internal/services"

	"github.com/go-chi/chi/v5"
)

type addLotRequest struct {
	CategoryID  int64  `json:"cat"`
	AccountID   int64  `json:"cpt"`
	Date        string `json:"date_achat"`
	Product     string `json:"des_prd"`
	TotalSource string `json:"mnt_tot_dev"`
	Quantity    int64  `json:"qte"`
}

func (h *Handler) AddLot(w http.ResponseWriter, r *http.Request) {
	var req addLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	total, err := parseAmount(req.TotalSource)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le montant total est obligatoire.")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "La date d'achat est obligatoire.")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "La quantité est obligatoire.")
		return
	}
	lot, err := h.inventory.AddLot(r.Context(), services.AddLotRequest{
		CategoryID:         req.CategoryID,
		AccountID:          req.AccountID,
		PurchaseDate:       date,
		ProductDesignation: req.Product,
		TotalSource:        total,
		Quantity:           req.Quantity,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_colis":    lot.ID,
		"prd_id":      lot.ProductID,
		"mnt_tot_dev": lot.TotalSource.StringFixed(2),
		"mnt_tot_dzd": lot.TotalBase.String(),
		"pu_dev":      lot.UnitSource.StringFixed(2),
		"pu_dzd":      lot.UnitBase.String(),
	})
}

func (h *Handler) ListLotsEnRoute(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lotStore.ListEnRoute(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load lots")
		return
	}
	normalized := make([]map[string]any, 0, len(lots))
	for _, lot := range lots {
		normalized = append(normalized, map[string]any{
			"id_colis":        lot.ID,
			"prd_id":          lot.ProductID,
			"designation_prd": lot.Product,
			"designation_cat": lot.Category,
			"date_achat":      lot.PurchaseDate,
			"qte_achat":       lot.QtyPurchased,
			"mnt_tot_dev":     lot.TotalSource.StringFixed(2),
			"symbole_dev":     lot.Symbol,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type stockLotRequest struct {
	Date      string `json:"date_stock"`
	StampDuty bool   `json:"droits_timbre"`
}

func (h *Handler) StockLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := lotIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID du colis invalide.")
		return
	}
	var req stockLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "La date est obligatoire.")
		return
	}
	if err := h.inventory.StockLot(r.Context(), lotID, date, req.StampDuty); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Opération effectuée avec succès.")
}

type editLotPriceRequest struct {
	NewPrice string `json:"new_price"`
}

func (h *Handler) EditLotPrice(w http.ResponseWriter, r *http.Request) {
	lotID, err := lotIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID du colis invalide.")
		return
	}
	var req editLotPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	price, err := parseAmount(req.NewPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le nouveau prix est invalide.")
		return
	}
	if err := h.inventory.EditLotPrice(r.Context(), lotID, price); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Colis mis à jour avec succès.")
}

func (h *Handler) CancelLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := lotIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID du colis invalide.")
		return
	}
	if err := h.inventory.CancelLot(r.Context(), lotID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Colis annulé, compte remboursé et taux de change mis à jour.")
}

type createCategoryRequest struct {
	Designation string `json:"designation"`
	Sellable    bool   `json:"vendable"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	category, err := h.inventory.CreateCategory(r.Context(), services.CreateCategoryRequest{
		Designation: req.Designation,
		Sellable:    req.Sellable,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_cat":          category.ID,
		"designation_cat": category.Designation,
		"vendable":        category.Sellable,
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func lotIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
