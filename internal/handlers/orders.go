package handlers

import (
	"encoding/json"
	"net/http"

	"negoce/internal/services"
)

type orderLineRequest struct {
	ProductID int64  `json:"id_prd"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type fulfillOrderRequest struct {
	Date        string             `json:"dateVente"`
	Lines       []orderLineRequest `json:"produits"`
	TotalAmount string             `json:"totalAmount"`
}

func (h *Handler) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	var req fulfillOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "La date de vente est obligatoire.")
		return
	}
	total, err := parseAmount(req.TotalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Le montant total est invalide.")
		return
	}
	lines := make([]services.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		unitPrice, err := parseAmount(line.UnitPrice)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Le prix unitaire est invalide.")
			return
		}
		lines = append(lines, services.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}
	confirmation, err := h.orders.FulfillOrder(r.Context(), services.FulfillOrderRequest{
		SaleDate:    date,
		Lines:       lines,
		TotalAmount: total,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id_cmd":        confirmation.OrderID,
		"mnt_rembourse": confirmation.Refund.StringFixed(2),
		"message":       confirmation.Message,
	})
}
