package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"negoce/internal/db"
	"negoce/internal/money"
	"negoce/internal/store"
	"negoce/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// AccountTypeCommon marks shared funds. Sales drawn from lots paid by any
// other account type create a refund obligation toward that account's owner.
const AccountTypeCommon = "COMMUN"

type OrderService struct {
	txRunner     db.TxRunner
	orderStore   OrderStore
	lotStore     LotStore
	productStore ProductStore
	accountStore AccountStore
	sequencer    Sequencer
	auditStore   AuditStore
	hub          BalanceHub
	caisse       Caisse
}

func NewOrderService(txRunner db.TxRunner, orderStore OrderStore, lotStore LotStore, productStore ProductStore, accountStore AccountStore, sequencer Sequencer, auditStore AuditStore, hub BalanceHub, caisse Caisse) *OrderService {
	return &OrderService{
		txRunner:     txRunner,
		orderStore:   orderStore,
		lotStore:     lotStore,
		productStore: productStore,
		accountStore: accountStore,
		sequencer:    sequencer,
		auditStore:   auditStore,
		hub:          hub,
		caisse:       caisse,
	}
}

type OrderLine struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

type FulfillOrderRequest struct {
	SaleDate    time.Time
	Lines       []OrderLine
	TotalAmount decimal.Decimal
}

type OrderConfirmation struct {
	OrderID int64
	Refund  decimal.Decimal
	Message string
}

// FulfillOrder creates the order, deducts stock product by product on a FIFO
// cost basis and settles the proceeds: the part of the cost basis paid from
// personal accounts is owed back as a refund, the Caisse receives the rest.
func (s *OrderService) FulfillOrder(ctx context.Context, req FulfillOrderRequest) (OrderConfirmation, error) {
	if len(req.Lines) == 0 || !req.TotalAmount.IsPositive() {
		return OrderConfirmation{}, ErrInvalidOrder
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 || !line.UnitPrice.IsPositive() {
			return OrderConfirmation{}, ErrInvalidOrder
		}
	}

	var orderID int64
	var totalRefund decimal.Decimal
	var caisseBalance decimal.Decimal
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		totalRefund = decimal.Zero
		var err error
		orderID, err = s.sequencer.NextID(ctx, tx, "commande", "id_cde", "")
		if err != nil {
			return err
		}
		if err := s.orderStore.Create(ctx, tx, orderID, req.SaleDate, money.Round2(req.TotalAmount)); err != nil {
			return err
		}
		lines := make([]store.OrderLineInput, 0, len(req.Lines))
		for _, line := range req.Lines {
			lines = append(lines, store.OrderLineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}
		if err := s.orderStore.InsertLines(ctx, tx, orderID, lines); err != nil {
			return err
		}

		for _, line := range req.Lines {
			refund, err := s.deductFIFO(ctx, tx, orderID, line)
			if err != nil {
				return err
			}
			totalRefund = money.Round2(totalRefund.Add(refund))
		}

		caisseBalance, err = s.accountStore.AdjustBalance(ctx, tx, s.caisse.ID, money.Round2(req.TotalAmount.Sub(totalRefund)))
		if err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"montant":       req.TotalAmount.StringFixed(2),
			"remboursement": totalRefund.StringFixed(2),
		})
		return s.auditStore.Log(ctx, tx, "fulfill_order", "commande", fmt.Sprint(orderID), string(data))
	})
	if err != nil {
		return OrderConfirmation{}, err
	}

	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: s.caisse.ID,
		Balance:   caisseBalance.StringFixed(2),
		Currency:  s.caisse.Currency,
	})
	message := "Commande ajoutée avec succès!"
	if totalRefund.IsPositive() {
		message = fmt.Sprintf("Commande ajoutée avec succès! Montant à rembourser: %s DZD.", totalRefund.StringFixed(2))
	}
	return OrderConfirmation{OrderID: orderID, Refund: totalRefund, Message: message}, nil
}

// deductFIFO walks a product's stocked lots oldest purchase first and
// deducts the line's quantity, linking each drawn portion to the order line.
// The product counter is decremented up front as the globally atomic guard;
// each lot decrement is verified after the fact so two concurrent sales
// cannot over-draw the same lot. Returns the refund owed for portions drawn
// from non-common accounts.
func (s *OrderService) deductFIFO(ctx context.Context, tx *sqlx.Tx, orderID int64, line OrderLine) (decimal.Decimal, error) {
	available, err := s.productStore.AdjustAvailable(ctx, tx, line.ProductID, -line.Quantity)
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, fmt.Errorf("produit %d: %w", line.ProductID, ErrInsufficientStock)
		}
		return decimal.Zero, err
	}
	if available < 0 {
		return decimal.Zero, fmt.Errorf("produit %d, quantité demandée %d: %w", line.ProductID, line.Quantity, ErrInsufficientStock)
	}

	lots, err := s.lotStore.ListSellable(ctx, tx, line.ProductID)
	if err != nil {
		return decimal.Zero, err
	}

	refund := decimal.Zero
	remaining := line.Quantity
	for _, lot := range lots {
		if remaining <= 0 {
			break
		}
		deduction := remaining
		if lot.QtyInStock < deduction {
			deduction = lot.QtyInStock
		}
		left, err := s.lotStore.DeductStock(ctx, tx, lot.ID, deduction)
		if err != nil {
			return decimal.Zero, err
		}
		if left < 0 {
			return decimal.Zero, fmt.Errorf("colis %d: %w", lot.ID, ErrInventoryConflict)
		}
		if err := s.orderStore.LinkLot(ctx, tx, orderID, line.ProductID, lot.ID, deduction); err != nil {
			return decimal.Zero, err
		}
		if lot.AccountType != AccountTypeCommon {
			refund = money.Round2(refund.Add(decimal.NewFromInt(deduction).Mul(lot.UnitBase)))
		}
		remaining -= deduction
	}
	if remaining > 0 {
		// The product counter said the stock was there but the lots do not
		// hold it: the denormalized counter and the lot sum have diverged.
		return decimal.Zero, fmt.Errorf("produit %d, quantité manquante %d: %w", line.ProductID, remaining, ErrInventoryConflict)
	}
	return refund, nil
}
