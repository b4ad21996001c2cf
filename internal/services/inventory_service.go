package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"negoce/internal/db"
	"negoce/internal/money"
	"negoce/internal/store"
	"negoce/internal/validator"
	"negoce/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// InventoryService owns the lot lifecycle: purchase (en route), stocking,
// price edit and cancellation. Every operation that touches a lot also
// touches the paying account, inside the same transaction.
type InventoryService struct {
	txRunner      db.TxRunner
	lotStore      LotStore
	productStore  ProductStore
	categoryStore CategoryStore
	accountStore  AccountStore
	sequencer     Sequencer
	auditStore    AuditStore
	hub           BalanceHub
	stampDuty     decimal.Decimal
}

func NewInventoryService(txRunner db.TxRunner, lotStore LotStore, productStore ProductStore, categoryStore CategoryStore, accountStore AccountStore, sequencer Sequencer, auditStore AuditStore, hub BalanceHub, stampDuty decimal.Decimal) *InventoryService {
	return &InventoryService{
		txRunner:      txRunner,
		lotStore:      lotStore,
		productStore:  productStore,
		categoryStore: categoryStore,
		accountStore:  accountStore,
		sequencer:     sequencer,
		auditStore:    auditStore,
		hub:           hub,
		stampDuty:     stampDuty,
	}
}

type AddLotRequest struct {
	CategoryID         int64
	AccountID          int64
	PurchaseDate       time.Time
	ProductDesignation string
	TotalSource        decimal.Decimal
	Quantity           int64
}

// AddLot records a purchase. Costs are converted at the paying account's
// current rate; the account is debited immediately even though the lot stays
// "en route" (qte_stock 0, no stock date) until StockLot.
func (s *InventoryService) AddLot(ctx context.Context, req AddLotRequest) (store.Lot, error) {
	if req.Quantity <= 0 || !req.TotalSource.IsPositive() {
		return store.Lot{}, ErrInvalidAmount
	}
	if err := validator.ValidateDesignation(req.ProductDesignation); err != nil {
		return store.Lot{}, err
	}
	designation := validator.NormalizeDesignation(req.ProductDesignation)
	quantity := decimal.NewFromInt(req.Quantity)

	var lot store.Lot
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		account, err = s.accountStore.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if isNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}
		if account.Balance.LessThan(req.TotalSource) {
			return ErrInsufficientBalance
		}
		if _, err := s.categoryStore.GetByID(ctx, tx, req.CategoryID); err != nil {
			if isNoRows(err) {
				return ErrCategoryNotFound
			}
			return err
		}

		totalBase := money.Round4(req.TotalSource.Mul(account.Rate))
		unitSource := money.Round2(req.TotalSource.Div(quantity))
		unitBase := money.Round4(totalBase.Div(quantity))

		product, found, err := s.productStore.FindByDesignation(ctx, tx, designation)
		if err != nil {
			return err
		}
		if !found {
			productID, err := s.sequencer.NextID(ctx, tx, "produit", "id_prd", "")
			if err != nil {
				return err
			}
			if err := s.productStore.Create(ctx, tx, productID, designation); err != nil {
				return err
			}
			product = store.Product{ID: productID, Designation: designation}
		}

		lotID, err := s.sequencer.NextID(ctx, tx, "colis", "id_colis", "")
		if err != nil {
			return err
		}
		lot = store.Lot{
			ID:           lotID,
			ProductID:    product.ID,
			CategoryID:   req.CategoryID,
			AccountID:    req.AccountID,
			PurchaseDate: req.PurchaseDate,
			QtyPurchased: req.Quantity,
			TotalSource:  req.TotalSource,
			TotalBase:    totalBase,
			UnitSource:   unitSource,
			UnitBase:     unitBase,
			UnitBaseTTC:  unitBase,
		}
		if err := s.lotStore.Create(ctx, tx, lot); err != nil {
			return err
		}
		balance, err := s.accountStore.AdjustBalance(ctx, tx, req.AccountID, req.TotalSource.Neg())
		if err != nil {
			return err
		}
		account.Balance = balance

		data, _ := json.Marshal(map[string]string{
			"produit":     designation,
			"mnt_tot_dev": req.TotalSource.StringFixed(2),
			"qte":         fmt.Sprint(req.Quantity),
		})
		return s.auditStore.Log(ctx, tx, "add_lot", "colis", fmt.Sprint(lotID), string(data))
	})
	if err != nil {
		return store.Lot{}, err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return lot, nil
}

// StockLot marks an en-route lot as arrived: qte_stock is frozen at
// qte_achat, the stamp-duty surcharge is spread over the units when flagged,
// and the product's availability counter grows unless the lot's category is
// non-sellable.
func (s *InventoryService) StockLot(ctx context.Context, lotID int64, stockDate time.Time, stampDuty bool) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		lot, err := s.lotStore.GetForUpdate(ctx, tx, lotID)
		if err != nil {
			if isNoRows(err) {
				return ErrLotNotFound
			}
			return err
		}
		if lot.StockDate != nil {
			return ErrLotAlreadyStocked
		}
		unitBaseTTC := lot.UnitBaseTTC
		if stampDuty {
			perUnit := s.stampDuty.Div(decimal.NewFromInt(lot.QtyPurchased))
			unitBaseTTC = money.Round4(unitBaseTTC.Add(perUnit))
		}
		if err := s.lotStore.MarkStocked(ctx, tx, lotID, stockDate, stampDuty, unitBaseTTC); err != nil {
			return err
		}
		category, err := s.categoryStore.GetByID(ctx, tx, lot.CategoryID)
		if err != nil {
			return err
		}
		if category.Sellable {
			if _, err := s.productStore.AdjustAvailable(ctx, tx, lot.ProductID, lot.QtyPurchased); err != nil {
				return err
			}
		}
		return s.auditStore.Log(ctx, tx, "stock_lot", "colis", fmt.Sprint(lotID), "{}")
	})
}

// CancelLot deletes a lot and refunds its full cost to the paying account,
// recomputing the weighted-average rate from the restored valuation. A lot
// that already fed a sale cannot be cancelled.
func (s *InventoryService) CancelLot(ctx context.Context, lotID int64) error {
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		lot, err := s.lotStore.GetForUpdate(ctx, tx, lotID)
		if err != nil {
			if isNoRows(err) {
				return ErrLotNotFound
			}
			return err
		}
		account, err = s.accountStore.GetForUpdate(ctx, tx, lot.AccountID)
		if err != nil {
			if isNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}
		newBalance, _, newRate := reverseLotCost(account.Balance, account.Rate, lot.TotalSource, lot.TotalBase)
		if err := s.accountStore.UpdateBalanceAndRate(ctx, tx, lot.AccountID, newBalance, newRate); err != nil {
			return err
		}
		account.Balance = newBalance
		account.Rate = newRate

		if lot.StockDate != nil && lot.QtyInStock > 0 {
			category, err := s.categoryStore.GetByID(ctx, tx, lot.CategoryID)
			if err != nil {
				return err
			}
			if category.Sellable {
				if _, err := s.productStore.AdjustAvailable(ctx, tx, lot.ProductID, -lot.QtyInStock); err != nil {
					return err
				}
			}
		}
		if err := s.lotStore.Delete(ctx, tx, lotID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrLotAlreadySold
			}
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"mnt_tot_dev": lot.TotalSource.StringFixed(2),
		})
		return s.auditStore.Log(ctx, tx, "cancel_lot", "colis", fmt.Sprint(lotID), string(data))
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return nil
}

// EditLotPrice replaces a lot's purchase price. The old cost is refunded to
// the paying account, then the new price is deducted converted at the lot's
// original purchase rate, never the account's drifted current rate.
func (s *InventoryService) EditLotPrice(ctx context.Context, lotID int64, newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return ErrInvalidAmount
	}
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		lot, err := s.lotStore.GetForUpdate(ctx, tx, lotID)
		if err != nil {
			if isNoRows(err) {
				return ErrLotNotFound
			}
			return err
		}
		account, err = s.accountStore.GetForUpdate(ctx, tx, lot.AccountID)
		if err != nil {
			if isNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}
		interBalance, interValuation, _ := reverseLotCost(account.Balance, account.Rate, lot.TotalSource, lot.TotalBase)
		if interBalance.LessThan(newPrice) {
			return ErrInsufficientBalance
		}
		purchaseRate := originalPurchaseRate(lot.TotalSource, lot.TotalBase)
		newTotalBase := money.Round4(newPrice.Mul(purchaseRate))
		finalBalance, finalRate := applyLotCost(interBalance, interValuation, newPrice, newTotalBase)
		if err := s.accountStore.UpdateBalanceAndRate(ctx, tx, lot.AccountID, finalBalance, finalRate); err != nil {
			return err
		}
		account.Balance = finalBalance
		account.Rate = finalRate

		quantity := decimal.NewFromInt(lot.QtyPurchased)
		newUnitSource := money.Round2(newPrice.Div(quantity))
		newUnitBase := money.Round4(newTotalBase.Div(quantity))
		newUnitBaseTTC := money.Round4(lot.UnitBaseTTC.Sub(lot.UnitBase).Add(newUnitBase))
		if err := s.lotStore.UpdatePricing(ctx, tx, lotID, newPrice, newTotalBase, newUnitSource, newUnitBase, newUnitBaseTTC); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"ancien_prix":  lot.TotalSource.StringFixed(2),
			"nouveau_prix": newPrice.StringFixed(2),
		})
		return s.auditStore.Log(ctx, tx, "edit_lot_price", "colis", fmt.Sprint(lotID), string(data))
	})
	if err != nil {
		return err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return nil
}

type CreateCategoryRequest struct {
	Designation string
	Sellable    bool
}

func (s *InventoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (store.Category, error) {
	if err := validator.ValidateDesignation(req.Designation); err != nil {
		return store.Category{}, err
	}
	category := store.Category{
		Designation: validator.NormalizeDesignation(req.Designation),
		Sellable:    req.Sellable,
	}
	exists, err := s.categoryStore.Exists(ctx, category.Designation)
	if err != nil {
		return store.Category{}, err
	}
	if exists {
		return store.Category{}, ErrCategoryExists
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.sequencer.NextID(ctx, tx, "categorie", "id_cat", "")
		if err != nil {
			return err
		}
		category.ID = id
		return s.categoryStore.Create(ctx, tx, category)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return store.Category{}, ErrCategoryExists
		}
		return store.Category{}, err
	}
	return category, nil
}
