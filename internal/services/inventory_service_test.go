package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"negoce/internal/store"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func newTestInventoryService(lots stubLotStore, products stubProductStore, categories stubCategoryStore, accounts stubAccountStore, hub *stubHub) *InventoryService {
	return NewInventoryService(fakeTxRunner{}, lots, products, categories, accounts, stubSequencer{}, stubAuditStore{}, hub, dec("130"))
}

func TestAddLotInsufficientBalance(t *testing.T) {
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "EUR", Balance: dec("50"), Rate: dec("2")}, nil
		},
	}
	lots := stubLotStore{
		createFn: func(context.Context, store.Execer, store.Lot) error {
			t.Fatal("no lot may be created on an underfunded account")
			return nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, accounts, &stubHub{})
	_, err := service.AddLot(context.Background(), AddLotRequest{
		CategoryID: 1, AccountID: 2, PurchaseDate: time.Now(),
		ProductDesignation: "Montre", TotalSource: dec("400"), Quantity: 4,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestAddLotDerivesCostsAtAccountRate(t *testing.T) {
	var created store.Lot
	var delta decimal.Decimal
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "EUR", Balance: dec("1000"), Rate: dec("2.5")}, nil
		},
		adjustBalanceFn: func(_ context.Context, _ store.Getter, _ int64, d decimal.Decimal) (decimal.Decimal, error) {
			delta = d
			return dec("1000").Add(d), nil
		},
	}
	lots := stubLotStore{
		createFn: func(_ context.Context, _ store.Execer, lot store.Lot) error {
			created = lot
			return nil
		},
	}
	products := stubProductStore{
		findByDesignationFn: func(_ context.Context, _ store.Getter, designation string) (store.Product, bool, error) {
			return store.Product{ID: 7, Designation: designation}, true, nil
		},
	}
	service := newTestInventoryService(lots, products, stubCategoryStore{}, accounts, &stubHub{})

	_, err := service.AddLot(context.Background(), AddLotRequest{
		CategoryID: 1, AccountID: 2, PurchaseDate: time.Now(),
		ProductDesignation: "montre", TotalSource: dec("400"), Quantity: 4,
	})
	if err != nil {
		t.Fatalf("add lot: %v", err)
	}
	if !created.TotalBase.Equal(dec("1000")) {
		t.Fatalf("mnt_tot_dzd = %s, want 1000", created.TotalBase)
	}
	if !created.UnitSource.Equal(dec("100")) || !created.UnitBase.Equal(dec("250")) {
		t.Fatalf("unit costs = %s / %s", created.UnitSource, created.UnitBase)
	}
	if !created.UnitBaseTTC.Equal(created.UnitBase) {
		t.Fatalf("pu_dzd_ttc must start at pu_dzd, got %s", created.UnitBaseTTC)
	}
	if created.ProductID != 7 {
		t.Fatalf("product id = %d", created.ProductID)
	}
	if !delta.Equal(dec("-400")) {
		t.Fatalf("account delta = %s, want -400", delta)
	}
}

func TestStockLotSpreadsStampDuty(t *testing.T) {
	var storedTTC decimal.Decimal
	var availableDelta int64
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, ProductID: 7, CategoryID: 1, QtyPurchased: 4, UnitBase: dec("250"), UnitBaseTTC: dec("250")}, nil
		},
		markStockedFn: func(_ context.Context, _ store.Execer, _ int64, _ time.Time, _ bool, unitBaseTTC decimal.Decimal) error {
			storedTTC = unitBaseTTC
			return nil
		},
	}
	products := stubProductStore{
		adjustAvailableFn: func(_ context.Context, _ store.Getter, _ int64, delta int64) (int64, error) {
			availableDelta = delta
			return delta, nil
		},
	}
	service := newTestInventoryService(lots, products, stubCategoryStore{}, stubAccountStore{}, &stubHub{})

	if err := service.StockLot(context.Background(), 9, time.Now(), true); err != nil {
		t.Fatalf("stock lot: %v", err)
	}
	if !storedTTC.Equal(dec("282.5")) {
		t.Fatalf("pu_dzd_ttc = %s, want 282.5", storedTTC)
	}
	if availableDelta != 4 {
		t.Fatalf("availability delta = %d, want 4", availableDelta)
	}
}

func TestStockLotNonSellableCategorySkipsAvailability(t *testing.T) {
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, ProductID: 7, CategoryID: 2, QtyPurchased: 4, UnitBaseTTC: dec("250")}, nil
		},
	}
	categories := stubCategoryStore{
		getByIDFn: func(_ context.Context, _ store.Getter, categoryID int64) (store.Category, error) {
			return store.Category{ID: categoryID, Designation: "Utilisation Personnel", Sellable: false}, nil
		},
	}
	products := stubProductStore{
		adjustAvailableFn: func(context.Context, store.Getter, int64, int64) (int64, error) {
			t.Fatal("non-sellable categories must not feed availability")
			return 0, nil
		},
	}
	service := newTestInventoryService(lots, products, categories, stubAccountStore{}, &stubHub{})
	if err := service.StockLot(context.Background(), 9, time.Now(), false); err != nil {
		t.Fatalf("stock lot: %v", err)
	}
}

func TestStockLotAlreadyStocked(t *testing.T) {
	stocked := time.Now()
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, StockDate: &stocked, QtyPurchased: 4}, nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, stubAccountStore{}, &stubHub{})
	err := service.StockLot(context.Background(), 9, time.Now(), false)
	if !errors.Is(err, ErrLotAlreadyStocked) {
		t.Fatalf("expected ErrLotAlreadyStocked, got %v", err)
	}
}

func TestCancelLotRestoresBalanceAndRate(t *testing.T) {
	// The account held 1000 at rate 2.5 before buying the lot for 400
	// (base 1000); cancelling must bring both values back.
	var storedBalance, storedRate decimal.Decimal
	var deleted bool
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, AccountID: 2, TotalSource: dec("400"), TotalBase: dec("1000")}, nil
		},
		deleteFn: func(context.Context, store.Execer, int64) error {
			deleted = true
			return nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "EUR", Balance: dec("600"), Rate: dec("2.5")}, nil
		},
		updateBalanceAndRateFn: func(_ context.Context, _ store.Execer, _ int64, balance, rate decimal.Decimal) error {
			storedBalance, storedRate = balance, rate
			return nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, accounts, &stubHub{})

	if err := service.CancelLot(context.Background(), 9); err != nil {
		t.Fatalf("cancel lot: %v", err)
	}
	if !storedBalance.Equal(dec("1000")) {
		t.Fatalf("balance = %s, want 1000", storedBalance)
	}
	if !storedRate.Equal(dec("2.5")) {
		t.Fatalf("rate = %s, want 2.5", storedRate)
	}
	if !deleted {
		t.Fatal("lot row must be deleted")
	}
}

func TestCancelLotAlreadySold(t *testing.T) {
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, AccountID: 2, TotalSource: dec("400"), TotalBase: dec("1000")}, nil
		},
		deleteFn: func(context.Context, store.Execer, int64) error {
			return &pq.Error{Code: "23503"}
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Balance: dec("600"), Rate: dec("2.5")}, nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, accounts, &stubHub{})
	err := service.CancelLot(context.Background(), 9)
	if !errors.Is(err, ErrLotAlreadySold) {
		t.Fatalf("expected ErrLotAlreadySold, got %v", err)
	}
}

func TestCancelLotNotFound(t *testing.T) {
	lots := stubLotStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (store.Lot, error) {
			return store.Lot{}, sql.ErrNoRows
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, stubAccountStore{}, &stubHub{})
	if err := service.CancelLot(context.Background(), 9); !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}

func TestEditLotPriceUsesOriginalPurchaseRate(t *testing.T) {
	// Lot bought at 400 source / 1000 base (purchase rate 2.5), account has
	// drifted to rate 3.0 since. The edit to 500 must convert at 2.5.
	var totalBase, unitBase, unitBaseTTC decimal.Decimal
	var finalBalance, finalRate decimal.Decimal
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{
				ID: lotID, AccountID: 2, QtyPurchased: 4,
				TotalSource: dec("400"), TotalBase: dec("1000"),
				UnitBase: dec("250"), UnitBaseTTC: dec("282.5"),
			}, nil
		},
		updatePricingFn: func(_ context.Context, _ store.Execer, _ int64, _, tb, _, ub, ttc decimal.Decimal) error {
			totalBase, unitBase, unitBaseTTC = tb, ub, ttc
			return nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "EUR", Balance: dec("600"), Rate: dec("3.0")}, nil
		},
		updateBalanceAndRateFn: func(_ context.Context, _ store.Execer, _ int64, balance, rate decimal.Decimal) error {
			finalBalance, finalRate = balance, rate
			return nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, accounts, &stubHub{})

	if err := service.EditLotPrice(context.Background(), 9, dec("500")); err != nil {
		t.Fatalf("edit price: %v", err)
	}
	if !totalBase.Equal(dec("1250")) {
		t.Fatalf("mnt_tot_dzd = %s, want 1250", totalBase)
	}
	if !unitBase.Equal(dec("312.5")) {
		t.Fatalf("pu_dzd = %s, want 312.5", unitBase)
	}
	// Stamp duty carried over: 282.5 - 250 + 312.5.
	if !unitBaseTTC.Equal(dec("345")) {
		t.Fatalf("pu_dzd_ttc = %s, want 345", unitBaseTTC)
	}
	if !finalBalance.Equal(dec("500")) {
		t.Fatalf("balance = %s, want 500", finalBalance)
	}
	if finalRate.IsZero() {
		t.Fatal("rate must be recomputed")
	}
}

func TestEditLotPriceInsufficientBalance(t *testing.T) {
	lots := stubLotStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, lotID int64) (store.Lot, error) {
			return store.Lot{ID: lotID, AccountID: 2, QtyPurchased: 4, TotalSource: dec("400"), TotalBase: dec("1000")}, nil
		},
		updatePricingFn: func(context.Context, store.Execer, int64, decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal) error {
			t.Fatal("pricing must not change when the balance cannot cover the new price")
			return nil
		},
	}
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Balance: dec("0"), Rate: dec("2.5")}, nil
		},
	}
	service := newTestInventoryService(lots, stubProductStore{}, stubCategoryStore{}, accounts, &stubHub{})
	err := service.EditLotPrice(context.Background(), 9, dec("500"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	categories := stubCategoryStore{
		existsFn: func(context.Context, string) (bool, error) {
			return true, nil
		},
	}
	service := newTestInventoryService(stubLotStore{}, stubProductStore{}, categories, stubAccountStore{}, &stubHub{})
	_, err := service.CreateCategory(context.Background(), CreateCategoryRequest{Designation: "Marchandise", Sellable: true})
	if !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}
