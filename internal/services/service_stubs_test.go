package services

import (
	"context"
	"time"

	"negoce/internal/store"
	"negoce/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubSequencer struct {
	nextFn func(table string) (int64, error)
}

func (s stubSequencer) NextID(_ context.Context, _ store.Tx, table, _, _ string, _ ...any) (int64, error) {
	if s.nextFn == nil {
		return 1, nil
	}
	return s.nextFn(table)
}

type stubAccountStore struct {
	createFn               func(ctx context.Context, tx store.Execer, account store.Account) error
	getForUpdateFn         func(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error)
	updateBalanceAndRateFn func(ctx context.Context, tx store.Execer, accountID int64, balance, rate decimal.Decimal) error
	adjustBalanceFn        func(ctx context.Context, tx store.Getter, accountID int64, delta decimal.Decimal) (decimal.Decimal, error)
	existsFn               func(ctx context.Context, currency, accountType, designation string) (bool, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, account store.Account) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, account)
}

func (s stubAccountStore) GetForUpdate(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error) {
	return s.getForUpdateFn(ctx, tx, accountID)
}

func (s stubAccountStore) UpdateBalanceAndRate(ctx context.Context, tx store.Execer, accountID int64, balance, rate decimal.Decimal) error {
	if s.updateBalanceAndRateFn == nil {
		return nil
	}
	return s.updateBalanceAndRateFn(ctx, tx, accountID, balance, rate)
}

func (s stubAccountStore) AdjustBalance(ctx context.Context, tx store.Getter, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if s.adjustBalanceFn == nil {
		return delta, nil
	}
	return s.adjustBalanceFn(ctx, tx, accountID, delta)
}

func (s stubAccountStore) Exists(ctx context.Context, currency, accountType, designation string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, currency, accountType, designation)
}

type stubLotStore struct {
	createFn        func(ctx context.Context, tx store.Execer, lot store.Lot) error
	getForUpdateFn  func(ctx context.Context, tx store.Getter, lotID int64) (store.Lot, error)
	listSellableFn  func(ctx context.Context, tx store.Selecter, productID int64) ([]store.SellableLot, error)
	deductStockFn   func(ctx context.Context, tx store.Getter, lotID int64, quantity int64) (int64, error)
	markStockedFn   func(ctx context.Context, tx store.Execer, lotID int64, stockDate time.Time, stampDuty bool, unitBaseTTC decimal.Decimal) error
	updatePricingFn func(ctx context.Context, tx store.Execer, lotID int64, totalSource, totalBase, unitSource, unitBase, unitBaseTTC decimal.Decimal) error
	deleteFn        func(ctx context.Context, tx store.Execer, lotID int64) error
}

func (s stubLotStore) Create(ctx context.Context, tx store.Execer, lot store.Lot) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, lot)
}

func (s stubLotStore) GetForUpdate(ctx context.Context, tx store.Getter, lotID int64) (store.Lot, error) {
	return s.getForUpdateFn(ctx, tx, lotID)
}

func (s stubLotStore) ListSellable(ctx context.Context, tx store.Selecter, productID int64) ([]store.SellableLot, error) {
	return s.listSellableFn(ctx, tx, productID)
}

func (s stubLotStore) DeductStock(ctx context.Context, tx store.Getter, lotID int64, quantity int64) (int64, error) {
	return s.deductStockFn(ctx, tx, lotID, quantity)
}

func (s stubLotStore) MarkStocked(ctx context.Context, tx store.Execer, lotID int64, stockDate time.Time, stampDuty bool, unitBaseTTC decimal.Decimal) error {
	if s.markStockedFn == nil {
		return nil
	}
	return s.markStockedFn(ctx, tx, lotID, stockDate, stampDuty, unitBaseTTC)
}

func (s stubLotStore) UpdatePricing(ctx context.Context, tx store.Execer, lotID int64, totalSource, totalBase, unitSource, unitBase, unitBaseTTC decimal.Decimal) error {
	if s.updatePricingFn == nil {
		return nil
	}
	return s.updatePricingFn(ctx, tx, lotID, totalSource, totalBase, unitSource, unitBase, unitBaseTTC)
}

func (s stubLotStore) Delete(ctx context.Context, tx store.Execer, lotID int64) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, lotID)
}

type stubProductStore struct {
	createFn            func(ctx context.Context, tx store.Execer, productID int64, designation string) error
	findByDesignationFn func(ctx context.Context, tx store.Getter, designation string) (store.Product, bool, error)
	adjustAvailableFn   func(ctx context.Context, tx store.Getter, productID int64, delta int64) (int64, error)
}

func (s stubProductStore) Create(ctx context.Context, tx store.Execer, productID int64, designation string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, productID, designation)
}

func (s stubProductStore) FindByDesignation(ctx context.Context, tx store.Getter, designation string) (store.Product, bool, error) {
	if s.findByDesignationFn == nil {
		return store.Product{}, false, nil
	}
	return s.findByDesignationFn(ctx, tx, designation)
}

func (s stubProductStore) AdjustAvailable(ctx context.Context, tx store.Getter, productID int64, delta int64) (int64, error) {
	if s.adjustAvailableFn == nil {
		return 0, nil
	}
	return s.adjustAvailableFn(ctx, tx, productID, delta)
}

type stubCategoryStore struct {
	createFn  func(ctx context.Context, tx store.Execer, category store.Category) error
	getByIDFn func(ctx context.Context, tx store.Getter, categoryID int64) (store.Category, error)
	existsFn  func(ctx context.Context, designation string) (bool, error)
}

func (s stubCategoryStore) Create(ctx context.Context, tx store.Execer, category store.Category) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, category)
}

func (s stubCategoryStore) GetByID(ctx context.Context, tx store.Getter, categoryID int64) (store.Category, error) {
	if s.getByIDFn == nil {
		return store.Category{ID: categoryID, Sellable: true}, nil
	}
	return s.getByIDFn(ctx, tx, categoryID)
}

func (s stubCategoryStore) Exists(ctx context.Context, designation string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, designation)
}

type stubOrderStore struct {
	createFn      func(ctx context.Context, tx store.Execer, orderID int64, saleDate time.Time, total decimal.Decimal) error
	insertLinesFn func(ctx context.Context, tx store.Execer, orderID int64, lines []store.OrderLineInput) error
	linkLotFn     func(ctx context.Context, tx store.Execer, orderID, productID, lotID, quantity int64) error
}

func (s stubOrderStore) Create(ctx context.Context, tx store.Execer, orderID int64, saleDate time.Time, total decimal.Decimal) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, orderID, saleDate, total)
}

func (s stubOrderStore) InsertLines(ctx context.Context, tx store.Execer, orderID int64, lines []store.OrderLineInput) error {
	if s.insertLinesFn == nil {
		return nil
	}
	return s.insertLinesFn(ctx, tx, orderID, lines)
}

func (s stubOrderStore) LinkLot(ctx context.Context, tx store.Execer, orderID, productID, lotID, quantity int64) error {
	if s.linkLotFn == nil {
		return nil
	}
	return s.linkLotFn(ctx, tx, orderID, productID, lotID, quantity)
}

type stubExpenseStore struct {
	createFn       func(ctx context.Context, tx store.Execer, expense store.Expense) error
	createNatureFn func(ctx context.Context, tx store.Execer, nature store.ExpenseNature) error
	natureExistsFn func(ctx context.Context, designation string) (bool, error)
}

func (s stubExpenseStore) Create(ctx context.Context, tx store.Execer, expense store.Expense) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, expense)
}

func (s stubExpenseStore) CreateNature(ctx context.Context, tx store.Execer, nature store.ExpenseNature) error {
	if s.createNatureFn == nil {
		return nil
	}
	return s.createNatureFn(ctx, tx, nature)
}

func (s stubExpenseStore) NatureExists(ctx context.Context, designation string) (bool, error) {
	if s.natureExistsFn == nil {
		return false, nil
	}
	return s.natureExistsFn(ctx, designation)
}

type stubLoanStore struct {
	createFn          func(ctx context.Context, tx store.Execer, loan store.Loan) error
	getForUpdateFn    func(ctx context.Context, tx store.Getter, loanID int64) (store.Loan, error)
	listRepaymentsFn  func(ctx context.Context, tx store.Selecter, loanID int64) ([]store.Repayment, error)
	insertRepaymentFn func(ctx context.Context, tx store.Execer, repayment store.Repayment) error
	setStatusFn       func(ctx context.Context, tx store.Execer, loanID int64, status string) error
}

func (s stubLoanStore) Create(ctx context.Context, tx store.Execer, loan store.Loan) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, loan)
}

func (s stubLoanStore) GetForUpdate(ctx context.Context, tx store.Getter, loanID int64) (store.Loan, error) {
	return s.getForUpdateFn(ctx, tx, loanID)
}

func (s stubLoanStore) ListRepayments(ctx context.Context, tx store.Selecter, loanID int64) ([]store.Repayment, error) {
	if s.listRepaymentsFn == nil {
		return nil, nil
	}
	return s.listRepaymentsFn(ctx, tx, loanID)
}

func (s stubLoanStore) InsertRepayment(ctx context.Context, tx store.Execer, repayment store.Repayment) error {
	if s.insertRepaymentFn == nil {
		return nil
	}
	return s.insertRepaymentFn(ctx, tx, repayment)
}

func (s stubLoanStore) SetStatus(ctx context.Context, tx store.Execer, loanID int64, status string) error {
	if s.setStatusFn == nil {
		return nil
	}
	return s.setStatusFn(ctx, tx, loanID, status)
}

type stubCreditStore struct {
	insertFn func(ctx context.Context, tx store.Execer, input store.CreditInput) error
}

func (s stubCreditStore) Insert(ctx context.Context, tx store.Execer, input store.CreditInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

type stubCurrencyStore struct {
	createFn          func(ctx context.Context, currency store.Currency) error
	closeActiveRateFn func(ctx context.Context, tx store.Execer, currency string, endDate time.Time) error
	insertRateFn      func(ctx context.Context, tx store.Execer, rateID int64, currency string, rate decimal.Decimal, startDate time.Time) error
}

func (s stubCurrencyStore) Create(ctx context.Context, currency store.Currency) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, currency)
}

func (s stubCurrencyStore) CloseActiveRate(ctx context.Context, tx store.Execer, currency string, endDate time.Time) error {
	if s.closeActiveRateFn == nil {
		return nil
	}
	return s.closeActiveRateFn(ctx, tx, currency, endDate)
}

func (s stubCurrencyStore) InsertRate(ctx context.Context, tx store.Execer, rateID int64, currency string, rate decimal.Decimal, startDate time.Time) error {
	if s.insertRateFn == nil {
		return nil
	}
	return s.insertRateFn(ctx, tx, rateID, currency, rate, startDate)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, action, entityType, entityID, data)
}

type stubHub struct {
	calls []websocket.BalanceUpdate
}

func (s *stubHub) BroadcastBalance(update websocket.BalanceUpdate) {
	s.calls = append(s.calls, update)
}
