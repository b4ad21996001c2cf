package services

import (
	"context"
	"time"

	"negoce/internal/store"
	"negoce/internal/websocket"

	"github.com/shopspring/decimal"
)

// Caisse identifies the cash-settlement account, resolved once at startup.
type Caisse struct {
	ID       int64
	Currency string
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, account store.Account) error
	GetForUpdate(ctx context.Context, tx store.Getter, accountID int64) (store.Account, error)
	UpdateBalanceAndRate(ctx context.Context, tx store.Execer, accountID int64, balance, rate decimal.Decimal) error
	AdjustBalance(ctx context.Context, tx store.Getter, accountID int64, delta decimal.Decimal) (decimal.Decimal, error)
	Exists(ctx context.Context, currency, accountType, designation string) (bool, error)
}

type LotStore interface {
	Create(ctx context.Context, tx store.Execer, lot store.Lot) error
	GetForUpdate(ctx context.Context, tx store.Getter, lotID int64) (store.Lot, error)
	ListSellable(ctx context.Context, tx store.Selecter, productID int64) ([]store.SellableLot, error)
	DeductStock(ctx context.Context, tx store.Getter, lotID int64, quantity int64) (int64, error)
	MarkStocked(ctx context.Context, tx store.Execer, lotID int64, stockDate time.Time, stampDuty bool, unitBaseTTC decimal.Decimal) error
	UpdatePricing(ctx context.Context, tx store.Execer, lotID int64, totalSource, totalBase, unitSource, unitBase, unitBaseTTC decimal.Decimal) error
	Delete(ctx context.Context, tx store.Execer, lotID int64) error
}

type ProductStore interface {
	Create(ctx context.Context, tx store.Execer, productID int64, designation string) error
	FindByDesignation(ctx context.Context, tx store.Getter, designation string) (store.Product, bool, error)
	AdjustAvailable(ctx context.Context, tx store.Getter, productID int64, delta int64) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, tx store.Execer, category store.Category) error
	GetByID(ctx context.Context, tx store.Getter, categoryID int64) (store.Category, error)
	Exists(ctx context.Context, designation string) (bool, error)
}

type OrderStore interface {
	Create(ctx context.Context, tx store.Execer, orderID int64, saleDate time.Time, total decimal.Decimal) error
	InsertLines(ctx context.Context, tx store.Execer, orderID int64, lines []store.OrderLineInput) error
	LinkLot(ctx context.Context, tx store.Execer, orderID, productID, lotID, quantity int64) error
}

type ExpenseStore interface {
	Create(ctx context.Context, tx store.Execer, expense store.Expense) error
	CreateNature(ctx context.Context, tx store.Execer, nature store.ExpenseNature) error
	NatureExists(ctx context.Context, designation string) (bool, error)
}

type LoanStore interface {
	Create(ctx context.Context, tx store.Execer, loan store.Loan) error
	GetForUpdate(ctx context.Context, tx store.Getter, loanID int64) (store.Loan, error)
	ListRepayments(ctx context.Context, tx store.Selecter, loanID int64) ([]store.Repayment, error)
	InsertRepayment(ctx context.Context, tx store.Execer, repayment store.Repayment) error
	SetStatus(ctx context.Context, tx store.Execer, loanID int64, status string) error
}

type CreditStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.CreditInput) error
}

type CurrencyStore interface {
	Create(ctx context.Context, currency store.Currency) error
	CloseActiveRate(ctx context.Context, tx store.Execer, currency string, endDate time.Time) error
	InsertRate(ctx context.Context, tx store.Execer, rateID int64, currency string, rate decimal.Decimal, startDate time.Time) error
}

type Sequencer interface {
	NextID(ctx context.Context, tx store.Tx, table, column, where string, args ...any) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(update websocket.BalanceUpdate)
}
