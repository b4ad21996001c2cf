package handlers

import (
	"context"
	"time"

	"negoce/internal/services"
	"negoce/internal/store"

	"github.com/shopspring/decimal"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (store.Account, error)
	Credit(ctx context.Context, req services.CreditRequest) (store.Account, error)
}

type CurrencyService interface {
	CreateCurrency(ctx context.Context, req services.CreateCurrencyRequest) (store.Currency, error)
	SetRate(ctx context.Context, currencyCode string, rate decimal.Decimal, date time.Time) error
}

type InventoryService interface {
	AddLot(ctx context.Context, req services.AddLotRequest) (store.Lot, error)
	StockLot(ctx context.Context, lotID int64, stockDate time.Time, stampDuty bool) error
	CancelLot(ctx context.Context, lotID int64) error
	EditLotPrice(ctx context.Context, lotID int64, newPrice decimal.Decimal) error
	CreateCategory(ctx context.Context, req services.CreateCategoryRequest) (store.Category, error)
}

type OrderService interface {
	FulfillOrder(ctx context.Context, req services.FulfillOrderRequest) (services.OrderConfirmation, error)
}

type ExpenseService interface {
	AddExpense(ctx context.Context, req services.AddExpenseRequest) (store.Expense, error)
	CreateNature(ctx context.Context, designation string) (store.ExpenseNature, error)
}

type LoanService interface {
	AddLoan(ctx context.Context, req services.AddLoanRequest) (store.Loan, error)
	AddRepayment(ctx context.Context, req services.AddRepaymentRequest) (store.Repayment, error)
}

type AccountStore interface {
	List(ctx context.Context) ([]store.Account, error)
}

type CurrencyStore interface {
	List(ctx context.Context) ([]store.Currency, error)
	ListActiveRates(ctx context.Context) ([]store.ActiveRate, error)
}

type LotStore interface {
	ListEnRoute(ctx context.Context) ([]store.EnRouteLot, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]store.Category, error)
}

type ExpenseStore interface {
	ListNatures(ctx context.Context) ([]store.ExpenseNature, error)
}

type LoanStore interface {
	List(ctx context.Context) ([]store.Loan, error)
	ListRepayments(ctx context.Context, tx store.Selecter, loanID int64) ([]store.Repayment, error)
}
