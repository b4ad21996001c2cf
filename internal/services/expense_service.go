package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"negoce/internal/db"
	"negoce/internal/money"
	"negoce/internal/store"
	"negoce/internal/validator"
	"negoce/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ExpenseService struct {
	txRunner     db.TxRunner
	expenseStore ExpenseStore
	accountStore AccountStore
	sequencer    Sequencer
	auditStore   AuditStore
	hub          BalanceHub
}

func NewExpenseService(txRunner db.TxRunner, expenseStore ExpenseStore, accountStore AccountStore, sequencer Sequencer, auditStore AuditStore, hub BalanceHub) *ExpenseService {
	return &ExpenseService{
		txRunner:     txRunner,
		expenseStore: expenseStore,
		accountStore: accountStore,
		sequencer:    sequencer,
		auditStore:   auditStore,
		hub:          hub,
	}
}

type AddExpenseRequest struct {
	AccountID int64
	Amount    decimal.Decimal
	NatureID  int64
	Date      time.Time
}

// AddExpense debits the account after a sufficiency check. The base-currency
// amount is fixed at posting time using the account's current rate.
func (s *ExpenseService) AddExpense(ctx context.Context, req AddExpenseRequest) (store.Expense, error) {
	if !req.Amount.IsPositive() {
		return store.Expense{}, ErrInvalidAmount
	}
	var expense store.Expense
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
		if account.Balance.LessThan(req.Amount) {
			return ErrInsufficientBalance
		}
		id, err := s.sequencer.NextID(ctx, tx, "depense", "id_op_dep", "")
		if err != nil {
			return err
		}
		expense = store.Expense{
			ID:         id,
			Date:       req.Date,
			Amount:     req.Amount,
			AmountBase: money.Round2(req.Amount.Mul(account.Rate)),
			AccountID:  req.AccountID,
			NatureID:   req.NatureID,
		}
		if err := s.expenseStore.Create(ctx, tx, expense); err != nil {
			return err
		}
		balance, err := s.accountStore.AdjustBalance(ctx, tx, req.AccountID, req.Amount.Neg())
		if err != nil {
			return err
		}
		account.Balance = balance
		data, _ := json.Marshal(map[string]string{
			"montant": req.Amount.StringFixed(2),
			"nature":  fmt.Sprint(req.NatureID),
		})
		return s.auditStore.Log(ctx, tx, "add_expense", "depense", fmt.Sprint(id), string(data))
	})
	if err != nil {
		return store.Expense{}, err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return expense, nil
}

func (s *ExpenseService) CreateNature(ctx context.Context, designation string) (store.ExpenseNature, error) {
	if err := validator.ValidateDesignation(designation); err != nil {
		return store.ExpenseNature{}, err
	}
	cleaned := strings.ToUpper(strings.TrimSpace(designation))
	exists, err := s.expenseStore.NatureExists(ctx, cleaned)
	if err != nil {
		return store.ExpenseNature{}, err
	}
	if exists {
		return store.ExpenseNature{}, ErrNatureExists
	}
	var nature store.ExpenseNature
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.sequencer.NextID(ctx, tx, "nature_dep", "id_nat_dep", "")
		if err != nil {
			return err
		}
		nature = store.ExpenseNature{ID: id, Designation: cleaned}
		return s.expenseStore.CreateNature(ctx, tx, nature)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return store.ExpenseNature{}, ErrNatureExists
		}
		return store.ExpenseNature{}, err
	}
	return nature, nil
}
