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

type LoanService struct {
	txRunner     db.TxRunner
	loanStore    LoanStore
	accountStore AccountStore
	creditStore  CreditStore
	sequencer    Sequencer
	auditStore   AuditStore
	hub          BalanceHub
}

func NewLoanService(txRunner db.TxRunner, loanStore LoanStore, accountStore AccountStore, creditStore CreditStore, sequencer Sequencer, auditStore AuditStore, hub BalanceHub) *LoanService {
	return &LoanService{
		txRunner:     txRunner,
		loanStore:    loanStore,
		accountStore: accountStore,
		creditStore:  creditStore,
		sequencer:    sequencer,
		auditStore:   auditStore,
		hub:          hub,
	}
}

type AddLoanRequest struct {
	AccountID   int64
	Amount      decimal.Decimal
	Designation string
	Date        time.Time
}

// AddLoan credits the receiving account by the principal and leaves a
// traceability row in crediter carrying the account's rate at that instant.
// The loan opens EN_COURS; the account's rate itself is not recomputed, a
// loan is incoming cash at the rate the account already holds.
func (s *LoanService) AddLoan(ctx context.Context, req AddLoanRequest) (store.Loan, error) {
	if !req.Amount.IsPositive() {
		return store.Loan{}, ErrInvalidAmount
	}
	if err := validator.ValidateDesignation(req.Designation); err != nil {
		return store.Loan{}, err
	}
	var loan store.Loan
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
		loanID, err := s.sequencer.NextID(ctx, tx, "emprunt", "id_emprunt", "")
		if err != nil {
			return err
		}
		opID, err := s.sequencer.NextID(ctx, tx, "crediter", "id_op_crd", "")
		if err != nil {
			return err
		}
		loan = store.Loan{
			ID:          loanID,
			Designation: req.Designation,
			Principal:   money.Round2(req.Amount),
			Date:        req.Date,
			Status:      store.LoanStatusOpen,
			AccountID:   req.AccountID,
		}
		if err := s.loanStore.Create(ctx, tx, loan); err != nil {
			return err
		}
		if err := s.creditStore.Insert(ctx, tx, store.CreditInput{
			ID:        opID,
			AccountID: req.AccountID,
			Date:      req.Date,
			Amount:    loan.Principal,
			Rate:      account.Rate,
		}); err != nil {
			return err
		}
		balance, err := s.accountStore.AdjustBalance(ctx, tx, req.AccountID, loan.Principal)
		if err != nil {
			return err
		}
		account.Balance = balance
		data, _ := json.Marshal(map[string]string{
			"montant":     loan.Principal.StringFixed(2),
			"designation": loan.Designation,
		})
		return s.auditStore.Log(ctx, tx, "add_loan", "emprunt", fmt.Sprint(loanID), string(data))
	})
	if err != nil {
		return store.Loan{}, err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return loan, nil
}

type AddRepaymentRequest struct {
	LoanID    int64
	Amount    decimal.Decimal
	AccountID int64
	Date      time.Time
}

// AddRepayment debits the paying account and closes the loan exactly when
// the cumulative repayments reach the principal. Overpaying the remaining
// balance, repaying a settled loan, or paying from an underfunded account
// are business-rule violations that leave no trace.
func (s *LoanService) AddRepayment(ctx context.Context, req AddRepaymentRequest) (store.Repayment, error) {
	if !req.Amount.IsPositive() {
		return store.Repayment{}, ErrInvalidAmount
	}
	var repayment store.Repayment
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loanStore.GetForUpdate(ctx, tx, req.LoanID)
		if err != nil {
			if isNoRows(err) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.Status == store.LoanStatusSettled {
			return ErrLoanSettled
		}
		repayments, err := s.loanStore.ListRepayments(ctx, tx, req.LoanID)
		if err != nil {
			return err
		}
		repaid := decimal.Zero
		for _, prior := range repayments {
			repaid = repaid.Add(prior.Amount)
		}
		remaining := money.Round2(loan.Principal.Sub(repaid))
		submitted := money.Round2(req.Amount)
		if submitted.GreaterThan(remaining) {
			return ErrOverpayment
		}
		account, err = s.accountStore.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if isNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}
		if account.Balance.LessThan(submitted) {
			return ErrInsufficientFunds
		}
		id, err := s.sequencer.NextID(ctx, tx, "remboursement", "id_remb", "")
		if err != nil {
			return err
		}
		repayment = store.Repayment{
			ID:        id,
			Amount:    submitted,
			Date:      req.Date,
			LoanID:    req.LoanID,
			AccountID: req.AccountID,
		}
		if err := s.loanStore.InsertRepayment(ctx, tx, repayment); err != nil {
			return err
		}
		balance, err := s.accountStore.AdjustBalance(ctx, tx, req.AccountID, submitted.Neg())
		if err != nil {
			return err
		}
		account.Balance = balance
		if submitted.Equal(remaining) {
			if err := s.loanStore.SetStatus(ctx, tx, req.LoanID, store.LoanStatusSettled); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"montant": submitted.StringFixed(2),
			"emprunt": fmt.Sprint(req.LoanID),
		})
		return s.auditStore.Log(ctx, tx, "add_repayment", "remboursement", fmt.Sprint(id), string(data))
	})
	if err != nil {
		return store.Repayment{}, err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	return repayment, nil
}
