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

type AccountService struct {
	txRunner     db.TxRunner
	accountStore AccountStore
	creditStore  CreditStore
	sequencer    Sequencer
	auditStore   AuditStore
	hub          BalanceHub
	caisse       Caisse
}

func NewAccountService(txRunner db.TxRunner, accountStore AccountStore, creditStore CreditStore, sequencer Sequencer, auditStore AuditStore, hub BalanceHub, caisse Caisse) *AccountService {
	return &AccountService{
		txRunner:     txRunner,
		accountStore: accountStore,
		creditStore:  creditStore,
		sequencer:    sequencer,
		auditStore:   auditStore,
		hub:          hub,
		caisse:       caisse,
	}
}

type CreateAccountRequest struct {
	Designation string
	Type        string
	Currency    string
	CashFunded  bool
}

func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (store.Account, error) {
	if err := validator.ValidateDesignation(req.Designation); err != nil {
		return store.Account{}, err
	}
	if err := validator.ValidateCurrencyCode(validator.NormalizeCode(req.Currency)); err != nil {
		return store.Account{}, err
	}
	account := store.Account{
		Designation: validator.NormalizeDesignation(req.Designation),
		Type:        validator.NormalizeCode(req.Type),
		Currency:    validator.NormalizeCode(req.Currency),
		Balance:     decimal.Zero,
		Rate:        decimal.Zero,
		CashFunded:  req.CashFunded,
	}
	exists, err := s.accountStore.Exists(ctx, account.Currency, account.Type, account.Designation)
	if err != nil {
		return store.Account{}, err
	}
	if exists {
		return store.Account{}, ErrAccountExists
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.sequencer.NextID(ctx, tx, "compte", "id_cpt", "")
		if err != nil {
			return err
		}
		account.ID = id
		if err := s.accountStore.Create(ctx, tx, account); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"designation": account.Designation,
			"type":        account.Type,
			"devise":      account.Currency,
		})
		return s.auditStore.Log(ctx, tx, "create_account", "compte", fmt.Sprint(account.ID), string(data))
	})
	if err != nil {
		if isUniqueViolation(err) {
			return store.Account{}, ErrAccountExists
		}
		return store.Account{}, err
	}
	return account, nil
}

type CreditRequest struct {
	AccountID int64
	Amount    decimal.Decimal
	Rate      decimal.Decimal
	Date      time.Time
}

// Credit increments an account's balance and recomputes its weighted-average
// exchange rate. Accounts flagged alimente_par_caisse are funded out of the
// Caisse: the equivalent base-currency amount is debited from it in the same
// transaction, and the whole credit fails if the Caisse cannot cover it.
func (s *AccountService) Credit(ctx context.Context, req CreditRequest) (store.Account, error) {
	if !req.Amount.IsPositive() || req.Rate.IsNegative() {
		return store.Account{}, ErrInvalidAmount
	}
	var account store.Account
	var caisseBalance decimal.Decimal
	var caisseDebited bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		caisseDebited = false
		opID, err := s.sequencer.NextID(ctx, tx, "crediter", "id_op_crd", "")
		if err != nil {
			return err
		}
		account, err = s.accountStore.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if isNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}
		if err := s.creditStore.Insert(ctx, tx, store.CreditInput{
			ID:        opID,
			AccountID: req.AccountID,
			Date:      req.Date,
			Amount:    req.Amount,
			Rate:      req.Rate,
		}); err != nil {
			return err
		}
		newRate := creditedRate(account.Balance, account.Rate, req.Amount, req.Rate)
		newBalance := account.Balance.Add(req.Amount)
		if err := s.accountStore.UpdateBalanceAndRate(ctx, tx, req.AccountID, newBalance, newRate); err != nil {
			return err
		}
		account.Balance = newBalance
		account.Rate = newRate

		if account.CashFunded {
			funding := money.Round2(req.Amount.Mul(req.Rate))
			caisse, err := s.accountStore.GetForUpdate(ctx, tx, s.caisse.ID)
			if err != nil {
				return err
			}
			if caisse.Balance.LessThan(funding) {
				return ErrInsufficientFunds
			}
			caisseBalance, err = s.accountStore.AdjustBalance(ctx, tx, s.caisse.ID, funding.Neg())
			if err != nil {
				return err
			}
			caisseDebited = true
		}
		data, _ := json.Marshal(map[string]string{
			"montant": req.Amount.StringFixed(2),
			"taux":    req.Rate.String(),
		})
		return s.auditStore.Log(ctx, tx, "credit_account", "compte", fmt.Sprint(req.AccountID), string(data))
	})
	if err != nil {
		return store.Account{}, err
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   account.Balance.StringFixed(2),
		Currency:  account.Currency,
	})
	if caisseDebited {
		s.hub.BroadcastBalance(websocket.BalanceUpdate{
			AccountID: s.caisse.ID,
			Balance:   caisseBalance.StringFixed(2),
			Currency:  s.caisse.Currency,
		})
	}
	return account, nil
}
