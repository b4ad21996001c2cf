package services

import (
	"context"
	"time"

	"negoce/internal/db"
	"negoce/internal/store"
	"negoce/internal/validator"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CurrencyService struct {
	txRunner      db.TxRunner
	currencyStore CurrencyStore
	sequencer     Sequencer
}

func NewCurrencyService(txRunner db.TxRunner, currencyStore CurrencyStore, sequencer Sequencer) *CurrencyService {
	return &CurrencyService{
		txRunner:      txRunner,
		currencyStore: currencyStore,
		sequencer:     sequencer,
	}
}

type CreateCurrencyRequest struct {
	Code   string
	Name   string
	Symbol string
}

func (s *CurrencyService) CreateCurrency(ctx context.Context, req CreateCurrencyRequest) (store.Currency, error) {
	code := validator.NormalizeCode(req.Code)
	if err := validator.ValidateCurrencyCode(code); err != nil {
		return store.Currency{}, err
	}
	if err := validator.ValidateDesignation(req.Name); err != nil {
		return store.Currency{}, err
	}
	currency := store.Currency{
		Code:   code,
		Name:   validator.NormalizeDesignation(req.Name),
		Symbol: req.Symbol,
	}
	if err := s.currencyStore.Create(ctx, currency); err != nil {
		if isUniqueViolation(err) {
			return store.Currency{}, ErrCurrencyExists
		}
		return store.Currency{}, err
	}
	return currency, nil
}

// SetRate opens a new exchange-rate record for the currency and closes the
// previous open one, both dated at the changeover instant. A currency has at
// most one open record at any time.
func (s *CurrencyService) SetRate(ctx context.Context, currencyCode string, rate decimal.Decimal, date time.Time) error {
	code := validator.NormalizeCode(currencyCode)
	if err := validator.ValidateCurrencyCode(code); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return ErrInvalidAmount
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.currencyStore.CloseActiveRate(ctx, tx, code, date); err != nil {
			return err
		}
		rateID, err := s.sequencer.NextID(ctx, tx, "taux_change", "id_taux", "")
		if err != nil {
			return err
		}
		return s.currencyStore.InsertRate(ctx, tx, rateID, code, rate, date)
	})
}
