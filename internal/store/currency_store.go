package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CurrencyStore struct {
	db DB
}

type Currency struct {
	Code      string `db:"code_dev"`
	Name      string `db:"nom_dev"`
	Symbol    string `db:"symbole_dev"`
	CreatedAt any    `db:"created_at"`
}

type ActiveRate struct {
	Currency  string          `db:"dev_code"`
	Rate      decimal.Decimal `db:"taux"`
	StartDate time.Time       `db:"date_debut"`
}

func NewCurrencyStore(db DB) *CurrencyStore {
	return &CurrencyStore{db: db}
}

func (s *CurrencyStore) Create(ctx context.Context, currency Currency) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devise (code_dev, nom_dev, symbole_dev)
		VALUES ($1, $2, $3)
	`, currency.Code, currency.Name, currency.Symbol)
	return err
}

func (s *CurrencyStore) List(ctx context.Context) ([]Currency, error) {
	var rows []Currency
	err := s.db.SelectContext(ctx, &rows, `
		SELECT code_dev, nom_dev, symbole_dev, created_at
		FROM devise
		ORDER BY code_dev
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CloseActiveRate ends the currency's open rate record, if any. A currency
// has at most one info_taux_change row with date_fin IS NULL.
func (s *CurrencyStore) CloseActiveRate(ctx context.Context, tx Execer, currency string, endDate time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE info_taux_change
		SET date_fin = $1
		WHERE dev_code = $2 AND date_fin IS NULL
	`, endDate, currency)
	return err
}

func (s *CurrencyStore) InsertRate(ctx context.Context, tx Execer, rateID int64, currency string, rate decimal.Decimal, startDate time.Time) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO taux_change (id_taux, taux)
		VALUES ($1, $2)
	`, rateID, rate); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO info_taux_change (dev_code, taux_id, date_debut, date_fin)
		VALUES ($1, $2, $3, NULL)
	`, currency, rateID, startDate)
	return err
}

func (s *CurrencyStore) ListActiveRates(ctx context.Context) ([]ActiveRate, error) {
	var rows []ActiveRate
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.dev_code, t.taux, i.date_debut
		FROM info_taux_change i
		JOIN taux_change t ON t.id_taux = i.taux_id
		WHERE i.date_fin IS NULL
		ORDER BY i.dev_code
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
