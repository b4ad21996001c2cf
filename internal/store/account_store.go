package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStore struct {
	db DB
}

type Account struct {
	ID          int64           `db:"id_cpt"`
	Designation string          `db:"designation_cpt"`
	Type        string          `db:"type_cpt"`
	Currency    string          `db:"dev_code"`
	Balance     decimal.Decimal `db:"solde_actuel"`
	Rate        decimal.Decimal `db:"taux_change_actuel"`
	CashFunded  bool            `db:"alimente_par_caisse"`
	CreatedAt   time.Time       `db:"created_at"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, account Account) error {
	query := `
		INSERT INTO compte (id_cpt, designation_cpt, type_cpt, dev_code, solde_actuel, taux_change_actuel, alimente_par_caisse)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		account.ID, account.Designation, account.Type, account.Currency,
		account.Balance, account.Rate, account.CashFunded,
	)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, accountID int64) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id_cpt, designation_cpt, type_cpt, dev_code, solde_actuel, taux_change_actuel, alimente_par_caisse, created_at
		FROM compte
		WHERE id_cpt = $1
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID int64) (Account, error) {
	var row Account
	err := tx.GetContext(ctx, &row, `
		SELECT id_cpt, designation_cpt, type_cpt, dev_code, solde_actuel, taux_change_actuel, alimente_par_caisse
		FROM compte
		WHERE id_cpt = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalanceAndRate(ctx context.Context, tx Execer, accountID int64, balance, rate decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE compte
		SET solde_actuel = $1, taux_change_actuel = $2, updated_at = NOW()
		WHERE id_cpt = $3
	`, balance, rate, accountID)
	return err
}

// AdjustBalance applies delta atomically and returns the post-change balance
// so callers can verify it inside the same transaction.
func (s *AccountStore) AdjustBalance(ctx context.Context, tx Getter, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `
		UPDATE compte
		SET solde_actuel = solde_actuel + $1, updated_at = NOW()
		WHERE id_cpt = $2
		RETURNING solde_actuel
	`, delta, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *AccountStore) Exists(ctx context.Context, currency, accountType, designation string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM compte
			WHERE dev_code = $1 AND type_cpt = $2 AND designation_cpt = $3
		)
	`, currency, accountType, designation)
	return exists, err
}

// FindByDesignation resolves a well-known account (the Caisse) at startup.
func (s *AccountStore) FindByDesignation(ctx context.Context, designation, currency string) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id_cpt, designation_cpt, type_cpt, dev_code, solde_actuel, taux_change_actuel, alimente_par_caisse, created_at
		FROM compte
		WHERE designation_cpt = $1 AND dev_code = $2
	`, designation, currency)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) List(ctx context.Context) ([]Account, error) {
	var rows []Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id_cpt, designation_cpt, type_cpt, dev_code, solde_actuel, taux_change_actuel, alimente_par_caisse, created_at
		FROM compte
		ORDER BY designation_cpt
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
