package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreditStore records the traceability row written for every account credit,
// including the credit implied by a loan.
type CreditStore struct {
	db DB
}

type CreditInput struct {
	ID        int64
	AccountID int64
	Date      time.Time
	Amount    decimal.Decimal
	Rate      decimal.Decimal
}

func NewCreditStore(db DB) *CreditStore {
	return &CreditStore{db: db}
}

func (s *CreditStore) Insert(ctx context.Context, tx Execer, input CreditInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO crediter (id_op_crd, cpt_id, date_op, montant_op, taux_change)
		VALUES ($1, $2, $3, $4, $5)
	`, input.ID, input.AccountID, input.Date, input.Amount, input.Rate)
	return err
}
