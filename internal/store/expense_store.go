package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseStore struct {
	db DB
}

type Expense struct {
	ID         int64           `db:"id_op_dep"`
	Date       time.Time       `db:"date_dep"`
	Amount     decimal.Decimal `db:"mnt_dep"`
	AmountBase decimal.Decimal `db:"mnt_dep_dzd"`
	AccountID  int64           `db:"cpt_id"`
	NatureID   int64           `db:"nat_dep_id"`
}

type ExpenseNature struct {
	ID          int64  `db:"id_nat_dep"`
	Designation string `db:"designation_nat_dep"`
}

func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) Create(ctx context.Context, tx Execer, expense Expense) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO depense (id_op_dep, date_dep, mnt_dep, mnt_dep_dzd, cpt_id, nat_dep_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, expense.ID, expense.Date, expense.Amount, expense.AmountBase, expense.AccountID, expense.NatureID)
	return err
}

func (s *ExpenseStore) CreateNature(ctx context.Context, tx Execer, nature ExpenseNature) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO nature_dep (id_nat_dep, designation_nat_dep)
		VALUES ($1, $2)
	`, nature.ID, nature.Designation)
	return err
}

func (s *ExpenseStore) NatureExists(ctx context.Context, designation string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM nature_dep WHERE designation_nat_dep = $1)
	`, designation)
	return exists, err
}

func (s *ExpenseStore) ListNatures(ctx context.Context) ([]ExpenseNature, error) {
	var rows []ExpenseNature
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id_nat_dep, designation_nat_dep
		FROM nature_dep
		ORDER BY designation_nat_dep
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
