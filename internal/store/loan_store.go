package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LoanStatusOpen    = "EN_COURS"
	LoanStatusSettled = "SOLDE"
)

type LoanStore struct {
	db DB
}

type Loan struct {
	ID          int64           `db:"id_emprunt"`
	Designation string          `db:"designation"`
	Principal   decimal.Decimal `db:"montant_emprunt"`
	Date        time.Time       `db:"date_emprunt"`
	Status      string          `db:"statut_emprunt"`
	AccountID   int64           `db:"cpt_id"`
}

type Repayment struct {
	ID        int64           `db:"id_remb"`
	Amount    decimal.Decimal `db:"montant_remb"`
	Date      time.Time       `db:"date_remb"`
	LoanID    int64           `db:"emprunt_id"`
	AccountID int64           `db:"cpt_id"`
}

func NewLoanStore(db DB) *LoanStore {
	return &LoanStore{db: db}
}

func (s *LoanStore) Create(ctx context.Context, tx Execer, loan Loan) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO emprunt (id_emprunt, designation, montant_emprunt, date_emprunt, statut_emprunt, cpt_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, loan.ID, loan.Designation, loan.Principal, loan.Date, loan.Status, loan.AccountID)
	return err
}

// GetForUpdate locks the loan row so concurrent repayments on the same loan
// serialize on the remaining-balance computation.
func (s *LoanStore) GetForUpdate(ctx context.Context, tx Getter, loanID int64) (Loan, error) {
	var row Loan
	err := tx.GetContext(ctx, &row, `
		SELECT id_emprunt, designation, montant_emprunt, date_emprunt, statut_emprunt, cpt_id
		FROM emprunt
		WHERE id_emprunt = $1
		FOR UPDATE
	`, loanID)
	if err != nil {
		return Loan{}, err
	}
	return row, nil
}

func (s *LoanStore) ListRepayments(ctx context.Context, tx Selecter, loanID int64) ([]Repayment, error) {
	var rows []Repayment
	err := tx.SelectContext(ctx, &rows, `
		SELECT id_remb, montant_remb, date_remb, emprunt_id, cpt_id
		FROM remboursement
		WHERE emprunt_id = $1
		ORDER BY date_remb, id_remb
	`, loanID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LoanStore) InsertRepayment(ctx context.Context, tx Execer, repayment Repayment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO remboursement (id_remb, montant_remb, date_remb, emprunt_id, cpt_id)
		VALUES ($1, $2, $3, $4, $5)
	`, repayment.ID, repayment.Amount, repayment.Date, repayment.LoanID, repayment.AccountID)
	return err
}

func (s *LoanStore) SetStatus(ctx context.Context, tx Execer, loanID int64, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE emprunt SET statut_emprunt = $1 WHERE id_emprunt = $2
	`, status, loanID)
	return err
}

func (s *LoanStore) List(ctx context.Context) ([]Loan, error) {
	var rows []Loan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id_emprunt, designation, montant_emprunt, date_emprunt, statut_emprunt, cpt_id
		FROM emprunt
		ORDER BY date_emprunt DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
