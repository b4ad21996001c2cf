package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"negoce/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddLoanUnknownAccount(t *testing.T) {
	accounts := stubAccountStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (store.Account, error) {
			return store.Account{}, sql.ErrNoRows
		},
	}
	service := NewLoanService(fakeTxRunner{}, stubLoanStore{}, accounts, stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})
	_, err := service.AddLoan(context.Background(), AddLoanRequest{
		AccountID: 9, Amount: dec("1000"), Designation: "Fournisseur", Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAddLoanCreditsAccountAtCurrentRate(t *testing.T) {
	var creditRow store.CreditInput
	var delta decimal.Decimal
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "DZD", Balance: dec("200"), Rate: dec("1.5")}, nil
		},
		adjustBalanceFn: func(_ context.Context, _ store.Getter, _ int64, d decimal.Decimal) (decimal.Decimal, error) {
			delta = d
			return dec("200").Add(d), nil
		},
	}
	credits := stubCreditStore{
		insertFn: func(_ context.Context, _ store.Execer, input store.CreditInput) error {
			creditRow = input
			return nil
		},
	}
	service := NewLoanService(fakeTxRunner{}, stubLoanStore{}, accounts, credits, stubSequencer{}, stubAuditStore{}, &stubHub{})

	loan, err := service.AddLoan(context.Background(), AddLoanRequest{
		AccountID: 3, Amount: dec("1000"), Designation: "Fournisseur", Date: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, store.LoanStatusOpen, loan.Status)
	require.True(t, delta.Equal(dec("1000")), "delta = %s", delta)
	require.True(t, creditRow.Rate.Equal(dec("1.5")), "traceability rate = %s", creditRow.Rate)
}

func repaymentFixture(status string, prior ...string) stubLoanStore {
	repayments := make([]store.Repayment, 0, len(prior))
	for i, amount := range prior {
		repayments = append(repayments, store.Repayment{ID: int64(i + 1), Amount: decimal.RequireFromString(amount), LoanID: 4})
	}
	return stubLoanStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, loanID int64) (store.Loan, error) {
			return store.Loan{ID: loanID, Principal: decimal.RequireFromString("1000"), Status: status}, nil
		},
		listRepaymentsFn: func(context.Context, store.Selecter, int64) ([]store.Repayment, error) {
			return repayments, nil
		},
	}
}

func solventAccount() stubAccountStore {
	return stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "DZD", Balance: dec("10000"), Rate: dec("1")}, nil
		},
	}
}

func TestAddRepaymentClosesLoanExactlyOnFullRepayment(t *testing.T) {
	loans := repaymentFixture(store.LoanStatusOpen, "600")
	var settled bool
	loans.setStatusFn = func(_ context.Context, _ store.Execer, _ int64, status string) error {
		settled = status == store.LoanStatusSettled
		return nil
	}
	service := NewLoanService(fakeTxRunner{}, loans, solventAccount(), stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})

	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 4, Amount: dec("400"), AccountID: 3, Date: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, settled, "loan must settle when repayments reach the principal")
}

func TestAddRepaymentPartialKeepsLoanOpen(t *testing.T) {
	loans := repaymentFixture(store.LoanStatusOpen)
	loans.setStatusFn = func(context.Context, store.Execer, int64, string) error {
		t.Fatal("a partial repayment must not settle the loan")
		return nil
	}
	service := NewLoanService(fakeTxRunner{}, loans, solventAccount(), stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})

	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 4, Amount: dec("600"), AccountID: 3, Date: time.Now(),
	})
	require.NoError(t, err)
}

func TestAddRepaymentOverpaymentRejected(t *testing.T) {
	loans := repaymentFixture(store.LoanStatusOpen, "700")
	loans.insertRepaymentFn = func(context.Context, store.Execer, store.Repayment) error {
		t.Fatal("overpayment must not be persisted")
		return nil
	}
	service := NewLoanService(fakeTxRunner{}, loans, solventAccount(), stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})

	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 4, Amount: dec("301"), AccountID: 3, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrOverpayment)
}

func TestAddRepaymentSettledLoan(t *testing.T) {
	service := NewLoanService(fakeTxRunner{}, repaymentFixture(store.LoanStatusSettled), solventAccount(), stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})
	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 4, Amount: dec("100"), AccountID: 3, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrLoanSettled)
}

func TestAddRepaymentInsufficientFunds(t *testing.T) {
	accounts := stubAccountStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, accountID int64) (store.Account, error) {
			return store.Account{ID: accountID, Currency: "DZD", Balance: dec("50")}, nil
		},
	}
	service := NewLoanService(fakeTxRunner{}, repaymentFixture(store.LoanStatusOpen), accounts, stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})
	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 4, Amount: dec("100"), AccountID: 3, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAddRepaymentUnknownLoan(t *testing.T) {
	loans := stubLoanStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (store.Loan, error) {
			return store.Loan{}, sql.ErrNoRows
		},
	}
	service := NewLoanService(fakeTxRunner{}, loans, solventAccount(), stubCreditStore{}, stubSequencer{}, stubAuditStore{}, &stubHub{})
	_, err := service.AddRepayment(context.Background(), AddRepaymentRequest{
		LoanID: 99, Amount: dec("100"), AccountID: 3, Date: time.Now(),
	})
	require.ErrorIs(t, err, ErrLoanNotFound)
}
