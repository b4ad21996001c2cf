package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"negoce/internal/store"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func TestCreateCurrencyDuplicate(t *testing.T) {
	currencies := stubCurrencyStore{
		createFn: func(context.Context, store.Currency) error {
			return &pq.Error{Code: "23505"}
		},
	}
	service := NewCurrencyService(fakeTxRunner{}, currencies, stubSequencer{})
	_, err := service.CreateCurrency(context.Background(), CreateCurrencyRequest{Code: "eur", Name: "euro", Symbol: "€"})
	if !errors.Is(err, ErrCurrencyExists) {
		t.Fatalf("expected ErrCurrencyExists, got %v", err)
	}
}

func TestCreateCurrencyNormalizes(t *testing.T) {
	var created store.Currency
	currencies := stubCurrencyStore{
		createFn: func(_ context.Context, currency store.Currency) error {
			created = currency
			return nil
		},
	}
	service := NewCurrencyService(fakeTxRunner{}, currencies, stubSequencer{})
	if _, err := service.CreateCurrency(context.Background(), CreateCurrencyRequest{Code: " eur ", Name: "euro", Symbol: "€"}); err != nil {
		t.Fatalf("create currency: %v", err)
	}
	if created.Code != "EUR" || created.Name != "Euro" {
		t.Fatalf("normalized currency = %+v", created)
	}
}

func TestSetRateClosesPreviousRecord(t *testing.T) {
	var closedAt time.Time
	var inserted decimal.Decimal
	var closedBeforeInsert bool
	currencies := stubCurrencyStore{
		closeActiveRateFn: func(_ context.Context, _ store.Execer, currency string, endDate time.Time) error {
			if currency != "EUR" {
				t.Fatalf("currency = %s", currency)
			}
			closedAt = endDate
			return nil
		},
		insertRateFn: func(_ context.Context, _ store.Execer, _ int64, _ string, rate decimal.Decimal, startDate time.Time) error {
			closedBeforeInsert = !closedAt.IsZero() && closedAt.Equal(startDate)
			inserted = rate
			return nil
		},
	}
	service := NewCurrencyService(fakeTxRunner{}, currencies, stubSequencer{})

	changeover := time.Now()
	if err := service.SetRate(context.Background(), "EUR", dec("245.5"), changeover); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	if !inserted.Equal(dec("245.5")) {
		t.Fatalf("rate = %s", inserted)
	}
	if !closedBeforeInsert {
		t.Fatal("previous record must close at the new record's start date")
	}
}

func TestSetRateRejectsNonPositive(t *testing.T) {
	service := NewCurrencyService(fakeTxRunner{}, stubCurrencyStore{}, stubSequencer{})
	if err := service.SetRate(context.Background(), "EUR", dec("0"), time.Now()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
