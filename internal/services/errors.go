package services

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidOrder        = errors.New("invalid order")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrNatureExists        = errors.New("expense nature already exists")
	ErrCurrencyExists      = errors.New("currency already exists")
	ErrLotNotFound         = errors.New("lot not found")
	ErrLotAlreadyStocked   = errors.New("lot already stocked")
	ErrLotAlreadySold      = errors.New("lot has already fed a sale")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanSettled         = errors.New("loan already settled")
	ErrOverpayment         = errors.New("repayment exceeds remaining balance")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInventoryConflict   = errors.New("inventory conflict")
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
