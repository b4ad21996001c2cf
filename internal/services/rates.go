package services

import (
	"negoce/internal/money"

	"github.com/shopspring/decimal"
)

// creditedRate recomputes an account's weighted-average exchange rate after a
// credit of amount at rate applied: (B·R + m·r) / (B + m), rounded to 2
// decimals. Zero when the resulting balance is zero.
func creditedRate(balance, rate, amount, applied decimal.Decimal) decimal.Decimal {
	total := balance.Add(amount)
	if total.IsZero() {
		return decimal.Zero
	}
	return money.Round2(balance.Mul(rate).Add(amount.Mul(applied)).Div(total))
}

// reverseLotCost un-applies a lot's cost from its paying account. Returns the
// balance and base-currency valuation after refunding the lot, plus the
// weighted-average rate they imply (zero when the balance is not positive).
func reverseLotCost(balance, rate, costSource, costBase decimal.Decimal) (newBalance, newValuation, newRate decimal.Decimal) {
	newBalance = balance.Add(costSource)
	newValuation = balance.Mul(rate).Add(costBase)
	newRate = decimal.Zero
	if newBalance.IsPositive() {
		newRate = money.Round4(newValuation.Div(newBalance))
	}
	return newBalance, newValuation, newRate
}

// applyLotCost deducts a cost from an intermediate balance/valuation pair and
// returns the final balance and rate. Used by the price edit after
// reverseLotCost has refunded the old cost.
func applyLotCost(balance, valuation, costSource, costBase decimal.Decimal) (newBalance, newRate decimal.Decimal) {
	newBalance = balance.Sub(costSource)
	newValuation := valuation.Sub(costBase)
	newRate = decimal.Zero
	if newBalance.IsPositive() {
		newRate = money.Round4(newValuation.Div(newBalance))
	}
	return newBalance, newRate
}

// originalPurchaseRate is the rate a lot was bought at, reconstructed from
// its stored totals. Price edits convert the new price with this rate, never
// the account's drifted current rate.
func originalPurchaseRate(totalSource, totalBase decimal.Decimal) decimal.Decimal {
	if totalSource.IsZero() {
		return decimal.Zero
	}
	return totalBase.Div(totalSource)
}
