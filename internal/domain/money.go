package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyExponent is the number of fractional digits of the minimum
// currency unit. Amounts are stored and summed in cents.
const CurrencyExponent = 2

// CheckPrecision verifies that amount can be represented exactly in the
// minimum currency unit. Returns ErrPrecision for sub-cent values.
func CheckPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(CurrencyExponent)) {
		return fmt.Errorf("%w: %s", ErrPrecision, amount.String())
	}
	return nil
}

// SplitAmount divides amount into n cent-exact parts whose sum equals
// amount. The remainder cents are distributed one by one starting with
// the first part, so 100.00 split three ways yields 33.34, 33.33, 33.33.
func SplitAmount(amount decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: split count must be positive, got %d", ErrValidation, n)
	}
	if err := CheckPrecision(amount); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: cannot split negative amount %s", ErrValidation, amount.String())
	}

	cents := amount.Shift(CurrencyExponent).IntPart()
	base := cents / int64(n)
	remainder := cents % int64(n)

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		c := base
		if int64(i) < remainder {
			c++
		}
		parts[i] = decimal.New(c, -CurrencyExponent)
	}
	return parts, nil
}

// SumAmounts adds the given amounts, verifying each operand's precision
// so a malformed record cannot silently skew a balance.
func SumAmounts(amounts []decimal.Decimal) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range amounts {
		if err := CheckPrecision(a); err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(a)
	}
	return sum, nil
}
