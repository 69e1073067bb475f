package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCheckPrecision(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"whole amount", "100", false},
		{"cent amount", "33.33", false},
		{"trailing zeros", "10.500", false},
		{"sub-cent", "0.001", true},
		{"third of a euro", "33.333", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPrecision(decimal.RequireFromString(tc.amount))
			if tc.wantErr && !errors.Is(err, ErrPrecision) {
				t.Errorf("Expected ErrPrecision, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		n      int
		want   []string
	}{
		{"even split", "90.00", 3, []string{"30.00", "30.00", "30.00"}},
		{"remainder cent to first", "100.00", 3, []string{"33.34", "33.33", "33.33"}},
		{"two remainder cents", "1.01", 3, []string{"0.34", "0.34", "0.33"}},
		{"single debtor", "12.34", 1, []string{"12.34"}},
		{"zero amount", "0.00", 2, []string{"0.00", "0.00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			parts, err := SplitAmount(amount, tc.n)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(parts) != tc.n {
				t.Fatalf("Expected %d parts, got %d", tc.n, len(parts))
			}

			sum := decimal.Zero
			for i, part := range parts {
				if want := decimal.RequireFromString(tc.want[i]); !part.Equal(want) {
					t.Errorf("Part %d: expected %s, got %s", i, want, part)
				}
				sum = sum.Add(part)
			}
			if !sum.Equal(amount) {
				t.Errorf("Parts sum to %s, expected exactly %s", sum, amount)
			}
		})
	}

	if _, err := SplitAmount(decimal.RequireFromString("10.00"), 0); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero parts, got %v", err)
	}
	if _, err := SplitAmount(decimal.RequireFromString("0.001"), 2); !errors.Is(err, ErrPrecision) {
		t.Errorf("Expected ErrPrecision for sub-cent amount, got %v", err)
	}
	if _, err := SplitAmount(decimal.RequireFromString("-5.00"), 2); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for negative amount, got %v", err)
	}
}

func TestSumAmounts(t *testing.T) {
	sum, err := SumAmounts([]decimal.Decimal{
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.34"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if want := decimal.RequireFromString("100.00"); !sum.Equal(want) {
		t.Errorf("Expected %s, got %s", want, sum)
	}

	_, err = SumAmounts([]decimal.Decimal{
		decimal.RequireFromString("1.00"),
		decimal.RequireFromString("0.005"),
	})
	if !errors.Is(err, ErrPrecision) {
		t.Errorf("Expected ErrPrecision for sub-cent operand, got %v", err)
	}

	sum, err = SumAmounts(nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if !sum.IsZero() {
		t.Errorf("Expected zero sum for empty input, got %s", sum)
	}
}
