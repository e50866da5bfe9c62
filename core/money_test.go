package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestRoundPrice(t *testing.T) {
	check.Equal(t, 5.5, RoundPrice(5.499999999))
	check.Equal(t, 5.5, RoundPrice(5.5))
	check.Equal(t, 5.46, RoundPrice(5.456))
	check.Equal(t, 0.0, RoundPrice(0))
}

func TestPriceMeets(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		floor float64
		want  bool
	}{
		{"exactly at floor", 5.5, 5.5, true},
		{"above floor", 5.51, 5.5, true},
		{"below floor", 5.49, 5.5, false},
		{"float drift at floor", 5.499999999, 5.5, true}, // rounds to 5.50
		{"accumulated increments", 0.1 + 0.2, 0.3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.want, PriceMeets(tt.price, tt.floor))
		})
	}
}

func TestPriceArithmetic(t *testing.T) {
	// 20% of a $100M budget times a 0.7 score fraction.
	check.Equal(t, 14.0, MulPrice(20.0, 0.7))
	check.Equal(t, 15.12, MulPrice(14.0, 1.08))

	check.Equal(t, 6.0, AddPrice(5.5, 0.5))
	check.Equal(t, 0.3, AddPrice(0.1, 0.2))
	check.Equal(t, 94.0, SubPrice(100.0, 6.0))

	check.Equal(t, 8.0, MinPrice(8.0, 26.18))
	check.Equal(t, 8.0, MinPrice(26.18, 8.0))
}

func TestDefaultRandSource(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := DefaultRandSource.Intn(100)
		check.True(t, v >= 0)
		check.True(t, v < 100)
	}
}

func TestRejectionString(t *testing.T) {
	rej := &Rejection{Reason: RejectInsufficientBudget, Message: "bid exceeds spendable budget"}
	check.Equal(t, "bid exceeds spendable budget", rej.String())
	check.Equal(t, "ok", (*Rejection)(nil).String())
}
