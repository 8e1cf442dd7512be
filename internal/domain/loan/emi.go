package loan

import (
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CalculateEMI returns the fixed monthly installment of an annuity loan. The
// result is not rounded.
func CalculateEMI(principal Money, annualRatePercent float64, tenure int) (Money, error) {
	if tenure <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive", apperrors.ErrInvalidArgument)
	}
	if annualRatePercent == 0 {
		return principal / float64(tenure), nil
	}

	r := annualRatePercent / 12 / 100
	growth := math.Pow(1+r, float64(tenure))
	emi := principal * r * growth / (growth - 1)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return 0, fmt.Errorf("%w: installment for rate %.2f over %d months is out of range", apperrors.ErrInvalidArgument, annualRatePercent, tenure)
	}
	return emi, nil
}

func RoundMoney(v Money) Money {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
