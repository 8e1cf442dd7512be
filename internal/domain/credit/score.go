package credit

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxScore = 100

	paidOnTimeWeight   = 40
	perLoanPoints      = 5
	loanCountCap       = 20
	perCurrentYearLoan = 10
	currentYearCap     = 20
	volumeUnit         = 100000
	volumeCap          = 20
)

// Score rates a customer's repayment history on a 0 to 100 scale. asOf decides
// which calendar year counts as the current one.
//
// A customer with no loans scores 100. Active exposure above the approved limit,
// or active installments above half the monthly salary, scores 0.
func Score(cust *customer.Customer, loans []*loan.Loan, asOf time.Time) int {
	if len(loans) == 0 {
		return MaxScore
	}

	var (
		activeAmount = decimal.Zero
		activeEMI    = decimal.Zero
		volume       = decimal.Zero
		tenureSum    int64
		paidSum      int64
		currentYear  int64
	)
	for _, l := range loans {
		amount := decimal.NewFromFloat(l.LoanAmount)
		if l.IsActive() {
			activeAmount = activeAmount.Add(amount)
			activeEMI = activeEMI.Add(decimal.NewFromFloat(l.MonthlyRepayment))
		}
		volume = volume.Add(amount)
		tenureSum += int64(l.Tenure)
		paidSum += int64(l.EMIsPaidOnTime)
		if l.StartDate.Year() == asOf.Year() {
			currentYear++
		}
	}

	if activeAmount.GreaterThan(decimal.NewFromFloat(cust.ApprovedLimit)) {
		return 0
	}
	if activeEMI.GreaterThan(decimal.NewFromFloat(cust.MonthlySalary).Mul(decimal.NewFromFloat(0.5))) {
		return 0
	}

	paidRatio := decimal.NewFromInt(1)
	if tenureSum > 0 {
		paidRatio = decimal.NewFromInt(paidSum).Div(decimal.NewFromInt(tenureSum))
	}

	score := paidRatio.Mul(decimal.NewFromInt(paidOnTimeWeight)).
		Add(capAt(decimal.NewFromInt(int64(len(loans))*perLoanPoints), loanCountCap)).
		Add(capAt(decimal.NewFromInt(currentYear*perCurrentYearLoan), currentYearCap)).
		Add(capAt(volume.Div(decimal.NewFromInt(volumeUnit)), volumeCap))

	return int(capAt(score, MaxScore).IntPart())
}

func capAt(v decimal.Decimal, limit int64) decimal.Decimal {
	return decimal.Min(v, decimal.NewFromInt(limit))
}

// CountActive returns how many loans still have installments outstanding.
func CountActive(loans []*loan.Loan) int {
	n := 0
	for _, l := range loans {
		if l.IsActive() {
			n++
		}
	}
	return n
}
