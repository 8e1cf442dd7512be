package loan

import (
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"time"
)

type Money = float64

// DaysPerTenureMonth approximates a calendar month when deriving end dates.
const DaysPerTenureMonth = 30

type Loan struct {
	LoanID           int64
	CustomerID       int64
	LoanAmount       Money
	Tenure           int
	InterestRate     float64
	MonthlyRepayment Money
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
}

// NewLoan builds a freshly approved loan starting on startDate.
func NewLoan(customerID int64, amount Money, annualRate float64, tenure int, emi Money, startDate time.Time) (*Loan, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", apperrors.ErrInvalidArgument)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: loan amount must be positive", apperrors.ErrInvalidArgument)
	}
	if tenure <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", apperrors.ErrInvalidArgument)
	}

	return &Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     annualRate,
		MonthlyRepayment: RoundMoney(emi),
		EMIsPaidOnTime:   0,
		StartDate:        startDate,
		EndDate:          EndDateFor(startDate, tenure),
	}, nil
}

func EndDateFor(startDate time.Time, tenure int) time.Time {
	return startDate.AddDate(0, 0, tenure*DaysPerTenureMonth)
}

// IsActive reports whether installments remain to be paid.
func (l *Loan) IsActive() bool {
	return l.EMIsPaidOnTime < l.Tenure
}

func (l *Loan) RepaymentsLeft() int {
	return l.Tenure - l.EMIsPaidOnTime
}
