package customer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinimumAge = 18

	approvedLimitIncomeMultiple = 36
	approvedLimitRoundingUnit   = 100000
)

type Customer struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	PhoneNumber   string
	Age           int
	MonthlySalary float64
	ApprovedLimit float64
	CurrentDebt   float64
	CreatedAt     time.Time
}

// Registration is the input accepted by CustomerService.Register.
type Registration struct {
	FirstName     string
	LastName      string
	Age           int
	MonthlyIncome float64
	PhoneNumber   string
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ApprovedLimitFor returns 36 times the monthly income rounded to the nearest
// lakh. Ties go to the even multiple.
func ApprovedLimitFor(monthlyIncome float64) float64 {
	lakhs := decimal.NewFromFloat(monthlyIncome).
		Mul(decimal.NewFromInt(approvedLimitIncomeMultiple)).
		Div(decimal.NewFromInt(approvedLimitRoundingUnit)).
		RoundBank(0)
	return lakhs.Mul(decimal.NewFromInt(approvedLimitRoundingUnit)).InexactFloat64()
}

func NewCustomer(reg Registration) *Customer {
	return &Customer{
		FirstName:     strings.TrimSpace(reg.FirstName),
		LastName:      strings.TrimSpace(reg.LastName),
		PhoneNumber:   strings.TrimSpace(reg.PhoneNumber),
		Age:           reg.Age,
		MonthlySalary: reg.MonthlyIncome,
		ApprovedLimit: ApprovedLimitFor(reg.MonthlyIncome),
		CurrentDebt:   0,
	}
}
