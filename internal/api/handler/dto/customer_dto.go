package dto

import (
	"credit-approval/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type RegisterCustomerRequest struct {
	FirstName     string  `json:"first_name" example:"Ana"`
	LastName      string  `json:"last_name" example:"Ray"`
	Age           int     `json:"age" example:"34"`
	MonthlyIncome float64 `json:"monthly_income" example:"50000"`
	PhoneNumber   string  `json:"phone_number" example:"9876543210"`
}

func (r *RegisterCustomerRequest) ToRegistration() customer.Registration {
	return customer.Registration{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Age:           r.Age,
		MonthlyIncome: r.MonthlyIncome,
		PhoneNumber:   r.PhoneNumber,
	}
}

type CustomerResponse struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.FullName(),
		Age:           c.Age,
		MonthlyIncome: Money(c.MonthlySalary),
		ApprovedLimit: Money(c.ApprovedLimit),
		PhoneNumber:   c.PhoneNumber,
	}
}

// Money rounds an amount to cents for presentation.
func Money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
