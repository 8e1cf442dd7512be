package dto

import (
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/loan"
)

type LoanTermsRequest struct {
	CustomerID   int64   `json:"customer_id" example:"17"`
	LoanAmount   float64 `json:"loan_amount" example:"100000"`
	InterestRate float64 `json:"interest_rate" example:"10"`
	Tenure       int     `json:"tenure" example:"12"`
}

func (r *LoanTermsRequest) ToLoanRequest() credit.LoanRequest {
	return credit.LoanRequest{
		CustomerID:   r.CustomerID,
		LoanAmount:   r.LoanAmount,
		InterestRate: r.InterestRate,
		Tenure:       r.Tenure,
	}
}

type EligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

func NewEligibilityResponse(q *credit.Quote) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            q.CustomerID,
		Approval:              q.Approved,
		InterestRate:          q.InterestRate,
		CorrectedInterestRate: q.CorrectedInterestRate,
		Tenure:                q.Tenure,
		MonthlyInstallment:    Money(q.MonthlyInstallment),
	}
}

// CreateLoanResponse carries either monthly_installment (approved) or message
// (rejected). loan_id is null on rejection.
type CreateLoanResponse struct {
	LoanID             *int64   `json:"loan_id"`
	CustomerID         int64    `json:"customer_id"`
	LoanApproved       bool     `json:"loan_approved"`
	MonthlyInstallment *float64 `json:"monthly_installment,omitempty"`
	Message            string   `json:"message,omitempty"`
}

func NewCreateLoanResponse(o *credit.LoanOutcome) CreateLoanResponse {
	resp := CreateLoanResponse{
		LoanID:       o.LoanID,
		CustomerID:   o.CustomerID,
		LoanApproved: o.Approved,
		Message:      o.Message,
	}
	if o.Approved {
		emi := Money(o.MonthlyInstallment)
		resp.MonthlyInstallment = &emi
	}
	return resp
}

type LoanDetailResponse struct {
	LoanID             int64            `json:"loan_id"`
	Customer           CustomerResponse `json:"customer"`
	LoanAmount         float64          `json:"loan_amount"`
	InterestRate       float64          `json:"interest_rate"`
	MonthlyInstallment float64          `json:"monthly_installment"`
	Tenure             int              `json:"tenure"`
}

func NewLoanDetailResponse(d *loan.LoanDetails) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID:             d.Loan.LoanID,
		Customer:           NewCustomerResponse(d.Customer),
		LoanAmount:         Money(d.Loan.LoanAmount),
		InterestRate:       d.Loan.InterestRate,
		MonthlyInstallment: Money(d.Loan.MonthlyRepayment),
		Tenure:             d.Loan.Tenure,
	}
}

type LoanSummaryResponse struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func NewLoanSummaryResponses(loans []*loan.Loan) []LoanSummaryResponse {
	resp := make([]LoanSummaryResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, LoanSummaryResponse{
			LoanID:             l.LoanID,
			LoanAmount:         Money(l.LoanAmount),
			InterestRate:       l.InterestRate,
			MonthlyInstallment: Money(l.MonthlyRepayment),
			RepaymentsLeft:     l.RepaymentsLeft(),
		})
	}
	return resp
}

type TrackLoansRequest struct {
	LoanID     *int64 `json:"loan_id,omitempty"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}

func (r *TrackLoansRequest) ToQuery() loan.TrackQuery {
	return loan.TrackQuery{LoanID: r.LoanID, CustomerID: r.CustomerID}
}

type CreditScoreResponse struct {
	CustomerID  int64 `json:"customer_id"`
	CreditScore int   `json:"credit_score"`
	ActiveLoans int   `json:"active_loans"`
	TotalLoans  int   `json:"total_loans"`
}

func NewCreditScoreResponse(r *credit.ScoreReport) CreditScoreResponse {
	return CreditScoreResponse{
		CustomerID:  r.CustomerID,
		CreditScore: r.Score,
		ActiveLoans: r.ActiveLoans,
		TotalLoans:  r.TotalLoans,
	}
}
