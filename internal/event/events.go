package event

import "time"

type CustomerRegisteredEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	CustomerID    int64     `json:"customerId"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	MonthlySalary float64   `json:"monthlySalary"`
	ApprovedLimit float64   `json:"approvedLimit"`
}

type LoanApprovedEvent struct {
	Timestamp          time.Time `json:"timestamp"`
	LoanID             int64     `json:"loanId"`
	CustomerID         int64     `json:"customerId"`
	LoanAmount         float64   `json:"loanAmount"`
	InterestRate       float64   `json:"interestRate"`
	Tenure             int       `json:"tenure"`
	MonthlyInstallment float64   `json:"monthlyInstallment"`
	CreditScore        int       `json:"creditScore"`
}

type IngestionCompletedEvent struct {
	Timestamp         time.Time `json:"timestamp"`
	JobID             string    `json:"jobId"`
	Status            string    `json:"status"`
	CustomersImported int       `json:"customersImported"`
	LoansImported     int       `json:"loansImported"`
	LoansSkipped      int       `json:"loansSkipped"`
	Error             string    `json:"error,omitempty"`
}
