package credit

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"credit-approval/internal/pkg/clock"
	"fmt"
	"log/slog"
)

type LoanRequest struct {
	CustomerID   int64
	LoanAmount   loan.Money
	InterestRate float64
	Tenure       int
}

// Quote is the answer to an eligibility check. Nothing is persisted.
type Quote struct {
	CustomerID            int64
	Approved              bool
	InterestRate          float64
	CorrectedInterestRate float64
	Tenure                int
	MonthlyInstallment    loan.Money
	CreditScore           int
}

// LoanOutcome is the result of a creation attempt. LoanID is nil when the
// request was rejected.
type LoanOutcome struct {
	LoanID             *int64
	CustomerID         int64
	Approved           bool
	InterestRate       float64
	MonthlyInstallment loan.Money
	Message            string
	CreditScore        int
}

type ScoreReport struct {
	CustomerID  int64
	Score       int
	ActiveLoans int
	TotalLoans  int
}

type CreditService interface {
	CheckEligibility(ctx context.Context, req LoanRequest) (*Quote, error)
	CreateLoan(ctx context.Context, req LoanRequest) (*LoanOutcome, error)
	CreditScore(ctx context.Context, customerID int64) (*ScoreReport, error)
}

var _ CreditService = (*creditService)(nil)

type creditService struct {
	customers customer.CustomerService
	loans     loan.Repository
	pub       event.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewCreditService(cs customer.CustomerService, loans loan.Repository, pub event.EventPublisher, clk clock.Clock, logger *slog.Logger) CreditService {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	if clk == nil {
		clk = clock.System()
	}
	return &creditService{
		customers: cs,
		loans:     loans,
		pub:       pub,
		clock:     clk,
		logger:    logger.With(slog.String("component", "creditService")),
	}
}

// maxInterestRate is the largest rate the loans.interest_rate column holds.
const maxInterestRate = 999.99

func validateRequest(req LoanRequest) error {
	switch {
	case req.CustomerID <= 0:
		return apperrors.NewValidationError("customer_id", "Customer ID must be positive")
	case req.LoanAmount <= 0:
		return apperrors.NewValidationError("loan_amount", "Loan amount must be positive")
	case req.InterestRate < 0:
		return apperrors.NewValidationError("interest_rate", "Interest rate cannot be negative")
	case req.InterestRate > maxInterestRate:
		return apperrors.NewValidationError("interest_rate", "Interest rate cannot exceed 999.99")
	case req.Tenure <= 0:
		return apperrors.NewValidationError("tenure", "Tenure must be positive")
	}
	return nil
}

type assessment struct {
	customer *customer.Customer
	loans    []*loan.Loan
	score    int
	decision Decision
}

func (s *creditService) assess(ctx context.Context, customerID int64, requestedRate float64) (*assessment, error) {
	cust, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loans.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan history", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to load loan history for customer %d: %w", customerID, err)
	}

	score := Score(cust, loans, s.clock.Now())
	monitoring.RecordCreditScore(score)

	return &assessment{
		customer: cust,
		loans:    loans,
		score:    score,
		decision: Decide(score, requestedRate),
	}, nil
}

func (s *creditService) CheckEligibility(ctx context.Context, req LoanRequest) (*Quote, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	a, err := s.assess(ctx, req.CustomerID, req.InterestRate)
	if err != nil {
		return nil, err
	}

	emi, err := loan.CalculateEMI(req.LoanAmount, a.decision.CorrectedRate, req.Tenure)
	if err != nil {
		return nil, err
	}

	monitoring.RecordLoanDecision("eligibility", a.decision.Approved)
	s.logger.InfoContext(ctx, "Eligibility checked",
		"customerID", req.CustomerID,
		"score", a.score,
		"approved", a.decision.Approved,
		"correctedRate", a.decision.CorrectedRate,
	)

	return &Quote{
		CustomerID:            req.CustomerID,
		Approved:              a.decision.Approved,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: a.decision.CorrectedRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    loan.RoundMoney(emi),
		CreditScore:           a.score,
	}, nil
}

func (s *creditService) CreateLoan(ctx context.Context, req LoanRequest) (*LoanOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	a, err := s.assess(ctx, req.CustomerID, req.InterestRate)
	if err != nil {
		return nil, err
	}
	log := s.logger.With("customerID", req.CustomerID, "score", a.score)

	monitoring.RecordLoanDecision("create", a.decision.Approved)
	if !a.decision.Approved {
		log.InfoContext(ctx, "Loan rejected", "reason", a.decision.Reason)
		return &LoanOutcome{
			CustomerID:   req.CustomerID,
			Approved:     false,
			InterestRate: req.InterestRate,
			Message:      a.decision.Reason,
			CreditScore:  a.score,
		}, nil
	}

	emi, err := loan.CalculateEMI(req.LoanAmount, a.decision.CorrectedRate, req.Tenure)
	if err != nil {
		return nil, err
	}

	newLoan, err := loan.NewLoan(req.CustomerID, req.LoanAmount, a.decision.CorrectedRate, req.Tenure, emi, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}
	if err := s.loans.Create(ctx, newLoan); err != nil {
		log.ErrorContext(ctx, "Failed to persist approved loan", "error", err)
		return nil, fmt.Errorf("failed to save approved loan: %w", err)
	}
	log = log.With("loanID", newLoan.LoanID)

	approved := event.LoanApprovedEvent{
		Timestamp:          s.clock.Now(),
		LoanID:             newLoan.LoanID,
		CustomerID:         newLoan.CustomerID,
		LoanAmount:         newLoan.LoanAmount,
		InterestRate:       newLoan.InterestRate,
		Tenure:             newLoan.Tenure,
		MonthlyInstallment: newLoan.MonthlyRepayment,
		CreditScore:        a.score,
	}
	if pubErr := s.pub.PublishLoanApproved(ctx, approved); pubErr != nil {
		log.ErrorContext(ctx, "Loan created, but FAILED to publish approval event", slog.Any("error", pubErr))
	}

	log.InfoContext(ctx, "Loan approved and created", "correctedRate", a.decision.CorrectedRate)

	loanID := newLoan.LoanID
	return &LoanOutcome{
		LoanID:             &loanID,
		CustomerID:         req.CustomerID,
		Approved:           true,
		InterestRate:       a.decision.CorrectedRate,
		MonthlyInstallment: newLoan.MonthlyRepayment,
		CreditScore:        a.score,
	}, nil
}

func (s *creditService) CreditScore(ctx context.Context, customerID int64) (*ScoreReport, error) {
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customer_id", "Customer ID must be positive")
	}

	a, err := s.assess(ctx, customerID, 0)
	if err != nil {
		return nil, err
	}

	return &ScoreReport{
		CustomerID:  customerID,
		Score:       a.score,
		ActiveLoans: CountActive(a.loans),
		TotalLoans:  len(a.loans),
	}, nil
}
