package loan

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
)

// LoanDetails is a loan joined with its owning customer.
type LoanDetails struct {
	Loan     *Loan
	Customer *customer.Customer
}

// TrackQuery selects either a single loan or every loan of a customer.
// LoanID wins when both are set, unless it is non-positive and CustomerID is present.
type TrackQuery struct {
	LoanID     *int64
	CustomerID *int64
}

// TrackResult holds Details for a loan lookup and Loans for a customer lookup.
type TrackResult struct {
	Details *LoanDetails
	Loans   []*Loan
}

type LoanService interface {
	GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error)

	Track(ctx context.Context, q TrackQuery) (*TrackResult, error)
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	logger          *slog.Logger
}

func NewLoanService(r Repository, cs customer.CustomerService, logger *slog.Logger) LoanService {
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error) {
	if loanID <= 0 {
		return nil, apperrors.NewValidationError("loan_id", "Loan ID must be positive")
	}

	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to fetch loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}

	cust, err := s.customerService.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch owner of loan", "loanID", loanID, "customerID", l.CustomerID, "error", err)
		return nil, fmt.Errorf("failed to get customer of loan %d: %w", loanID, err)
	}

	return &LoanDetails{Loan: l, Customer: cust}, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]*Loan, error) {
	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to list loans of customer %d: %w", customerID, err)
	}

	s.logger.DebugContext(ctx, "Listed customer loans", "customerID", customerID, "count", len(loans))
	return loans, nil
}

func (s *loanServiceImpl) Track(ctx context.Context, q TrackQuery) (*TrackResult, error) {
	byLoan := q.LoanID != nil && (*q.LoanID > 0 || q.CustomerID == nil)
	switch {
	case byLoan:
		details, err := s.GetLoan(ctx, *q.LoanID)
		if err != nil {
			return nil, err
		}
		return &TrackResult{Details: details}, nil
	case q.CustomerID != nil:
		loans, err := s.ListCustomerLoans(ctx, *q.CustomerID)
		if err != nil {
			return nil, err
		}
		return &TrackResult{Loans: loans}, nil
	default:
		return nil, apperrors.NewValidationError("", "Please provide either loan_id or customer_id")
	}
}
