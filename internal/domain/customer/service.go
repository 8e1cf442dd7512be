package customer

import (
	"context"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"credit-approval/internal/pkg/clock"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type CustomerService interface {
	Register(ctx context.Context, reg Registration) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewCustomerService(repo Repository, pub event.EventPublisher, clk clock.Clock, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NopPublisher{}
	}
	if clk == nil {
		clk = clock.System()
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		clock:  clk,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func validateRegistration(reg Registration) error {
	if strings.TrimSpace(reg.FirstName) == "" {
		return apperrors.NewValidationError("first_name", "First name cannot be empty")
	}
	if strings.TrimSpace(reg.LastName) == "" {
		return apperrors.NewValidationError("last_name", "Last name cannot be empty")
	}
	if reg.Age < MinimumAge {
		return apperrors.NewValidationError("age", "Age must be at least 18")
	}
	if reg.MonthlyIncome <= 0 {
		return apperrors.NewValidationError("monthly_income", "Monthly income must be positive")
	}
	if strings.TrimSpace(reg.PhoneNumber) == "" {
		return apperrors.NewValidationError("phone_number", "Phone number cannot be empty")
	}
	return nil
}

func (s *customerService) Register(ctx context.Context, reg Registration) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register customer")

	if err := validateRegistration(reg); err != nil {
		s.logger.WarnContext(ctx, "Registration rejected", slog.Any("error", err))
		return nil, err
	}

	cust := NewCustomer(reg)
	if err := s.repo.Create(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	log := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	monitoring.RecordCustomerRegistered()

	registered := event.CustomerRegisteredEvent{
		Timestamp:     s.clock.Now(),
		CustomerID:    cust.CustomerID,
		Name:          cust.FullName(),
		Age:           cust.Age,
		MonthlySalary: cust.MonthlySalary,
		ApprovedLimit: cust.ApprovedLimit,
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, registered); pubErr != nil {
		log.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", pubErr))
	}

	log.InfoContext(ctx, "Successfully registered customer", slog.Float64("approvedLimit", cust.ApprovedLimit))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))

	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customer_id", "Customer ID must be positive")
	}

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "Customer not found by repository")
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}
