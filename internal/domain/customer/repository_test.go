package customer

import (
	"context"
	"credit-approval/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, customer *Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockRepository) InsertIfAbsent(ctx context.Context, customer *Customer) (bool, error) {
	args := m.Called(ctx, customer)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	args := m.Called(ctx, customerID)
	var c *Customer
	if v := args.Get(0); v != nil {
		c = v.(*Customer)
	}
	return c, args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SyncIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCustomerRegistered(ctx context.Context, e event.CustomerRegisteredEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLoanApproved(ctx context.Context, e event.LoanApprovedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishIngestionCompleted(ctx context.Context, e event.IngestionCompletedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
