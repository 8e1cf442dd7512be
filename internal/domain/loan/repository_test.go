package loan

import (
	"context"
	"credit-approval/internal/domain/customer"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, loan *Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockRepository) InsertIfAbsent(ctx context.Context, loan *Loan) (bool, error) {
	args := m.Called(ctx, loan)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	var l *Loan
	if v := args.Get(0); v != nil {
		l = v.(*Loan)
	}
	return l, args.Error(1)
}

func (m *MockRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error) {
	args := m.Called(ctx, customerID)
	var loans []*Loan
	if v := args.Get(0); v != nil {
		loans = v.([]*Loan)
	}
	return loans, args.Error(1)
}

func (m *MockRepository) SyncIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, reg customer.Registration) (*customer.Customer, error) {
	args := m.Called(ctx, reg)
	var c *customer.Customer
	if v := args.Get(0); v != nil {
		c = v.(*customer.Customer)
	}
	return c, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	var c *customer.Customer
	if v := args.Get(0); v != nil {
		c = v.(*customer.Customer)
	}
	return c, args.Error(1)
}
