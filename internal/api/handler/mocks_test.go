package handler

import (
	"bytes"
	"context"
	"credit-approval/internal/batch"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/ingestion"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, reg customer.Registration) (*customer.Customer, error) {
	args := m.Called(ctx, reg)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) CheckEligibility(ctx context.Context, req credit.LoanRequest) (*credit.Quote, error) {
	args := m.Called(ctx, req)
	if q, ok := args.Get(0).(*credit.Quote); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditService) CreateLoan(ctx context.Context, req credit.LoanRequest) (*credit.LoanOutcome, error) {
	args := m.Called(ctx, req)
	if o, ok := args.Get(0).(*credit.LoanOutcome); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditService) CreditScore(ctx context.Context, customerID int64) (*credit.ScoreReport, error) {
	args := m.Called(ctx, customerID)
	if r, ok := args.Get(0).(*credit.ScoreReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.LoanDetails, error) {
	args := m.Called(ctx, loanID)
	if d, ok := args.Get(0).(*loan.LoanDetails); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	args := m.Called(ctx, customerID)
	if l, ok := args.Get(0).([]*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) Track(ctx context.Context, q loan.TrackQuery) (*loan.TrackResult, error) {
	args := m.Called(ctx, q)
	if r, ok := args.Get(0).(*loan.TrackResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Upload(ctx context.Context, filename string, r io.Reader) (*ingestion.Summary, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, filename, string(body))
	if s, ok := args.Get(0).(*ingestion.Summary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIngestionService) ImportBulk(ctx context.Context, dir string) (*ingestion.BulkSummary, error) {
	args := m.Called(ctx, dir)
	if s, ok := args.Get(0).(*ingestion.BulkSummary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBulkJobRunner struct {
	mock.Mock
}

func (m *MockBulkJobRunner) Enqueue(ctx context.Context) (*batch.Job, error) {
	args := m.Called(ctx)
	if j, ok := args.Get(0).(*batch.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBulkJobRunner) Status(ctx context.Context, jobID string) (*batch.Job, error) {
	args := m.Called(ctx, jobID)
	if j, ok := args.Get(0).(*batch.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
