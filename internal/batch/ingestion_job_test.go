package batch_test

import (
	"context"
	"credit-approval/internal/batch"
	"credit-approval/internal/config"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/redisstore"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"credit-approval/internal/pkg/clock"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const lockKey = "credit-approval:lock:bulk-ingestion"

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Upload(ctx context.Context, filename string, r io.Reader) (*ingestion.Summary, error) {
	args := m.Called(ctx, filename, r)
	if s, ok := args.Get(0).(*ingestion.Summary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImporter) ImportBulk(ctx context.Context, dir string) (*ingestion.BulkSummary, error) {
	args := m.Called(ctx, dir)
	if s, ok := args.Get(0).(*ingestion.BulkSummary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishCustomerRegistered(ctx context.Context, e event.CustomerRegisteredEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) PublishLoanApproved(ctx context.Context, e event.LoanApprovedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) PublishIngestionCompleted(ctx context.Context, e event.IngestionCompletedEvent) error {
	return m.Called(ctx, e).Error(0)
}

type fixture struct {
	mr       *miniredis.Miniredis
	importer *MockImporter
	pub      *MockPublisher
	jobs     *redisstore.JobStore
	job      *batch.BulkIngestionJob
}

var now = time.Date(2024, 7, 1, 2, 0, 0, 0, time.UTC)

func setup(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		mr:       mr,
		importer: new(MockImporter),
		pub:      new(MockPublisher),
		jobs:     redisstore.NewJobStore(client, time.Hour, testLogger),
	}
	f.job = batch.NewBulkIngestionJob(
		f.importer,
		redisstore.NewLocker(client, testLogger),
		f.jobs,
		f.pub,
		clock.Fixed(now),
		config.IngestionConfig{DataDir: "/data", LockTTL: time.Minute},
		time.Minute,
		testLogger,
	)
	return f
}

func bulkSummary() *ingestion.BulkSummary {
	return &ingestion.BulkSummary{
		Customers: &ingestion.Summary{Kind: ingestion.KindCustomer, Total: 3, Imported: 3, Created: 3},
		Loans:     &ingestion.Summary{Kind: ingestion.KindLoan, Total: 5, Imported: 4, Created: 4, SkippedCustomerNotFound: 1},
	}
}

func TestBulkIngestionJob_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("success records result and publishes event", func(t *testing.T) {
		f := setup(t)
		f.importer.On("ImportBulk", mock.Anything, "/data").Return(bulkSummary(), nil).Once()
		f.pub.On("PublishIngestionCompleted", mock.Anything, mock.MatchedBy(func(e event.IngestionCompletedEvent) bool {
			return e.Status == "succeeded" && e.CustomersImported == 3 && e.LoansImported == 4 && e.LoansSkipped == 1
		})).Return(nil).Once()

		job, err := f.job.Run(ctx, batch.TriggerCLI)

		require.NoError(t, err)
		assert.Equal(t, batch.JobSucceeded, job.Status)
		assert.Equal(t, batch.TriggerCLI, job.Trigger)
		require.NotNil(t, job.Result)
		assert.Equal(t, "Loan data uploaded successfully. 4 loans imported, 1 skipped (customer not found).", job.Result.LoanMessage)
		assert.False(t, f.mr.Exists(lockKey), "lock must be released")

		stored, err := f.job.Status(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, batch.JobSucceeded, stored.Status)
		assert.Equal(t, now, stored.CreatedAt)
		f.importer.AssertExpectations(t)
		f.pub.AssertExpectations(t)
	})

	t.Run("import failure marks the job failed", func(t *testing.T) {
		f := setup(t)
		f.importer.On("ImportBulk", mock.Anything, "/data").Return(nil, errors.New("open /data/loan_data.xlsx: no such file")).Once()
		f.pub.On("PublishIngestionCompleted", mock.Anything, mock.MatchedBy(func(e event.IngestionCompletedEvent) bool {
			return e.Status == "failed" && e.Error != ""
		})).Return(errors.New("broker down")).Once()

		job, err := f.job.Run(ctx, batch.TriggerSchedule)

		assert.ErrorContains(t, err, "no such file")
		require.NotNil(t, job)
		assert.Equal(t, batch.JobFailed, job.Status)
		assert.Nil(t, job.Result)
		assert.False(t, f.mr.Exists(lockKey))
	})

	t.Run("refuses to overlap a running import", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.mr.Set(lockKey, "someone-else"))

		_, err := f.job.Run(ctx, batch.TriggerCLI)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.importer.AssertNotCalled(t, "ImportBulk", mock.Anything, mock.Anything)
	})
}

func TestBulkIngestionJob_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("returns queued job and completes in background", func(t *testing.T) {
		f := setup(t)
		done := make(chan struct{})
		f.importer.On("ImportBulk", mock.Anything, "/data").Return(bulkSummary(), nil).Once()
		f.pub.On("PublishIngestionCompleted", mock.Anything, mock.Anything).Return(nil).
			Run(func(mock.Arguments) { close(done) }).Once()

		job, err := f.job.Enqueue(ctx)

		require.NoError(t, err)
		assert.Equal(t, batch.JobQueued, job.Status)
		assert.Equal(t, batch.TriggerAPI, job.Trigger)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("background ingestion did not finish")
		}

		assert.Eventually(t, func() bool {
			stored, err := f.job.Status(ctx, job.ID)
			return err == nil && stored.Status == batch.JobSucceeded && !f.mr.Exists(lockKey)
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("conflict is reported synchronously", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.mr.Set(lockKey, "someone-else"))

		_, err := f.job.Enqueue(ctx)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestBulkIngestionJob_Status(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.job.Status(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, batch.ErrJobNotFound)

	_, err = f.job.Status(ctx, "0b7f7a56-2c4f-4d0b-9d8b-1d6f3c1c2a10")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
