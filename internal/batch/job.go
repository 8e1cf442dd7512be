package batch

import (
	"context"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"time"
)

var ErrJobNotFound = fmt.Errorf("ingestion job %w", apperrors.ErrNotFound)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
)

// Job is the persisted record of one bulk ingestion run.
type Job struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	Trigger    string     `json:"trigger"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Result     *JobResult `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type JobResult struct {
	CustomersImported       int    `json:"customers_imported"`
	CustomersCreated        int    `json:"customers_created"`
	CustomersSkippedInvalid int    `json:"customers_skipped_invalid"`
	LoansImported           int    `json:"loans_imported"`
	LoansCreated            int    `json:"loans_created"`
	LoansSkipped            int    `json:"loans_skipped"`
	LoansCustomerNotFound   int    `json:"loans_customer_not_found"`
	CustomerMessage         string `json:"customer_message"`
	LoanMessage             string `json:"loan_message"`
}

func newJobResult(s *ingestion.BulkSummary) *JobResult {
	return &JobResult{
		CustomersImported:       s.Customers.Imported,
		CustomersCreated:        s.Customers.Created,
		CustomersSkippedInvalid: s.Customers.SkippedInvalid,
		LoansImported:           s.Loans.Imported,
		LoansCreated:            s.Loans.Created,
		LoansSkipped:            s.Loans.Total - s.Loans.Imported,
		LoansCustomerNotFound:   s.Loans.SkippedCustomerNotFound,
		CustomerMessage:         s.Customers.Message(),
		LoanMessage:             s.Loans.Message(),
	}
}

// JobStore persists job records. Get returns ErrJobNotFound for unknown or
// expired ids.
type JobStore interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, jobID string) (*Job, error)
}

// Locker is a lease-based mutual exclusion primitive. TryLock returns a token
// on success and apperrors.ErrConflict when the key is already held.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}
