package batch

import (
	"context"
	"credit-approval/internal/config"
	"credit-approval/internal/event"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/clock"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	BulkIngestionLockKey = "bulk-ingestion"

	defaultLockTTL    = 15 * time.Minute
	defaultJobTimeout = 10 * time.Minute
	unlockTimeout     = 5 * time.Second
)

// BulkIngestionJob runs the fixed-name workbook import under a distributed
// lock and keeps a status record per run.
type BulkIngestionJob struct {
	importer ingestion.Service
	locker   Locker
	jobs     JobStore
	pub      event.EventPublisher
	clock    clock.Clock
	dataDir  string
	lockTTL  time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewBulkIngestionJob(
	importer ingestion.Service,
	locker Locker,
	jobs JobStore,
	pub event.EventPublisher,
	clk clock.Clock,
	cfg config.IngestionConfig,
	timeout time.Duration,
	logger *slog.Logger,
) *BulkIngestionJob {
	if importer == nil || locker == nil || jobs == nil || logger == nil {
		panic("BulkIngestionJob dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NopPublisher{}
	}
	if clk == nil {
		clk = clock.System()
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	return &BulkIngestionJob{
		importer: importer,
		locker:   locker,
		jobs:     jobs,
		pub:      pub,
		clock:    clk,
		dataDir:  cfg.DataDir,
		lockTTL:  lockTTL,
		timeout:  timeout,
		logger:   logger.With("job", "BulkIngestion"),
	}
}

// Run performs a bulk ingestion synchronously. It fails with
// apperrors.ErrConflict when another run holds the lock.
func (j *BulkIngestionJob) Run(ctx context.Context, trigger string) (*Job, error) {
	token, err := j.locker.TryLock(ctx, BulkIngestionLockKey, j.lockTTL)
	if err != nil {
		j.logger.WarnContext(ctx, "Bulk ingestion not started", slog.String("trigger", trigger), slog.Any("error", err))
		return nil, err
	}

	job := j.newJob(trigger)
	if err := j.jobs.Save(ctx, job); err != nil {
		j.unlock(ctx, token)
		return nil, err
	}

	err = j.execute(ctx, job, token)
	return job, err
}

// Enqueue takes the lock, records a queued job and runs it in the background
// with its own timeout. The returned job reflects the queued state.
func (j *BulkIngestionJob) Enqueue(ctx context.Context) (*Job, error) {
	token, err := j.locker.TryLock(ctx, BulkIngestionLockKey, j.lockTTL)
	if err != nil {
		return nil, err
	}

	job := j.newJob(TriggerAPI)
	if err := j.jobs.Save(ctx, job); err != nil {
		j.unlock(ctx, token)
		return nil, err
	}
	queued := *job

	go func() {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), j.timeout)
		defer cancel()
		if err := j.execute(runCtx, job, token); err != nil {
			j.logger.ErrorContext(runCtx, "Background bulk ingestion failed", slog.String("jobID", job.ID), slog.Any("error", err))
		}
	}()

	j.logger.InfoContext(ctx, "Bulk ingestion queued", slog.String("jobID", job.ID))
	return &queued, nil
}

func (j *BulkIngestionJob) Status(ctx context.Context, jobID string) (*Job, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, ErrJobNotFound
	}
	return j.jobs.Get(ctx, jobID)
}

// RunScheduled is the cron entry point.
func (j *BulkIngestionJob) RunScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.logger.Info("Cron triggered: running bulk ingestion job.")
	if _, err := j.Run(ctx, TriggerSchedule); err != nil {
		j.logger.Error("Scheduled bulk ingestion finished with error", slog.Any("error", err))
		return
	}
	j.logger.Info("Scheduled bulk ingestion finished successfully.")
}

func (j *BulkIngestionJob) newJob(trigger string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		Trigger:   trigger,
		CreatedAt: j.clock.Now(),
	}
}

func (j *BulkIngestionJob) execute(ctx context.Context, job *Job, token string) error {
	defer j.unlock(ctx, token)

	log := j.logger.With(slog.String("jobID", job.ID), slog.String("trigger", job.Trigger))
	startTime := time.Now()

	started := j.clock.Now()
	job.Status = JobRunning
	job.StartedAt = &started
	if err := j.jobs.Save(ctx, job); err != nil {
		log.WarnContext(ctx, "Failed to record job start", slog.Any("error", err))
	}
	log.InfoContext(ctx, "Starting bulk ingestion job.")

	summary, runErr := j.importer.ImportBulk(ctx, j.dataDir)

	finished := j.clock.Now()
	job.FinishedAt = &finished
	if runErr != nil {
		job.Status = JobFailed
		job.Error = runErr.Error()
	} else {
		job.Status = JobSucceeded
		job.Result = newJobResult(summary)
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()
	if err := j.jobs.Save(saveCtx, job); err != nil {
		log.ErrorContext(ctx, "Failed to record job outcome", slog.Any("error", err))
	}
	j.publishCompleted(saveCtx, job)

	if runErr != nil {
		log.ErrorContext(ctx, "Bulk ingestion job failed.", slog.Duration("duration", time.Since(startTime)), slog.Any("error", runErr))
		return fmt.Errorf("bulk ingestion job %s failed: %w", job.ID, runErr)
	}
	log.InfoContext(ctx, "Bulk ingestion job finished.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_imported", job.Result.CustomersImported),
		slog.Int("loans_imported", job.Result.LoansImported),
		slog.Int("loans_skipped", job.Result.LoansSkipped),
	)
	return nil
}

func (j *BulkIngestionJob) publishCompleted(ctx context.Context, job *Job) {
	completed := event.IngestionCompletedEvent{
		Timestamp: j.clock.Now(),
		JobID:     job.ID,
		Status:    string(job.Status),
		Error:     job.Error,
	}
	if job.Result != nil {
		completed.CustomersImported = job.Result.CustomersImported
		completed.LoansImported = job.Result.LoansImported
		completed.LoansSkipped = job.Result.LoansSkipped
	}
	if err := j.pub.PublishIngestionCompleted(ctx, completed); err != nil {
		j.logger.ErrorContext(ctx, "Failed to publish ingestion completed event", slog.String("jobID", job.ID), slog.Any("error", err))
	}
}

func (j *BulkIngestionJob) unlock(ctx context.Context, token string) {
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()
	if err := j.locker.Unlock(unlockCtx, BulkIngestionLockKey, token); err != nil {
		j.logger.WarnContext(ctx, "Failed to release bulk ingestion lock", slog.Any("error", err))
	}
}
