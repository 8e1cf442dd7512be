package ingestion

import (
	"context"
	"credit-approval/internal/config"
	"credit-approval/internal/infrastructure/monitoring"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	SourceUpload = "upload"
	SourceBulk   = "bulk"

	defaultCustomerFile = "customer_data.xlsx"
	defaultLoanFile     = "loan_data.xlsx"
)

type BulkSummary struct {
	Customers *Summary
	Loans     *Summary
}

type Service interface {
	// Upload reconciles a single uploaded table whose record kind is inferred
	// from the header width.
	Upload(ctx context.Context, filename string, r io.Reader) (*Summary, error)

	// ImportBulk reconciles the customer workbook and then the loan workbook
	// found in dir. An empty dir means the configured data directory.
	ImportBulk(ctx context.Context, dir string) (*BulkSummary, error)
}

var _ Service = (*service)(nil)

type service struct {
	reconciler *Reconciler
	customers  CustomerStore
	loans      LoanStore
	cfg        config.IngestionConfig
	logger     *slog.Logger
}

func NewService(customers CustomerStore, loans LoanStore, cfg config.IngestionConfig, logger *slog.Logger) Service {
	if customers == nil || loans == nil {
		panic("ingestion stores cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if cfg.CustomerFile == "" {
		cfg.CustomerFile = defaultCustomerFile
	}
	if cfg.LoanFile == "" {
		cfg.LoanFile = defaultLoanFile
	}

	return &service{
		reconciler: NewReconciler(customers, loans, logger),
		customers:  customers,
		loans:      loans,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "ingestionService")),
	}
}

func (s *service) Upload(ctx context.Context, filename string, r io.Reader) (*Summary, error) {
	log := s.logger.With(slog.String("filename", filepath.Base(filename)))
	log.InfoContext(ctx, "Processing uploaded data file")

	table, err := ReadTable(filename, r)
	if err != nil {
		log.WarnContext(ctx, "Uploaded file rejected", slog.Any("error", err))
		monitoring.RecordIngestionRun(SourceUpload, "rejected")
		return nil, err
	}

	kind, err := InferKind(len(table.Header))
	if err != nil {
		log.WarnContext(ctx, "Uploaded file has an unknown layout", slog.Int("columns", len(table.Header)))
		monitoring.RecordIngestionRun(SourceUpload, "rejected")
		return nil, err
	}

	summary, err := s.reconciler.Reconcile(ctx, kind, table.Rows)
	if err != nil {
		monitoring.RecordIngestionRun(SourceUpload, "failed")
		return nil, fmt.Errorf("failed to reconcile %s rows: %w", kind, err)
	}

	if err := s.syncSequences(ctx, summary.Created > 0); err != nil {
		monitoring.RecordIngestionRun(SourceUpload, "failed")
		return nil, err
	}

	monitoring.RecordIngestionRun(SourceUpload, "succeeded")
	log.InfoContext(ctx, "Uploaded data file processed", slog.String("kind", kind.String()), slog.String("summary", summary.Message()))
	return summary, nil
}

func (s *service) ImportBulk(ctx context.Context, dir string) (*BulkSummary, error) {
	if dir == "" {
		dir = s.cfg.DataDir
	}
	log := s.logger.With(slog.String("dir", dir))
	log.InfoContext(ctx, "Starting bulk ingestion")

	customers, err := s.importFile(ctx, filepath.Join(dir, s.cfg.CustomerFile), KindCustomer)
	if err != nil {
		monitoring.RecordIngestionRun(SourceBulk, "failed")
		return nil, err
	}
	loans, err := s.importFile(ctx, filepath.Join(dir, s.cfg.LoanFile), KindLoan)
	if err != nil {
		monitoring.RecordIngestionRun(SourceBulk, "failed")
		return nil, err
	}

	if err := s.syncSequences(ctx, customers.Created > 0 || loans.Created > 0); err != nil {
		monitoring.RecordIngestionRun(SourceBulk, "failed")
		return nil, err
	}

	monitoring.RecordIngestionRun(SourceBulk, "succeeded")
	log.InfoContext(ctx, "Bulk ingestion finished",
		slog.Int("customersImported", customers.Imported),
		slog.Int("loansImported", loans.Imported),
		slog.Int("loansSkipped", loans.Total-loans.Imported),
	)
	return &BulkSummary{Customers: customers, Loans: loans}, nil
}

func (s *service) importFile(ctx context.Context, path string, kind RecordKind) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		s.logger.ErrorContext(ctx, "Cannot open bulk data file", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("failed to open %s data file: %w", kind, err)
	}
	defer f.Close()

	table, err := ReadTable(path, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s data file %s: %w", kind, filepath.Base(path), err)
	}

	summary, err := s.reconciler.Reconcile(ctx, kind, table.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile %s rows: %w", kind, err)
	}
	return summary, nil
}

// syncSequences moves both id generators past imported ids so later
// registrations and approvals cannot collide with them.
func (s *service) syncSequences(ctx context.Context, changed bool) error {
	if !changed {
		return nil
	}
	if err := s.customers.SyncIDSequence(ctx); err != nil {
		return fmt.Errorf("failed to sync customer ids: %w", err)
	}
	if err := s.loans.SyncIDSequence(ctx); err != nil {
		return fmt.Errorf("failed to sync loan ids: %w", err)
	}
	return nil
}
