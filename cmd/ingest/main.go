// Command ingest runs the bulk customer and loan import once and exits.
package main

import (
	"context"
	"credit-approval/internal/batch"
	"credit-approval/internal/config"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/database/postgres"
	"credit-approval/internal/infrastructure/logging"
	"credit-approval/internal/infrastructure/redisstore"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/clock"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	configPath string
	migrate    bool
}

func parseFlags(args []string) (*options, *pflag.FlagSet, error) {
	flags := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	opts := &options{}
	flags.StringVar(&opts.configPath, "config", ".", "directory containing config.yml")
	flags.BoolVar(&opts.migrate, "migrate", false, "apply database migrations before importing")
	flags.String("dir", "", "directory holding the customer and loan workbooks (overrides ingestion.dataDir)")
	flags.String("customer-file", "", "customer workbook name (overrides ingestion.customerFile)")
	flags.String("loan-file", "", "loan workbook name (overrides ingestion.loanFile)")

	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, flags, nil
}

func bindOverrides(flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"ingestion.dataDir":      "dir",
		"ingestion.customerFile": "customer-file",
		"ingestion.loanFile":     "loan-file",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Bulk ingestion failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, flags, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := bindOverrides(flags); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if opts.migrate || cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	customerRepo := postgres.NewCustomerRepository(pool, logger)
	loanRepo := postgres.NewLoanRepository(pool, logger)

	job := batch.NewBulkIngestionJob(
		ingestion.NewService(customerRepo, loanRepo, cfg.Ingestion, logger),
		redisstore.NewLocker(redisClient, logger),
		redisstore.NewJobStore(redisClient, cfg.Ingestion.JobTTL, logger),
		event.NopPublisher{},
		clock.System(),
		cfg.Ingestion,
		cfg.Batch.BulkIngestionTimeout,
		logger,
	)

	if cfg.Batch.BulkIngestionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.BulkIngestionTimeout)
		defer cancel()
	}

	result, err := job.Run(ctx, batch.TriggerCLI)
	if err != nil {
		return err
	}

	logger.Info("Bulk ingestion finished", slog.String("jobID", result.ID), slog.String("status", string(result.Status)))
	if result.Result != nil {
		fmt.Println(result.Result.CustomerMessage)
		fmt.Println(result.Result.LoanMessage)
	}
	if result.Status == batch.JobFailed {
		return fmt.Errorf("job %s failed: %s", result.ID, result.Error)
	}
	return nil
}
