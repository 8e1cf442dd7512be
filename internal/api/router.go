package api

import (
	"credit-approval/internal/api/handler"
	mw "credit-approval/internal/api/middleware"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/ingestion"
	"log/slog"
	"net/http"
	"time"

	_ "credit-approval/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const requestTimeout = 60 * time.Second

// Services bundles what the HTTP layer dispatches to.
type Services struct {
	Customers customer.CustomerService
	Credit    credit.CreditService
	Loans     loan.LoanService
	Ingestion ingestion.Service
	BulkJobs  handler.BulkJobRunner
}

func SetupRouter(services Services, rateLimiter *mw.RateLimiter, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupCustomerRoutes(router, services, logger)
	setupLoanRoutes(router, services, logger)
	setupIngestionRoutes(router, services, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiter, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(router chi.Router, services Services, logger *slog.Logger) {
	customerHandler := handler.NewCustomerHandler(services.Customers, logger)
	creditHandler := handler.NewCreditHandler(services.Credit, logger)

	router.Post("/register", customerHandler.Register)
	router.Get("/credit-score/{customerID}", creditHandler.CreditScore)
}

func setupLoanRoutes(router chi.Router, services Services, logger *slog.Logger) {
	creditHandler := handler.NewCreditHandler(services.Credit, logger)
	loanHandler := handler.NewLoanHandler(services.Loans, logger)

	router.Post("/check-eligibility", creditHandler.CheckEligibility)
	router.Post("/create-loan", creditHandler.CreateLoan)
	router.Get("/view-loan/{loanID}", loanHandler.ViewLoan)
	router.Get("/view-loans/{customerID}", loanHandler.ViewLoans)
	router.Post("/track-loans", loanHandler.TrackLoans)
}

func setupIngestionRoutes(router chi.Router, services Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewIngestionHandler(services.Ingestion, services.BulkJobs, cfg.Ingestion.MaxUploadBytes, logger)

	router.Post("/upload-data", h.UploadData)
	router.Route("/ingestion", func(r chi.Router) {
		r.Post("/bulk", h.StartBulkIngestion)
		r.Get("/jobs/{jobID}", h.GetIngestionJob)
	})
}
