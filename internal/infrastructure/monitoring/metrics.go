package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersRegistered prometheus.Counter
	LoanDecisions       *prometheus.CounterVec
	CreditScores        prometheus.Histogram
	IngestedRows        *prometheus.CounterVec
	IngestionRuns       *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_approval_customers_registered_total",
				Help: "Total number of customers created through registration.",
			},
		),
		LoanDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_loan_decisions_total",
				Help: "Loan decisions by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		CreditScores: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credit_approval_credit_score",
				Help:    "Distribution of computed credit scores.",
				Buckets: []float64{10, 30, 50, 70, 90, 100},
			},
		),
		IngestedRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_ingested_rows_total",
				Help: "Rows processed by the ingestion reconciler, by record kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		IngestionRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_ingestion_runs_total",
				Help: "Ingestion runs by entry point and status.",
			},
			[]string{"source", "status"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// DBStatus maps a query error to the status label used by RecordDBQuery.
func DBStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordCustomerRegistered() {
	Business.CustomersRegistered.Inc()
}

func RecordLoanDecision(operation string, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	Business.LoanDecisions.WithLabelValues(operation, outcome).Inc()
}

func RecordCreditScore(score int) {
	Business.CreditScores.Observe(float64(score))
}

func RecordIngestedRows(kind, outcome string, n int) {
	if n <= 0 {
		return
	}
	Business.IngestedRows.WithLabelValues(kind, outcome).Add(float64(n))
}

func RecordIngestionRun(source, status string) {
	Business.IngestionRuns.WithLabelValues(source, status).Inc()
}
