package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLoanDecision(t *testing.T) {
	Business.LoanDecisions.Reset()

	RecordLoanDecision("create", true)
	RecordLoanDecision("create", false)
	RecordLoanDecision("create", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(Business.LoanDecisions.WithLabelValues("create", "approved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(Business.LoanDecisions.WithLabelValues("create", "rejected")))
}

func TestRecordIngestedRowsIgnoresZero(t *testing.T) {
	Business.IngestedRows.Reset()

	RecordIngestedRows("loan", "created", 0)
	RecordIngestedRows("loan", "created", 3)

	assert.Equal(t, 3.0, testutil.ToFloat64(Business.IngestedRows.WithLabelValues("loan", "created")))
	assert.Equal(t, 1, testutil.CollectAndCount(Business.IngestedRows))
}

func TestRecordDBQuery(t *testing.T) {
	DB.QueryDuration.Reset()

	RecordDBQuery("FindLoanByID", DBStatus(nil), 5*time.Millisecond)
	RecordDBQuery("FindLoanByID", DBStatus(errors.New("boom")), time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(DB.QueryDuration))
}
