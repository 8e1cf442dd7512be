package dto

import (
	"credit-approval/internal/batch"
	"credit-approval/internal/ingestion"
	"time"
)

type SkippedRowResponse struct {
	Line    int    `json:"line"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

type UploadResponse struct {
	Message                 string               `json:"message"`
	Kind                    string               `json:"kind"`
	Total                   int                  `json:"total"`
	Imported                int                  `json:"imported"`
	Created                 int                  `json:"created"`
	Existing                int                  `json:"existing"`
	Skipped                 int                  `json:"skipped"`
	SkippedInvalid          int                  `json:"skipped_invalid"`
	SkippedCustomerNotFound int                  `json:"skipped_customer_not_found"`
	SkippedStoreError       int                  `json:"skipped_store_error"`
	SkippedRows             []SkippedRowResponse `json:"skipped_rows"`
}

func NewUploadResponse(s *ingestion.Summary) UploadResponse {
	skipped := s.Skipped()
	rows := make([]SkippedRowResponse, 0, len(skipped))
	for _, r := range skipped {
		rows = append(rows, SkippedRowResponse{Line: r.Line, Outcome: string(r.Outcome), Reason: r.Reason})
	}

	return UploadResponse{
		Message:                 s.Message(),
		Kind:                    s.Kind.String(),
		Total:                   s.Total,
		Imported:                s.Imported,
		Created:                 s.Created,
		Existing:                s.Existing,
		Skipped:                 len(skipped),
		SkippedInvalid:          s.SkippedInvalid,
		SkippedCustomerNotFound: s.SkippedCustomerNotFound,
		SkippedStoreError:       s.SkippedStoreError,
		SkippedRows:             rows,
	}
}

type JobAcceptedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobResponse struct {
	JobID      string           `json:"job_id"`
	Status     string           `json:"status"`
	Trigger    string           `json:"trigger"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Result     *batch.JobResult `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func NewJobResponse(j *batch.Job) JobResponse {
	return JobResponse{
		JobID:      j.ID,
		Status:     string(j.Status),
		Trigger:    j.Trigger,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		Result:     j.Result,
		Error:      j.Error,
	}
}
