package handler

import (
	"context"
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/batch"
	"credit-approval/internal/ingestion"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const defaultMaxUploadBytes = 32 << 20

// BulkJobRunner starts background bulk ingestions and reports on them.
type BulkJobRunner interface {
	Enqueue(ctx context.Context) (*batch.Job, error)
	Status(ctx context.Context, jobID string) (*batch.Job, error)
}

type IngestionHandler struct {
	service        ingestion.Service
	jobs           BulkJobRunner
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewIngestionHandler(s ingestion.Service, jobs BulkJobRunner, maxUploadBytes int64, l *slog.Logger) *IngestionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &IngestionHandler{
		service:        s,
		jobs:           jobs,
		maxUploadBytes: maxUploadBytes,
		logger:         l.With("component", "IngestionHandler"),
	}
}

// UploadData handles POST /upload-data
// @Summary Upload customer or loan data
// @Description Imports a CSV, XLSX or XLS file. Seven columns are read as customers, nine as loans. Existing records are left untouched.
// @Tags Ingestion
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Data file"
// @Success 200 {object} dto.UploadResponse "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing, unreadable or unsupported file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /upload-data [post]
func (h *IngestionHandler) UploadData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, apperrors.NewValidationError("file", "The uploaded file is too large"))
			return
		}
		h.logger.WarnContext(r.Context(), "Upload without a file", slog.Any("error", err))
		respondError(w, apperrors.NewValidationError("file", "No file provided"))
		return
	}
	defer file.Close()

	summary, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewUploadResponse(summary))
}

// StartBulkIngestion handles POST /ingestion/bulk
// @Summary Start a bulk ingestion
// @Description Imports the configured customer and loan workbooks in the background.
// @Tags Ingestion
// @Produce json
// @Success 202 {object} dto.JobAcceptedResponse "Job queued"
// @Failure 409 {object} dto.ErrorResponse "A bulk ingestion is already running"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ingestion/bulk [post]
func (h *IngestionHandler) StartBulkIngestion(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Enqueue(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Bulk ingestion accepted", slog.String("jobID", job.ID))
	respondJSON(w, http.StatusAccepted, dto.JobAcceptedResponse{JobID: job.ID, Status: string(job.Status)})
}

// GetIngestionJob handles GET /ingestion/jobs/{jobID}
// @Summary Get bulk ingestion status
// @Tags Ingestion
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Job record"
// @Failure 404 {object} dto.ErrorResponse "Ingestion job not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ingestion/jobs/{jobID} [get]
func (h *IngestionHandler) GetIngestionJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Status(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewJobResponse(job))
}
