package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func (h *CreditHandler) decodeTerms(w http.ResponseWriter, r *http.Request) (*dto.LoanTermsRequest, bool) {
	var req dto.LoanTermsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode loan terms", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return nil, false
	}
	return &req, true
}

// CheckEligibility handles POST /check-eligibility
// @Summary Check loan eligibility
// @Description Scores the customer and quotes the corrected interest rate and monthly installment. Nothing is persisted.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanTermsRequest true "Requested loan terms"
// @Success 200 {object} dto.EligibilityResponse "Eligibility quote"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
func (h *CreditHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTerms(w, r)
	if !ok {
		return
	}

	quote, err := h.service.CheckEligibility(r.Context(), req.ToLoanRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(quote))
}

// CreateLoan handles POST /create-loan
// @Summary Create a loan
// @Description Scores the customer and, when approved, stores a new loan at the corrected interest rate.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.LoanTermsRequest true "Requested loan terms"
// @Success 201 {object} dto.CreateLoanResponse "Loan approved and created"
// @Success 200 {object} dto.CreateLoanResponse "Loan rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
func (h *CreditHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTerms(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.CreateLoan(r.Context(), req.ToLoanRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Approved {
		status = http.StatusCreated
	}
	respondJSON(w, status, dto.NewCreateLoanResponse(outcome))
}

// CreditScore handles GET /credit-score/{customerID}
// @Summary Get a customer's credit score
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CreditScoreResponse "Credit score"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /credit-score/{customerID} [get]
func (h *CreditHandler) CreditScore(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.service.CreditScore(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCreditScoreResponse(report))
}
