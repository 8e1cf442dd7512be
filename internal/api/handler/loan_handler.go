package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// ViewLoan retrieves a loan together with its customer.
//
// @Summary View a loan
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loan/{loanID} [get]
func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	details, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(details))
}

// ViewLoans lists every loan of a customer with the repayments left.
//
// @Summary View a customer's loans
// @Tags Loans
// @Produce json
// @Param customerID path int true "Customer ID"
// @Success 200 {array} dto.LoanSummaryResponse "Customer loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loans/{customerID} [get]
func (h *LoanHandler) ViewLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanSummaryResponses(loans))
}

// TrackLoans looks up a single loan or all loans of a customer.
//
// @Summary Track loans
// @Description Returns the loan details when loan_id is given, otherwise the loans of customer_id.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.TrackLoansRequest true "Loan or customer to track"
// @Success 200 {object} dto.LoanDetailResponse "Loan details when loan_id is given"
// @Success 200 {array} dto.LoanSummaryResponse "Customer loans when customer_id is given"
// @Failure 400 {object} dto.ErrorResponse "Neither loan_id nor customer_id given"
// @Failure 404 {object} dto.ErrorResponse "Loan or customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /track-loans [post]
func (h *LoanHandler) TrackLoans(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackLoansRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode track request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	result, err := h.service.Track(r.Context(), req.ToQuery())
	if err != nil {
		respondError(w, err)
		return
	}

	if result.Details != nil {
		respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(result.Details))
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanSummaryResponses(result.Loans))
}
