package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rakhasp/loan-engine/internal/domain"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
	"github.com/rakhasp/loan-engine/pkg/response"
)

type LoanHandler struct {
	service   LoanService
	validator *validator.Validate
}

func NewLoanHandler(service LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid loan terms", err)
		return
	}

	loan, installments, err := h.service.CreateLoan(r.Context(), actor, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{
		Loan:         loan,
		Installments: domain.InstallmentResponses(installments),
	})
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := parsePathUUID(mux.Vars(r)["loanId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("loanId", "must be a valid UUID"))
		return
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// ListInstallments handles GET /api/v1/loans/{loanId}/installments
func (h *LoanHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	loanID, err := parsePathUUID(mux.Vars(r)["loanId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("loanId", "must be a valid UUID"))
		return
	}

	installments, err := h.service.ListInstallments(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.InstallmentResponses(installments))
}

// ListInstallmentsByCompany handles GET /api/v1/companies/{companyId}/installments
func (h *LoanHandler) ListInstallmentsByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parsePathUUID(mux.Vars(r)["companyId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("companyId", "must be a valid UUID"))
		return
	}

	installments, err := h.service.ListInstallmentsByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, domain.InstallmentResponses(installments))
}
