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

type PaymentHandler struct {
	service   PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreatePayment handles POST /api/v1/payments (single allocation)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var request domain.SinglePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid payment", err)
		return
	}

	payment, err := h.service.AllocateSingle(r.Context(), actor, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, payment)
}

// CreateBulkPayment handles POST /api/v1/payments/bulk
func (h *PaymentHandler) CreateBulkPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var request domain.BulkPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid bulk payment", err)
		return
	}

	result, err := h.service.AllocateBulk(r.Context(), actor, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, result)
}

// UpdatePayment handles PATCH /api/v1/payments/{paymentId}
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	paymentID, err := parsePathUUID(mux.Vars(r)["paymentId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("paymentId", "must be a valid UUID"))
		return
	}

	var request domain.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid payment update", err)
		return
	}

	payment, err := h.service.UpdatePayment(r.Context(), actor, paymentID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payment)
}

// DeletePayment handles DELETE /api/v1/payments/{paymentId} (reversal)
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	paymentID, err := parsePathUUID(mux.Vars(r)["paymentId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("paymentId", "must be a valid UUID"))
		return
	}

	if err := h.service.ReversePayment(r.Context(), actor, paymentID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": paymentID.String()})
}

// ListPaymentsByInstallment handles GET /api/v1/installments/{installmentId}/payments
func (h *PaymentHandler) ListPaymentsByInstallment(w http.ResponseWriter, r *http.Request) {
	installmentID, err := parsePathUUID(mux.Vars(r)["installmentId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("installmentId", "must be a valid UUID"))
		return
	}

	payments, err := h.service.ListPaymentsByInstallment(r.Context(), installmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}

// ListPaymentsByCompany handles GET /api/v1/companies/{companyId}/payments
func (h *PaymentHandler) ListPaymentsByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parsePathUUID(mux.Vars(r)["companyId"])
	if err != nil {
		writeError(w, customError.WrapValidationError("companyId", "must be a valid UUID"))
		return
	}

	payments, err := h.service.ListPaymentsByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}
