package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rakhasp/loan-engine/internal/domain"
	"github.com/rakhasp/loan-engine/internal/handler"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
)

func paymentRouter(svc handler.PaymentService) *mux.Router {
	h := handler.NewPaymentHandler(svc)
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/bulk", h.CreateBulkPayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/{paymentId}", h.UpdatePayment).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{paymentId}", h.DeletePayment).Methods(http.MethodDelete)
	api.HandleFunc("/installments/{installmentId}/payments", h.ListPaymentsByInstallment).Methods(http.MethodGet)
	api.HandleFunc("/companies/{companyId}/payments", h.ListPaymentsByCompany).Methods(http.MethodGet)
	return router
}

func TestCreatePaymentHandler(t *testing.T) {
	installmentID := uuid.New()
	body := map[string]interface{}{
		"installment_id": installmentID.String(),
		"amount":         444.24,
		"payment_date":   "2024-04-01T00:00:00Z",
		"method":         "bank_transfer",
	}

	t.Run("Success - 201", func(t *testing.T) {
		svc := &MockPaymentService{}
		payment := &domain.Payment{ID: uuid.New(), InstallmentID: installmentID, Amount: decimal.NewFromFloat(444.24)}
		svc.On("AllocateSingle", mock.Anything, mock.Anything, mock.MatchedBy(func(r *domain.SinglePaymentRequest) bool {
			return r.InstallmentID == installmentID && r.Method == domain.PaymentMethodBankTransfer
		})).Return(payment, nil)

		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - 409 with code when installment already paid", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("AllocateSingle", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, customError.WrapInstallmentAlreadyPaid(installmentID.String()))

		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var envelope struct {
			Code string `json:"code"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, customError.ErrCodeInstallmentAlreadyPaid, envelope.Code)
	})

	t.Run("Failure - 404 when installment unknown", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("AllocateSingle", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, customError.WrapInstallmentNotFound(installmentID.String()))

		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Failure - 400 on unknown method", func(t *testing.T) {
		svc := &MockPaymentService{}

		invalid := map[string]interface{}{
			"installment_id": installmentID.String(),
			"amount":         100,
			"payment_date":   "2024-04-01T00:00:00Z",
			"method":         "barter",
		}
		encoded, _ := json.Marshal(invalid)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "AllocateSingle", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreateBulkPaymentHandler(t *testing.T) {
	loanID := uuid.New()

	t.Run("Success - 201 with allocation summary", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("AllocateBulk", mock.Anything, mock.Anything, mock.MatchedBy(func(r *domain.BulkPaymentRequest) bool {
			return r.LoanID != nil && *r.LoanID == loanID && r.CompanyID == nil
		})).Return(&domain.BulkPaymentResponse{
			Payments:  []*domain.Payment{{ID: uuid.New()}},
			Allocated: decimal.NewFromInt(500),
			Remaining: decimal.NewFromInt(200),
		}, nil)

		body := map[string]interface{}{
			"loan_id":      loanID.String(),
			"total_amount": 700,
			"payment_date": "2024-04-01T00:00:00Z",
			"method":       "cash",
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/bulk", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var envelope struct {
			Data domain.BulkPaymentResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.True(t, envelope.Data.Remaining.Equal(decimal.NewFromInt(200)))
	})

	t.Run("Failure - 409 when nothing can be settled", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("AllocateBulk", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, customError.WrapNoEligibleInstallments("loan "+loanID.String()))

		body := map[string]interface{}{
			"loan_id":      loanID.String(),
			"total_amount": 50,
			"payment_date": "2024-04-01T00:00:00Z",
			"method":       "cash",
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/bulk", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var envelope struct {
			Code string `json:"code"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, customError.ErrCodeNoEligibleInstallments, envelope.Code)
	})

	t.Run("Failure - 400 when both targets set", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("AllocateBulk", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, customError.WrapValidationError("loan_id/company_id", "exactly one target must be set"))

		body := map[string]interface{}{
			"loan_id":      loanID.String(),
			"company_id":   uuid.NewString(),
			"total_amount": 700,
			"payment_date": "2024-04-01T00:00:00Z",
			"method":       "cash",
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/bulk", bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeletePaymentHandler(t *testing.T) {
	t.Run("Success - reversal returns deleted id", func(t *testing.T) {
		svc := &MockPaymentService{}
		paymentID := uuid.New()
		svc.On("ReversePayment", mock.Anything, mock.Anything, paymentID).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), nil)
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data map[string]string `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, paymentID.String(), envelope.Data["deleted"])
	})

	t.Run("Failure - 404 on double reversal", func(t *testing.T) {
		svc := &MockPaymentService{}
		paymentID := uuid.New()
		svc.On("ReversePayment", mock.Anything, mock.Anything, paymentID).
			Return(customError.WrapPaymentNotFound(paymentID.String()))

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), nil)
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Failure - 401 without identity headers", func(t *testing.T) {
		svc := &MockPaymentService{}

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "ReversePayment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdatePaymentHandler(t *testing.T) {
	paymentID := uuid.New()

	t.Run("Success - PATCH updates metadata", func(t *testing.T) {
		svc := &MockPaymentService{}
		updated := &domain.Payment{ID: paymentID, Amount: decimal.NewFromFloat(450.75), Method: domain.PaymentMethodCheck}
		svc.On("UpdatePayment", mock.Anything, mock.Anything, paymentID, mock.MatchedBy(func(r *domain.UpdatePaymentRequest) bool {
			return r.Amount != nil && r.Method != nil && *r.Method == domain.PaymentMethodCheck
		})).Return(updated, nil)

		body := map[string]interface{}{
			"amount": 450.75,
			"method": "check",
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/payments/"+paymentID.String(), bytes.NewReader(encoded))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - 400 on malformed payment id", func(t *testing.T) {
		svc := &MockPaymentService{}

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/payments/not-a-uuid", bytes.NewReader([]byte("{}")))
		authHeaders(req)
		rec := httptest.NewRecorder()

		paymentRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListPaymentsByInstallmentHandler(t *testing.T) {
	svc := &MockPaymentService{}
	installmentID := uuid.New()
	svc.On("ListPaymentsByInstallment", mock.Anything, installmentID).Return([]*domain.Payment{
		{ID: uuid.New(), InstallmentID: installmentID, Amount: decimal.NewFromInt(500)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/"+installmentID.String()+"/payments", nil)
	rec := httptest.NewRecorder()

	paymentRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []*domain.Payment `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
}
