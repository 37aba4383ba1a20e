package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakhasp/loan-engine/internal/domain"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
	"github.com/rakhasp/loan-engine/pkg/response"
)

// LoanService is the loan-facing surface of the engine consumed by handlers.
type LoanService interface {
	CreateLoan(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.Installment, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)
	ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)
	ListInstallmentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Installment, error)
}

// PaymentService is the payment-facing surface of the engine.
type PaymentService interface {
	AllocateSingle(ctx context.Context, actor domain.Actor, request *domain.SinglePaymentRequest) (*domain.Payment, error)
	AllocateBulk(ctx context.Context, actor domain.Actor, request *domain.BulkPaymentRequest) (*domain.BulkPaymentResponse, error)
	ReversePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) error
	UpdatePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, request *domain.UpdatePaymentRequest) (*domain.Payment, error)
	ListPaymentsByInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Payment, error)
	ListPaymentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Payment, error)
}

// newValidator registers a decimal.Decimal type func so the builtin gt/gte
// tags apply to monetary fields.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// actorFromRequest builds the request-scoped identity from headers set by the
// upstream auth layer. The engine never reads ambient auth state.
func actorFromRequest(r *http.Request) (domain.Actor, error) {
	userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		return domain.Actor{}, errors.New("missing or malformed X-User-ID header")
	}
	return domain.Actor{
		UserID: userID,
		Role:   r.Header.Get("X-User-Role"),
	}, nil
}

// writeError maps the engine's error taxonomy onto HTTP statuses. Storage
// failures stay opaque.
func writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "internal error", nil)
		return
	}

	switch businessErr.Kind {
	case customError.KindValidation:
		response.ErrorWithCode(w, http.StatusBadRequest, businessErr.Code, businessErr.Message, businessErr.Err)
	case customError.KindConflict:
		switch businessErr.Code {
		case customError.ErrCodeLoanNotFound,
			customError.ErrCodeInstallmentNotFound,
			customError.ErrCodePaymentNotFound:
			response.NotFound(w, businessErr.Message)
		default:
			response.Conflict(w, businessErr.Code, businessErr.Message)
		}
	case customError.KindExhaustion:
		response.Conflict(w, businessErr.Code, businessErr.Message)
	default:
		response.InternalServerError(w, "internal error", nil)
	}
}

func parsePathUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}
