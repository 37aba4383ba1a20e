package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/rakhasp/loan-engine/pkg/errors"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodOnline       = "online"
)

// Payment settles exactly one installment in full.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	InstallmentID uuid.UUID       `json:"installment_id" db:"installment_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	Method        string          `json:"method" db:"method"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Single and bulk allocations are distinct typed requests on distinct routes.
// They are never distinguished by sniffing which fields a body happens to carry.

type SinglePaymentRequest struct {
	InstallmentID uuid.UUID       `json:"installment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required,gt=0"`
	PaymentDate   time.Time       `json:"payment_date" validate:"required"`
	Method        string          `json:"method" validate:"required,oneof=cash bank_transfer check online"`
}

// BulkPaymentRequest targets either a single loan or every loan of a company.
// Exactly one of LoanID and CompanyID must be set.
type BulkPaymentRequest struct {
	LoanID      *uuid.UUID      `json:"loan_id,omitempty"`
	CompanyID   *uuid.UUID      `json:"company_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"required,gt=0"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
	Method      string          `json:"method" validate:"required,oneof=cash bank_transfer check online"`
}

func (r *BulkPaymentRequest) ValidateTarget() error {
	if (r.LoanID == nil) == (r.CompanyID == nil) {
		return customError.WrapValidationError("loan_id/company_id", "exactly one target must be set")
	}
	return nil
}

// Target names the loan or company a bulk payment is allocated against.
func (r *BulkPaymentRequest) Target() string {
	if r.LoanID != nil {
		return "loan " + r.LoanID.String()
	}
	if r.CompanyID != nil {
		return "company " + r.CompanyID.String()
	}
	return "unknown target"
}

// UpdatePaymentRequest edits payment metadata only. It never re-runs
// allocation or reconciliation.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	Method      *string          `json:"method,omitempty" validate:"omitempty,oneof=cash bank_transfer check online"`
}

type BulkPaymentResponse struct {
	Payments  []*Payment      `json:"payments"`
	Allocated decimal.Decimal `json:"allocated"`
	Remaining decimal.Decimal `json:"remaining"`
}
