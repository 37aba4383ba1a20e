package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
	LoanStatusDefaulted = "defaulted"
)

// Loan represents a loan entity. All fields except Status are immutable after
// creation; Status is mutated only inside the engine's transactions.
type Loan struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CompanyID     uuid.UUID       `json:"company_id" db:"company_id"`
	Principal     decimal.Decimal `json:"principal" db:"principal"`
	InterestRate  decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TermMonths    int             `json:"term_months" db:"term_months"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	TotalInterest decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status        string          `json:"status" db:"status"`
	CreatedBy     uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Actor is the request-scoped identity performing an engine operation. It is
// always passed explicitly; the engine never reads ambient auth state. Role
// enforcement happens in the calling layer.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CompanyID    uuid.UUID       `json:"company_id" validate:"required"`
	Principal    decimal.Decimal `json:"principal" validate:"required,gt=0"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0"`
	TermMonths   int             `json:"term_months" validate:"required,gte=1"`
	StartDate    time.Time       `json:"start_date" validate:"required"`
}

type CreateLoanResponse struct {
	Loan         *Loan                  `json:"loan"`
	Installments []*InstallmentResponse `json:"installments"`
}
