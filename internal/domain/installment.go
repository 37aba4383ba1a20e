package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business logic constants
const (
	InstallmentStatusUnpaid = "unpaid"
	InstallmentStatusPaid   = "paid"
)

// Installment represents one scheduled repayment line of a loan. Amount is
// fixed at schedule-generation time and never recomputed. Status is the single
// source of truth; the legacy boolean mirror lives only on the response DTO.
type Installment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LoanID    uuid.UUID       `json:"loan_id" db:"loan_id"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	PaidAt    *time.Time      `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// InstallmentResponse carries the boolean paid projection that older
// consumers of the API still read.
type InstallmentResponse struct {
	ID      uuid.UUID       `json:"id"`
	LoanID  uuid.UUID       `json:"loan_id"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	Paid    bool            `json:"paid"`
	PaidAt  *time.Time      `json:"paid_at,omitempty"`
}

func (i *Installment) ToResponse() *InstallmentResponse {
	return &InstallmentResponse{
		ID:      i.ID,
		LoanID:  i.LoanID,
		DueDate: i.DueDate,
		Amount:  i.Amount,
		Status:  i.Status,
		Paid:    i.IsPaid(),
		PaidAt:  i.PaidAt,
	}
}

// InstallmentResponses converts a slice preserving order.
func InstallmentResponses(installments []*Installment) []*InstallmentResponse {
	out := make([]*InstallmentResponse, 0, len(installments))
	for _, installment := range installments {
		out = append(out, installment.ToResponse())
	}
	return out
}
