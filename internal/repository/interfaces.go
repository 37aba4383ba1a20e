package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rakhasp/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create inserts a new loan inside the caller's transaction
	Create(ctx context.Context, tx Execer, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// CompleteIfActive promotes an active loan to completed; it never touches
	// loans already completed or defaulted
	CompleteIfActive(ctx context.Context, tx Execer, id uuid.UUID) error
}

// InstallmentRepository defines the interface for installment ledger operations
type InstallmentRepository interface {
	// CreateBatch bulk inserts the generated schedule inside the caller's
	// transaction; any row failure aborts the whole batch
	CreateBatch(ctx context.Context, tx Execer, installments []*domain.Installment) error

	// GetByID retrieves an installment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// GetForUpdate retrieves an installment with a row lock inside the
	// caller's transaction
	GetForUpdate(ctx context.Context, tx Getter, id uuid.UUID) (*domain.Installment, error)

	// ListByLoan returns all installments of a loan, earliest due first
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// ListByCompany returns all installments across a company's loans,
	// earliest due first
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Installment, error)

	// ListUnpaidByLoan returns unpaid installments of a loan ordered by due
	// date ascending, locked for update inside the caller's transaction
	ListUnpaidByLoan(ctx context.Context, tx Selecter, loanID uuid.UUID) ([]*domain.Installment, error)

	// ListUnpaidByCompany is ListUnpaidByLoan across every loan of a company
	ListUnpaidByCompany(ctx context.Context, tx Selecter, companyID uuid.UUID) ([]*domain.Installment, error)

	// MarkPaid transitions an installment unpaid -> paid; returns
	// ErrInstallmentAlreadyPaid when the row is not currently unpaid
	MarkPaid(ctx context.Context, tx Execer, id uuid.UUID, paidAt time.Time) error

	// MarkUnpaid reverts an installment to unpaid and clears the paid
	// timestamp; a no-op on an already-unpaid installment
	MarkUnpaid(ctx context.Context, tx Execer, id uuid.UUID) error

	// CountByLoan reports total and unpaid installment counts for a loan
	// using the caller's transaction
	CountByLoan(ctx context.Context, tx Getter, loanID uuid.UUID) (total int, unpaid int, err error)

	// ListOverdue returns unpaid installments due strictly before asOf
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Installment, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create inserts a new payment record inside the caller's transaction
	Create(ctx context.Context, tx Execer, payment *domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// GetForUpdate retrieves a payment with a row lock inside the caller's
	// transaction
	GetForUpdate(ctx context.Context, tx Getter, id uuid.UUID) (*domain.Payment, error)

	// ListByInstallment returns payments recorded against an installment
	ListByInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Payment, error)

	// ListByCompany returns payments across a company's loans
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Payment, error)

	// UpdateMeta rewrites a payment's amount, date and method without
	// touching allocation state
	UpdateMeta(ctx context.Context, payment *domain.Payment) error

	// Delete removes a payment inside the caller's transaction; deleted is
	// false when no row matched
	Delete(ctx context.Context, tx Execer, id uuid.UUID) (deleted bool, err error)
}
