package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rakhasp/loan-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, tx Execer, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, company_id, principal, interest_rate, term_months, start_date, total_interest, total_amount, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.ExecContext(ctx, query,
		loan.ID,
		loan.CompanyID,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.StartDate,
		loan.TotalInterest,
		loan.TotalAmount,
		loan.Status,
		loan.CreatedBy,
		loan.CreatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, company_id, principal, interest_rate, term_months, start_date, total_interest, total_amount, status, created_by, created_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

// CompleteIfActive is the reconciler's only write. The status guard keeps it
// idempotent and prevents touching defaulted or already-completed loans.
func (r *loanRepository) CompleteIfActive(ctx context.Context, tx Execer, id uuid.UUID) error {
	query := `
		UPDATE loans
		SET status = $2
		WHERE id = $1 AND status = $3
	`

	_, err := tx.ExecContext(ctx, query, id, domain.LoanStatusCompleted, domain.LoanStatusActive)
	return err
}
