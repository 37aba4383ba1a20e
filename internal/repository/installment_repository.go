package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rakhasp/loan-engine/internal/domain"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, tx Execer, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, due_date, amount, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, installment := range installments {
		_, err := tx.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.DueDate,
			installment.Amount,
			installment.Status,
			installment.PaidAt,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_at, created_at
		FROM installments
		WHERE id = $1
	`

	var installment domain.Installment
	if err := r.db.GetContext(ctx, &installment, query, id); err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepository) GetForUpdate(ctx context.Context, tx Getter, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_at, created_at
		FROM installments
		WHERE id = $1
		FOR UPDATE
	`

	var installment domain.Installment
	if err := tx.GetContext(ctx, &installment, query, id); err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_at, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY due_date, created_at
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT i.id, i.loan_id, i.due_date, i.amount, i.status, i.paid_at, i.created_at
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		WHERE l.company_id = $1
		ORDER BY i.due_date, i.created_at
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, companyID); err != nil {
		return nil, err
	}

	return installments, nil
}

// Unpaid listings drive bulk allocation: due date ascending is load-bearing,
// and the row locks keep two concurrent bulk payments from settling the same
// installment.

func (r *installmentRepository) ListUnpaidByLoan(ctx context.Context, tx Selecter, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_at, created_at
		FROM installments
		WHERE loan_id = $1 AND status = $2
		ORDER BY due_date, created_at
		FOR UPDATE
	`

	var installments []*domain.Installment
	if err := tx.SelectContext(ctx, &installments, query, loanID, domain.InstallmentStatusUnpaid); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) ListUnpaidByCompany(ctx context.Context, tx Selecter, companyID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT i.id, i.loan_id, i.due_date, i.amount, i.status, i.paid_at, i.created_at
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		WHERE l.company_id = $1 AND i.status = $2
		ORDER BY i.due_date, i.created_at
		FOR UPDATE OF i
	`

	var installments []*domain.Installment
	if err := tx.SelectContext(ctx, &installments, query, companyID, domain.InstallmentStatusUnpaid); err != nil {
		return nil, err
	}

	return installments, nil
}

// MarkPaid relies on the status guard in the WHERE clause: when two
// transactions race on the same installment, the second one matches zero rows
// and gets ErrInstallmentAlreadyPaid instead of double-settling.
func (r *installmentRepository) MarkPaid(ctx context.Context, tx Execer, id uuid.UUID, paidAt time.Time) error {
	query := `
		UPDATE installments
		SET status = $2, paid_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := tx.ExecContext(ctx, query, id, domain.InstallmentStatusPaid, paidAt, domain.InstallmentStatusUnpaid)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrInstallmentAlreadyPaid
	}

	return nil
}

func (r *installmentRepository) MarkUnpaid(ctx context.Context, tx Execer, id uuid.UUID) error {
	query := `
		UPDATE installments
		SET status = $2, paid_at = NULL
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query, id, domain.InstallmentStatusUnpaid)
	return err
}

func (r *installmentRepository) CountByLoan(ctx context.Context, tx Getter, loanID uuid.UUID) (int, int, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status <> $2) AS unpaid
		FROM installments
		WHERE loan_id = $1
	`

	var counts struct {
		Total  int `db:"total"`
		Unpaid int `db:"unpaid"`
	}
	if err := tx.GetContext(ctx, &counts, query, loanID, domain.InstallmentStatusPaid); err != nil {
		return 0, 0, err
	}

	return counts.Total, counts.Unpaid, nil
}

func (r *installmentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_at, created_at
		FROM installments
		WHERE status = $1 AND due_date < $2
		ORDER BY due_date, created_at
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, domain.InstallmentStatusUnpaid, asOf); err != nil {
		return nil, err
	}

	return installments, nil
}
