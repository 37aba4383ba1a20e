package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rakhasp/loan-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx Execer, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, installment_id, amount, payment_date, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.InstallmentID,
		payment.Amount,
		payment.PaymentDate,
		payment.Method,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, installment_id, amount, payment_date, method, created_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, tx Getter, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, installment_id, amount, payment_date, method, created_at
		FROM payments
		WHERE id = $1
		FOR UPDATE
	`

	var payment domain.Payment
	if err := tx.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) ListByInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, installment_id, amount, payment_date, method, created_at
		FROM payments
		WHERE installment_id = $1
		ORDER BY created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, installmentID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.installment_id, p.amount, p.payment_date, p.method, p.created_at
		FROM payments p
		JOIN installments i ON i.id = p.installment_id
		JOIN loans l ON l.id = i.loan_id
		WHERE l.company_id = $1
		ORDER BY p.created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, companyID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) UpdateMeta(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET amount = $2, payment_date = $3, method = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.Amount,
		payment.PaymentDate,
		payment.Method,
	)

	return err
}

func (r *paymentRepository) Delete(ctx context.Context, tx Execer, id uuid.UUID) (bool, error) {
	query := `
		DELETE FROM payments
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
