package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/rakhasp/loan-engine/internal/config"
	"github.com/rakhasp/loan-engine/internal/domain"
	"github.com/rakhasp/loan-engine/internal/repository"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
)

// PaymentService is the payment allocator: it applies single and bulk
// payments against the installment ledger and keeps the parent loan's status
// reconciled, all inside one transaction per request.
type PaymentService struct {
	LoanRepo        repository.LoanRepository
	InstallmentRepo repository.InstallmentRepository
	PaymentRepo     repository.PaymentRepository
	txRunner        repository.TxRunner
	redis           *redis.Client
	config          *config.Config
}

func NewPaymentService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	txRunner repository.TxRunner,
	redis *redis.Client,
	config *config.Config,
) *PaymentService {
	return &PaymentService{
		LoanRepo:        loanRepo,
		InstallmentRepo: installmentRepo,
		PaymentRepo:     paymentRepo,
		txRunner:        txRunner,
		redis:           redis,
		config:          config,
	}
}

// AllocateSingle settles exactly one installment with one payment. The read,
// the payment insert, the status transition and the loan reconciliation share
// a transaction: a concurrent allocation against the same installment loses
// the conditional update and fails with INSTALLMENT_ALREADY_PAID.
func (s *PaymentService) AllocateSingle(ctx context.Context, actor domain.Actor, request *domain.SinglePaymentRequest) (*domain.Payment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapValidationError("amount", "must be greater than zero")
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		InstallmentID: request.InstallmentID,
		Amount:        request.Amount.Round(2),
		PaymentDate:   request.PaymentDate,
		Method:        request.Method,
		CreatedAt:     now,
	}

	var loanID uuid.UUID
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		installment, err := s.InstallmentRepo.GetForUpdate(ctx, tx, request.InstallmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapInstallmentNotFound(request.InstallmentID.String())
			}
			return err
		}
		if installment.IsPaid() {
			return customError.WrapInstallmentAlreadyPaid(installment.ID.String())
		}
		loanID = installment.LoanID

		if err := s.PaymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}
		if err := s.InstallmentRepo.MarkPaid(ctx, tx, installment.ID, now); err != nil {
			if errors.Is(err, customError.ErrInstallmentAlreadyPaid) {
				return customError.WrapInstallmentAlreadyPaid(installment.ID.String())
			}
			return err
		}

		return s.reconcileLoan(ctx, tx, installment.LoanID)
	})
	if err != nil {
		return nil, asEngineError(err)
	}

	invalidateInstallmentCache(ctx, s.redis, loanID)

	return payment, nil
}

// AllocateBulk walks the target's unpaid installments earliest-due-first and
// settles each one in full until the remaining funds no longer cover the next
// installment. A bulk payment never partially settles an installment. All
// inserts, status transitions and reconciliations commit as one unit or not
// at all.
func (s *PaymentService) AllocateBulk(ctx context.Context, actor domain.Actor, request *domain.BulkPaymentRequest) (*domain.BulkPaymentResponse, error) {
	if err := request.ValidateTarget(); err != nil {
		return nil, err
	}
	if !request.TotalAmount.IsPositive() {
		return nil, customError.WrapValidationError("total_amount", "must be greater than zero")
	}

	now := time.Now()
	total := request.TotalAmount.Round(2)
	remaining := total

	var payments []*domain.Payment
	var touchedLoans []uuid.UUID

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var unpaid []*domain.Installment
		var err error
		if request.LoanID != nil {
			unpaid, err = s.InstallmentRepo.ListUnpaidByLoan(ctx, tx, *request.LoanID)
		} else {
			unpaid, err = s.InstallmentRepo.ListUnpaidByCompany(ctx, tx, *request.CompanyID)
		}
		if err != nil {
			return err
		}

		touched := make(map[uuid.UUID]bool)
		for _, installment := range unpaid {
			if remaining.LessThan(installment.Amount) {
				break
			}

			payment := &domain.Payment{
				ID:            uuid.New(),
				InstallmentID: installment.ID,
				Amount:        installment.Amount.Round(2),
				PaymentDate:   request.PaymentDate,
				Method:        request.Method,
				CreatedAt:     now,
			}
			if err := s.PaymentRepo.Create(ctx, tx, payment); err != nil {
				return err
			}
			if err := s.InstallmentRepo.MarkPaid(ctx, tx, installment.ID, now); err != nil {
				if errors.Is(err, customError.ErrInstallmentAlreadyPaid) {
					return customError.WrapInstallmentAlreadyPaid(installment.ID.String())
				}
				return err
			}

			payments = append(payments, payment)
			remaining = remaining.Sub(installment.Amount)
			if !touched[installment.LoanID] {
				touched[installment.LoanID] = true
				touchedLoans = append(touchedLoans, installment.LoanID)
			}
		}

		if len(payments) == 0 {
			return customError.WrapNoEligibleInstallments(request.Target())
		}

		for _, loanID := range touchedLoans {
			if err := s.reconcileLoan(ctx, tx, loanID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asEngineError(err)
	}

	invalidateInstallmentCache(ctx, s.redis, touchedLoans...)

	return &domain.BulkPaymentResponse{
		Payments:  payments,
		Allocated: total.Sub(remaining),
		Remaining: remaining,
	}, nil
}

// ReversePayment deletes a payment and reverts its installment to unpaid in
// one transaction. The loan's status is deliberately left alone: the
// reconciler only promotes active loans to completed after allocations, so a
// completed loan stays completed until something reconciles it again.
func (s *PaymentService) ReversePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) error {
	var loanID uuid.UUID

	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.PaymentRepo.GetForUpdate(ctx, tx, paymentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapPaymentNotFound(paymentID.String())
			}
			return err
		}

		installment, err := s.InstallmentRepo.GetForUpdate(ctx, tx, payment.InstallmentID)
		if err != nil {
			return err
		}
		loanID = installment.LoanID

		deleted, err := s.PaymentRepo.Delete(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !deleted {
			return customError.WrapPaymentNotFound(paymentID.String())
		}

		return s.InstallmentRepo.MarkUnpaid(ctx, tx, installment.ID)
	})
	if err != nil {
		return asEngineError(err)
	}

	invalidateInstallmentCache(ctx, s.redis, loanID)

	return nil
}

// UpdatePayment edits a payment's amount, date or method. Metadata only: it
// never re-runs allocation or reconciliation.
func (s *PaymentService) UpdatePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.Amount != nil {
		if !request.Amount.IsPositive() {
			return nil, customError.WrapValidationError("amount", "must be greater than zero")
		}
		payment.Amount = request.Amount.Round(2)
	}
	if request.PaymentDate != nil {
		payment.PaymentDate = *request.PaymentDate
	}
	if request.Method != nil {
		payment.Method = *request.Method
	}

	if err := s.PaymentRepo.UpdateMeta(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payment, nil
}

// ListPaymentsByInstallment returns payments recorded against an installment.
func (s *PaymentService) ListPaymentsByInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Payment, error) {
	payments, err := s.PaymentRepo.ListByInstallment(ctx, installmentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// ListPaymentsByCompany returns payments across a company's loans.
func (s *PaymentService) ListPaymentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Payment, error) {
	payments, err := s.PaymentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// reconcileLoan derives the loan's lifecycle state from its installments
// inside the caller's transaction: all paid and at least one installment
// means completed. It never demotes completed and never assigns defaulted.
func (s *PaymentService) reconcileLoan(ctx context.Context, tx repository.Tx, loanID uuid.UUID) error {
	total, unpaid, err := s.InstallmentRepo.CountByLoan(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if total == 0 || unpaid > 0 {
		return nil
	}
	return s.LoanRepo.CompleteIfActive(ctx, tx, loanID)
}

// asEngineError passes business errors through untouched and wraps anything
// else as an opaque storage failure.
func asEngineError(err error) error {
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return customError.WrapDatabaseError(err)
}
