package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rakhasp/loan-engine/internal/config"
	"github.com/rakhasp/loan-engine/internal/domain"
	"github.com/rakhasp/loan-engine/internal/repository"
	"github.com/rakhasp/loan-engine/internal/schedule"
	customError "github.com/rakhasp/loan-engine/pkg/errors"
	"github.com/rakhasp/loan-engine/pkg/utils"
)

type LoanService struct {
	LoanRepo        repository.LoanRepository
	InstallmentRepo repository.InstallmentRepository
	txRunner        repository.TxRunner
	redis           *redis.Client
	config          *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	txRunner repository.TxRunner,
	redis *redis.Client,
	config *config.Config,
) *LoanService {
	return &LoanService{
		LoanRepo:        loanRepo,
		InstallmentRepo: installmentRepo,
		txRunner:        txRunner,
		redis:           redis,
		config:          config,
	}
}

// CreateLoan validates the terms, generates the repayment schedule and
// persists the loan together with its installments in one transaction. A
// schedule insert failure rolls the loan row back too; no orphaned loan can
// remain.
func (s *LoanService) CreateLoan(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.Installment, error) {
	lines, err := schedule.Generate(request.Principal, request.InterestRate, request.TermMonths, request.StartDate)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	totalInterest := schedule.TotalInterest(request.Principal, request.InterestRate, request.TermMonths)

	loan := &domain.Loan{
		ID:            uuid.New(),
		CompanyID:     request.CompanyID,
		Principal:     request.Principal.Round(2),
		InterestRate:  request.InterestRate,
		TermMonths:    request.TermMonths,
		StartDate:     request.StartDate,
		TotalInterest: totalInterest,
		TotalAmount:   request.Principal.Round(2).Add(totalInterest),
		Status:        domain.LoanStatusActive,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
	}

	installments := make([]*domain.Installment, 0, len(lines))
	for _, line := range lines {
		installments = append(installments, &domain.Installment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			DueDate:   line.DueDate,
			Amount:    line.Amount,
			Status:    domain.InstallmentStatusUnpaid,
			CreatedAt: now,
		})
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.LoanRepo.Create(ctx, tx, loan); err != nil {
			return err
		}
		return s.InstallmentRepo.CreateBatch(ctx, tx, installments)
	})
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return loan, installments, nil
}

// GetLoan returns a loan by ID.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// ListInstallments returns a loan's installments, earliest due first, serving
// from the Redis cache when it is warm. Display-only: no invariant depends on
// this read, so a cold or broken cache just falls through to the database.
func (s *LoanService) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, installmentCacheKey(loanID)).Result()
		if err == nil {
			var installments []*domain.Installment
			if err := json.Unmarshal([]byte(cached), &installments); err == nil {
				return installments, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("installment cache read failed for loan %s: %v", loanID, err)
		}
	}

	installments, err := s.InstallmentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(installments); err == nil {
			if err := s.redis.Set(ctx, installmentCacheKey(loanID), encoded, s.config.GetCacheTTL()).Err(); err != nil {
				log.Printf("installment cache write failed for loan %s: %v", loanID, err)
			}
		}
	}

	return installments, nil
}

// ListInstallmentsByCompany returns installments across all of a company's
// loans, earliest due first.
func (s *LoanService) ListInstallmentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Installment, error) {
	installments, err := s.InstallmentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return installments, nil
}

// OverdueSnapshot aggregates unpaid installments due before asOf, per loan.
type OverdueSnapshot struct {
	LoanID  uuid.UUID       `json:"loan_id"`
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
	TakenAt time.Time       `json:"taken_at"`
}

// SnapshotOverdue computes per-loan overdue counts and caches them in Redis
// for the reporting layer. Read-only with respect to the ledger: installment
// status is never mutated here.
func (s *LoanService) SnapshotOverdue(ctx context.Context, asOf time.Time) (int, error) {
	overdue, err := s.InstallmentRepo.ListOverdue(ctx, asOf)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	snapshots := make(map[uuid.UUID]*OverdueSnapshot)
	outstanding := decimal.Zero
	for _, installment := range overdue {
		snapshot, ok := snapshots[installment.LoanID]
		if !ok {
			snapshot = &OverdueSnapshot{LoanID: installment.LoanID, TakenAt: asOf}
			snapshots[installment.LoanID] = snapshot
		}
		snapshot.Count++
		snapshot.Amount = snapshot.Amount.Add(installment.Amount)
		outstanding = outstanding.Add(installment.Amount)
	}
	log.Printf("overdue as of %s: %d installment(s) across %d loan(s), %s outstanding",
		asOf.Format(time.DateOnly), len(overdue), len(snapshots), utils.FormatAmount(outstanding))

	if s.redis != nil {
		for loanID, snapshot := range snapshots {
			encoded, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			if err := s.redis.Set(ctx, overdueCacheKey(loanID), encoded, s.config.GetSnapshotTTL()).Err(); err != nil {
				log.Printf("overdue snapshot write failed for loan %s: %v", loanID, err)
			}
		}
	}

	return len(snapshots), nil
}
