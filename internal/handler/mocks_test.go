package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rakhasp/loan-engine/internal/domain"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.Installment, error) {
	args := m.Called(ctx, actor, request)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	var installments []*domain.Installment
	if args.Get(1) != nil {
		installments = args.Get(1).([]*domain.Installment)
	}
	return loan, installments, args.Error(2)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockLoanService) ListInstallmentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) AllocateSingle(ctx context.Context, actor domain.Actor, request *domain.SinglePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, actor, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) AllocateBulk(ctx context.Context, actor domain.Actor, request *domain.BulkPaymentRequest) (*domain.BulkPaymentResponse, error) {
	args := m.Called(ctx, actor, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkPaymentResponse), args.Error(1)
}

func (m *MockPaymentService) ReversePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID) error {
	args := m.Called(ctx, actor, paymentID)
	return args.Error(0)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, actor domain.Actor, paymentID uuid.UUID, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, actor, paymentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPaymentsByInstallment(ctx context.Context, installmentID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPaymentsByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}
