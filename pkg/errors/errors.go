package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")
	ErrNoEligibleInstallments = errors.New("no eligible installments")
	ErrInvalidAmount          = errors.New("invalid amount")
)

// Kind classifies a business error so callers can branch on the failure
// category without matching individual codes.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input, rejected before any write
	KindConflict               // the specific operation conflicts with current state
	KindExhaustion             // the operation found nothing to do
	KindStorage                // database failure, all writes rolled back
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Kind    Kind
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code string, kind Kind, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err if it is a BusinessError, KindStorage otherwise.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindStorage
}

// Error codes
const (
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound    = "INSTALLMENT_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeInstallmentAlreadyPaid = "INSTALLMENT_ALREADY_PAID"
	ErrCodeNoEligibleInstallments = "NO_ELIGIBLE_INSTALLMENTS"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		KindConflict,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		KindConflict,
		fmt.Sprintf("Installment with ID %s not found", installmentID),
		ErrInstallmentNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		KindConflict,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapInstallmentAlreadyPaid(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentAlreadyPaid,
		KindConflict,
		fmt.Sprintf("Installment with ID %s is already paid", installmentID),
		ErrInstallmentAlreadyPaid,
	)
}

func WrapNoEligibleInstallments(target string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoEligibleInstallments,
		KindExhaustion,
		fmt.Sprintf("No unpaid installments could be settled for %s", target),
		ErrNoEligibleInstallments,
	)
}

func WrapValidationError(field, reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		KindValidation,
		fmt.Sprintf("Invalid value for %s: %s", field, reason),
		nil,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		KindStorage,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		KindStorage,
		"cache operation failed",
		err,
	)
}
