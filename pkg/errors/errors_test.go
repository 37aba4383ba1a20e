package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessErrorUnwrap(t *testing.T) {
	err := WrapInstallmentAlreadyPaid("abc")

	assert.True(t, errors.Is(err, ErrInstallmentAlreadyPaid))
	assert.Equal(t, ErrCodeInstallmentAlreadyPaid, err.Code)
	assert.Contains(t, err.Error(), ErrCodeInstallmentAlreadyPaid)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(WrapValidationError("amount", "must be positive")))
	assert.Equal(t, KindConflict, KindOf(WrapLoanNotFound("abc")))
	assert.Equal(t, KindExhaustion, KindOf(WrapNoEligibleInstallments("loan abc")))
	assert.Equal(t, KindStorage, KindOf(errors.New("plain error")))
}

func TestKindOfWrappedChain(t *testing.T) {
	inner := WrapPaymentNotFound("abc")
	outer := errors.Join(errors.New("outer context"), inner)

	assert.Equal(t, KindConflict, KindOf(outer))
}
