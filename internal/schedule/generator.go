package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/rakhasp/loan-engine/pkg/errors"
	"github.com/rakhasp/loan-engine/pkg/utils"
)

// Line is one generated repayment line before persistence.
type Line struct {
	Sequence int
	Amount   decimal.Decimal
	DueDate  time.Time
}

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Generate produces exactly termMonths lines for a loan. Every line carries
// the same rounded amount computed by InstallmentAmount; the outstanding
// balance is never recomputed per period. Line i (0-indexed) is due i calendar
// months after startDate, month-end dates normalized per time.AddDate.
//
// Generation is all-or-nothing: invalid input is rejected before any line is
// produced.
func Generate(principal decimal.Decimal, annualRatePct decimal.Decimal, termMonths int, startDate time.Time) ([]Line, error) {
	if err := Validate(principal, annualRatePct, termMonths); err != nil {
		return nil, err
	}

	amount := InstallmentAmount(principal, annualRatePct, termMonths)

	lines := make([]Line, 0, termMonths)
	for i := 0; i < termMonths; i++ {
		lines = append(lines, Line{
			Sequence: i + 1,
			Amount:   amount,
			DueDate:  startDate.AddDate(0, i, 0),
		})
	}

	return lines, nil
}

// Validate rejects loan terms the generator cannot amortize.
func Validate(principal decimal.Decimal, annualRatePct decimal.Decimal, termMonths int) error {
	if !principal.IsPositive() {
		return customError.WrapValidationError("principal", "must be greater than zero")
	}
	if annualRatePct.IsNegative() {
		return customError.WrapValidationError("interest_rate", "must not be negative")
	}
	if termMonths < 1 {
		return customError.WrapValidationError("term_months", "must be at least 1")
	}
	return nil
}

// InstallmentAmount computes the uniform per-month payment using the standard
// level-payment annuity formula with monthly rate r = annualRatePct/100/12:
//
//	amount = P*r / (1 - (1+r)^-N)
//
// evaluated as P*r*(1+r)^N / ((1+r)^N - 1) to stay in decimal arithmetic.
// A zero rate degenerates to an even split round2(P/N); N=1 collapses to
// round2(P*(1+r)).
func InstallmentAmount(principal decimal.Decimal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	r := annualRatePct.Div(hundred).Div(twelve)

	if r.IsZero() {
		return utils.Round2(principal.Div(n))
	}

	factor := one.Add(r).Pow(n)
	return utils.Round2(principal.Mul(r).Mul(factor).Div(factor.Sub(one)))
}

// TotalInterest derives the loan's immutable interest total from the schedule:
// N installments of the level amount, less the principal. Floored at zero so
// rounding on tiny loans never yields negative interest.
func TotalInterest(principal decimal.Decimal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	amount := InstallmentAmount(principal, annualRatePct, termMonths)
	interest := utils.Round2(amount.Mul(decimal.NewFromInt(int64(termMonths))).Sub(principal))
	if interest.IsNegative() {
		return decimal.Zero
	}
	return interest
}
