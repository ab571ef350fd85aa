package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/project"
)

// ErrNoAcquisition indicates a carrying-cost computation for a lot without
// an acquisition record. This is an invariant violation, never defaulted.
var ErrNoAcquisition = errors.New("lot has no acquisition record")

var (
	daysPerMonth  = decimal.NewFromInt(30)
	monthsPerYear = decimal.NewFromInt(12)
)

// CarryingCosts itemizes the monthly holding expenses of a lot and their
// total over the holding interval.
type CarryingCosts struct {
	MonthlyLoanInterest  decimal.Decimal
	MonthlyPropertyTax   decimal.Decimal
	MonthlyInsurance     decimal.Decimal
	MonthlySyndicFee     decimal.Decimal
	MonthlyCommonCharges decimal.Decimal
	MonthsHeld           decimal.Decimal
	Total                decimal.Decimal
}

// Quotite returns a participant's fractional ownership share of the total
// building surface. A project without surface yields 0.
func Quotite(ctx project.Context, participantID string) decimal.Decimal {
	total := ctx.TotalSurface()
	if total.IsZero() {
		return decimal.Zero
	}
	return ctx.OwnedSurface(participantID).Div(total)
}

// ComputeCarryingCosts calculates the holding expenses of a lot between
// its acquisition date and a sale date.
//
// Months held use the project's fixed 30-day month approximation. Monthly
// loan interest sums amount x rate / 12 over the owner's loans. Insurance
// scales by the owner's quotité; tax, syndic fee, and common charges are
// flat monthly constants.
func ComputeCarryingCosts(ctx project.Context, lot project.Lot, saleDate time.Time) (CarryingCosts, error) {
	if lot.Acquisition == nil {
		return CarryingCosts{}, fmt.Errorf("lot %s: %w", lot.ID, ErrNoAcquisition)
	}

	months := decimal.Zero
	if saleDate.After(lot.Acquisition.Date) {
		days := decimal.NewFromFloat(saleDate.Sub(lot.Acquisition.Date).Hours()).Div(hoursPerDay)
		months = days.Div(daysPerMonth)
	}

	interest := decimal.Zero
	if owner, ok := ctx.ParticipantByID(lot.Owner); ok {
		for _, loan := range owner.Loans {
			interest = interest.Add(loan.Amount.Mul(loan.AnnualRate).Div(monthsPerYear))
		}
	}

	costs := CarryingCosts{
		MonthlyLoanInterest:  interest,
		MonthlyPropertyTax:   ctx.Constants.PropertyTaxMonthly,
		MonthlyInsurance:     ctx.Constants.InsuranceMonthly.Mul(Quotite(ctx, lot.Owner)),
		MonthlySyndicFee:     ctx.Constants.SyndicFeeMonthly,
		MonthlyCommonCharges: ctx.Constants.CommonChargesMonthly,
		MonthsHeld:           months,
	}
	monthly := costs.MonthlyLoanInterest.
		Add(costs.MonthlyPropertyTax).
		Add(costs.MonthlyInsurance).
		Add(costs.MonthlySyndicFee).
		Add(costs.MonthlyCommonCharges)
	costs.Total = monthly.Mul(months)
	return costs, nil
}
