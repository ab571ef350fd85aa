package finance

import "github.com/shopspring/decimal"

var (
	three = decimal.NewFromInt(3)
)

// CostInputs lists the cost components of one participant's acquisition.
// Field names follow the legal/accounting vocabulary of the project.
type CostInputs struct {
	PartAchat           decimal.Decimal
	DroitEnregistrement decimal.Decimal
	TravauxCommuns      decimal.Decimal
	Casco               decimal.Decimal
	Parachevements      decimal.Decimal
}

// Total sums every cost component.
func (c CostInputs) Total() decimal.Decimal {
	return c.PartAchat.
		Add(c.DroitEnregistrement).
		Add(c.TravauxCommuns).
		Add(c.Casco).
		Add(c.Parachevements)
}

// Tranches is the two-tranche split of a participant's loan principal.
type Tranches struct {
	First  decimal.Decimal
	Second decimal.Decimal
}

// SplitTranches splits a participant's total cost into two loan tranches:
// the first covers purchase share, registration fees, common works, and a
// third of the shell and finishing costs; the second covers the remaining
// two thirds. The second tranche is derived by subtraction so the two
// always sum exactly to the total.
func SplitTranches(costs CostInputs) Tranches {
	shell := costs.Casco.Add(costs.Parachevements)
	third := shell.Div(three)
	return Tranches{
		First:  costs.PartAchat.Add(costs.DroitEnregistrement).Add(costs.TravauxCommuns).Add(third),
		Second: shell.Sub(third),
	}
}
