package finance

import "github.com/shopspring/decimal"

// Payment is one row of a fixed-payment amortization schedule.
type Payment struct {
	Month     int
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}

// Amortizer produces fixed-payment loan schedules. The implementation
// lives outside this core and is consumed as a black box.
type Amortizer interface {
	Schedule(principal, annualRate decimal.Decimal, termMonths int) []Payment
}
