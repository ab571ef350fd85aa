package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/project"
)

// defaultIndexRate is the compounding factor assumed for years without a
// recorded index rate (2% growth).
var defaultIndexRate = decimal.RequireFromString("1.02")

var (
	decimalOne  = decimal.NewFromInt(1)
	daysPerYear = decimal.NewFromInt(365)
	hoursPerDay = decimal.NewFromInt(24)
)

// rateForYear returns the recorded compounding factor for a calendar year,
// falling back to the 2% default when the year is absent.
func rateForYear(rates []project.IndexRate, year int) decimal.Decimal {
	for _, r := range rates {
		if r.Year == year {
			return r.Rate
		}
	}
	return defaultIndexRate
}

// Indexation returns the cumulative indexation growth between an
// acquisition date and a sale date as a fraction (0.0506 means 5.06%).
//
// One factor compounds per fully elapsed year, keyed by the calendar year
// in which that year of holding starts. The trailing partial year is
// pro-rated linearly (not compounded) against that year's rate.
func Indexation(acqDate, saleDate time.Time, rates []project.IndexRate) decimal.Decimal {
	if !saleDate.After(acqDate) {
		return decimal.Zero
	}

	growth := decimalOne
	cursor := acqDate
	for !cursor.AddDate(1, 0, 0).After(saleDate) {
		growth = growth.Mul(rateForYear(rates, cursor.Year()))
		cursor = cursor.AddDate(1, 0, 0)
	}

	if cursor.Before(saleDate) {
		rate := rateForYear(rates, cursor.Year())
		elapsed := decimal.NewFromFloat(saleDate.Sub(cursor).Hours()).Div(hoursPerDay)
		fraction := elapsed.Div(daysPerYear)
		partial := decimalOne.Add(rate.Sub(decimalOne).Mul(fraction))
		growth = growth.Mul(partial)
	}

	return growth.Sub(decimalOne)
}
