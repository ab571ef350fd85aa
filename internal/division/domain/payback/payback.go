// Package payback prorates copropriété sale proceeds among eligible
// participants. The canonical rule distributes by owned surface among
// founders; the historical tenure-based rule is kept as a separately
// named alternative.
package payback

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/project"
)

// avgDaysPerMonth is the average month length used by the tenure-based
// rule. The carrying-cost calculator uses a fixed 30-day month instead;
// the two conventions are intentionally distinct.
var avgDaysPerMonth = decimal.RequireFromString("30.44")

var hoursPerDay = decimal.NewFromInt(24)

// Entry is one participant payback for one copropriété sale.
type Entry struct {
	SaleID   string
	LotID    string
	SaleDate time.Time
	Share    decimal.Decimal
	Amount   decimal.Decimal
}

// entryDateOf resolves a participant's effective entry date. Founders with
// no recorded entry date are treated as entering at the deed.
func entryDateOf(p project.Participant, deedDate *time.Time) time.Time {
	if p.EntryDate.IsZero() && p.Founder && deedDate != nil {
		return *deedDate
	}
	return p.EntryDate
}

// eligibleBySurface reports whether a participant shares in a sale under
/// the surface-based rule: founders only, entered strictly before the sale.
func eligibleBySurface(p project.Participant, saleDate time.Time, deedDate *time.Time) bool {
	if !p.Founder {
		return false
	}
	entry := entryDateOf(p, deedDate)
	return !entry.IsZero() && entry.Before(saleDate)
}

// BySurface returns one payback entry per copropriété sale the participant
// is eligible for, in sale order.
//
// Each sale is evaluated against its own eligible-set snapshot: a
// participant entering between two sales changes later snapshots but not
// earlier ones. Share = owned surface / total surface of that sale's
// eligible founders; a degenerate zero total yields share 0, never an
// error.
func BySurface(p project.Participant, sales []project.Sale, participants []project.Participant, lots []project.Lot, deedDate *time.Time) []Entry {
	var entries []Entry
	for _, sale := range sales {
		if sale.Type != project.SaleTypeCopro {
			continue
		}
		if !eligibleBySurface(p, sale.SaleDate, deedDate) {
			continue
		}

		totalSurface := decimal.Zero
		for _, other := range participants {
			if eligibleBySurface(other, sale.SaleDate, deedDate) {
				totalSurface = totalSurface.Add(ownedSurface(other.ID, lots))
			}
		}

		share := decimal.Zero
		if !totalSurface.IsZero() {
			share = ownedSurface(p.ID, lots).Div(totalSurface)
		}
		entries = append(entries, Entry{
			SaleID:   sale.ID,
			LotID:    sale.LotID,
			SaleDate: sale.SaleDate,
			Share:    share,
			Amount:   sale.Amount.Mul(share),
		})
	}
	return entries
}

// ByTenure is the historical alternative rule: shares are proportional to
// months in the project (30.44-day average months), and eligibility is
// open to founders and newcomers who entered strictly before the sale.
// Founder tenure counts from the deed date at the earliest.
func ByTenure(p project.Participant, sales []project.Sale, participants []project.Participant, deedDate *time.Time) []Entry {
	var entries []Entry
	for _, sale := range sales {
		if sale.Type != project.SaleTypeCopro {
			continue
		}
		if !eligibleByTenure(p, sale.SaleDate, deedDate) {
			continue
		}

		totalMonths := decimal.Zero
		for _, other := range participants {
			if eligibleByTenure(other, sale.SaleDate, deedDate) {
				totalMonths = totalMonths.Add(tenureMonths(other, sale.SaleDate, deedDate))
			}
		}

		share := decimal.Zero
		if !totalMonths.IsZero() {
			share = tenureMonths(p, sale.SaleDate, deedDate).Div(totalMonths)
		}
		entries = append(entries, Entry{
			SaleID:   sale.ID,
			LotID:    sale.LotID,
			SaleDate: sale.SaleDate,
			Share:    share,
			Amount:   sale.Amount.Mul(share),
		})
	}
	return entries
}

func eligibleByTenure(p project.Participant, saleDate time.Time, deedDate *time.Time) bool {
	entry := entryDateOf(p, deedDate)
	return !entry.IsZero() && entry.Before(saleDate)
}

// tenureMonths measures a participant's time in the project up to a sale,
// in 30.44-day months. Founder tenure starts no earlier than the deed.
func tenureMonths(p project.Participant, saleDate time.Time, deedDate *time.Time) decimal.Decimal {
	start := entryDateOf(p, deedDate)
	if deedDate != nil && start.Before(*deedDate) {
		start = *deedDate
	}
	if !saleDate.After(start) {
		return decimal.Zero
	}
	days := decimal.NewFromFloat(saleDate.Sub(start).Hours()).Div(hoursPerDay)
	return days.Div(avgDaysPerMonth)
}

func ownedSurface(participantID string, lots []project.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.Owner == participantID {
			total = total.Add(l.Surface)
		}
	}
	return total
}
