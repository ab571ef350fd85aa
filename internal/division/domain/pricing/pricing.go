// Package pricing classifies pending sales into their legal/financial
// regime and computes the corresponding price breakdown.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/finance"
	"github.com/creditcastor/division/internal/division/domain/project"
)

var (
	// ErrUnknownLot indicates a sale referencing a lot absent from the
	// project.
	ErrUnknownLot = errors.New("unknown lot")
	// ErrApprovalMissing indicates a classic sale completed without a
	// recorded buyer approval.
	ErrApprovalMissing = errors.New("classic sale requires a recorded buyer approval")
)

// gen1CompensationRate rewards founders for first-generation risk: 10% of
// the base cost per square meter.
var gen1CompensationRate = decimal.RequireFromString("0.10")

// classicCapRate is the legal cap against speculative resale: acquisition
// cost plus 10%.
var classicCapRate = decimal.RequireFromString("1.10")

// Classify determines the sale regime for a lot and seller: a founder lot
// held for portage sells as portage, a lot sold by the copropriété entity
// sells as copro, and everything else is a classic resale.
func Classify(ctx project.Context, lotID, sellerID string) (project.SaleType, error) {
	lot, ok := ctx.LotByID(lotID)
	if !ok {
		return "", fmt.Errorf("classify sale for lot %q: %w", lotID, ErrUnknownLot)
	}
	if lot.HeldForPortage && lot.Origin == project.LotOriginFounder {
		return project.SaleTypePortage, nil
	}
	if sellerID == ctx.CoproEntityID {
		return project.SaleTypeCopro, nil
	}
	return project.SaleTypeClassic, nil
}

// PortageOptions selects the optional portage price add-ons.
type PortageOptions struct {
	WithIndexation bool
	RenovationCost decimal.Decimal
}

// PortagePrice computes the cost-recovery price of a portage resale: the
// holder recovers exactly its documented expenses, not a market price.
func PortagePrice(ctx project.Context, lot project.Lot, saleDate time.Time, opts PortageOptions) (project.PortageBreakdown, error) {
	if lot.Acquisition == nil {
		return project.PortageBreakdown{}, fmt.Errorf("portage price for lot %s: %w", lot.ID, finance.ErrNoAcquisition)
	}

	carrying, err := finance.ComputeCarryingCosts(ctx, lot, saleDate)
	if err != nil {
		return project.PortageBreakdown{}, err
	}

	acq := *lot.Acquisition
	breakdown := project.PortageBreakdown{
		BaseCost:             acq.PurchaseShare.Add(acq.ConstructionCost),
		CarryingCosts:        carrying.Total,
		RegistrationRecovery: acq.RegistrationFees,
		SharedCostRecovery:   acq.SharedCostShare,
		IndexationAddOn:      decimal.Zero,
		RenovationAddOn:      opts.RenovationCost,
	}
	if opts.WithIndexation {
		growth := finance.Indexation(acq.Date, saleDate, ctx.IndexRates)
		breakdown.IndexationAddOn = breakdown.BaseCost.Mul(growth)
	}
	breakdown.Total = breakdown.BaseCost.
		Add(breakdown.CarryingCosts).
		Add(breakdown.RegistrationRecovery).
		Add(breakdown.SharedCostRecovery).
		Add(breakdown.IndexationAddOn).
		Add(breakdown.RenovationAddOn)
	return breakdown, nil
}

// CoproPrice computes the per-square-meter price of a copropriété sale,
// including the first-generation compensation term.
func CoproPrice(ctx project.Context, lot project.Lot) project.CoproBreakdown {
	base := ctx.Constants.BaseCostPerSqm
	compensation := base.Mul(gen1CompensationRate)
	return project.CoproBreakdown{
		BaseCostPerSqm:     base,
		CompensationPerSqm: compensation,
		Surface:            lot.Surface,
		Total:              base.Add(compensation).Mul(lot.Surface),
	}
}

// ClassicPrice caps a proposed private resale price at the acquisition
// cost plus 10%.
func ClassicPrice(lot project.Lot, proposedPrice decimal.Decimal) (project.ClassicBreakdown, error) {
	if lot.Acquisition == nil {
		return project.ClassicBreakdown{}, fmt.Errorf("classic price for lot %s: %w", lot.ID, finance.ErrNoAcquisition)
	}

	acquisitionCost := lot.Acquisition.TotalCost
	cap := acquisitionCost.Mul(classicCapRate)
	final := proposedPrice
	if final.GreaterThan(cap) {
		final = cap
	}
	return project.ClassicBreakdown{
		ProposedPrice:   proposedPrice,
		AcquisitionCost: acquisitionCost,
		PriceCap:        cap,
		FinalPrice:      final,
	}, nil
}

// Price computes the full sale record for a pending sale. The returned
// sale carries the regime-specific breakdown; the caller assigns its ID
// before appending it to the history.
func Price(ctx project.Context, pending project.PendingSale) (project.Sale, error) {
	lot, ok := ctx.LotByID(pending.LotID)
	if !ok {
		return project.Sale{}, fmt.Errorf("price sale for lot %q: %w", pending.LotID, ErrUnknownLot)
	}

	sale := project.Sale{
		Type:     pending.Type,
		LotID:    pending.LotID,
		SellerID: pending.SellerID,
		BuyerID:  pending.BuyerID,
		SaleDate: pending.SaleDate,
	}

	switch pending.Type {
	case project.SaleTypePortage:
		breakdown, err := PortagePrice(ctx, lot, pending.SaleDate, PortageOptions{
			WithIndexation: pending.WithIndexation,
			RenovationCost: pending.RenovationCost,
		})
		if err != nil {
			return project.Sale{}, err
		}
		sale.Portage = &breakdown
		sale.Amount = breakdown.Total

	case project.SaleTypeCopro:
		breakdown := CoproPrice(ctx, lot)
		sale.Copro = &breakdown
		sale.Amount = breakdown.Total

	case project.SaleTypeClassic:
		if pending.Approval == nil || !pending.Approval.Approved {
			return project.Sale{}, fmt.Errorf("complete sale for lot %s: %w", lot.ID, ErrApprovalMissing)
		}
		breakdown, err := ClassicPrice(lot, pending.ProposedPrice)
		if err != nil {
			return project.Sale{}, err
		}
		approval := *pending.Approval
		sale.Classic = &breakdown
		sale.Approval = &approval
		sale.Amount = breakdown.FinalPrice

	default:
		return project.Sale{}, fmt.Errorf("unknown sale type %q", pending.Type)
	}

	return sale, nil
}
