package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotOrigin identifies whether a lot was apportioned to a founder or is
// owned by the copropriété entity.
type LotOrigin string

const (
	// LotOriginFounder marks a lot apportioned to a founder at the deed.
	LotOriginFounder LotOrigin = "founder"
	// LotOriginCopro marks a lot owned by the copropriété entity.
	LotOriginCopro LotOrigin = "copro"
)

// LotStatus is the sale lifecycle status of a lot.
type LotStatus string

const (
	// LotStatusAvailable marks a lot open for sale.
	LotStatusAvailable LotStatus = "available"
	// LotStatusReserved marks a lot with a sale in progress.
	LotStatusReserved LotStatus = "reserved"
	// LotStatusSold marks a lot transferred through a completed sale.
	LotStatusSold LotStatus = "sold"
	// LotStatusHidden marks a lot not yet declared for sale.
	LotStatusHidden LotStatus = "hidden"
)

// Acquisition records what the current holder paid for a lot. It is the
// basis for portage cost recovery and the classic-sale price cap.
type Acquisition struct {
	Date             time.Time
	TotalCost        decimal.Decimal
	PurchaseShare    decimal.Decimal
	RegistrationFees decimal.Decimal
	ConstructionCost decimal.Decimal
	SharedCostShare  decimal.Decimal
}

// Lot is a unit of the divided building.
type Lot struct {
	ID             string
	Origin         LotOrigin
	Status         LotStatus
	Owner          string
	Surface        decimal.Decimal
	HeldForPortage bool
	Acquisition    *Acquisition
}

func (l Lot) clone() Lot {
	out := l
	if l.Acquisition != nil {
		acq := *l.Acquisition
		out.Acquisition = &acq
	}
	return out
}
