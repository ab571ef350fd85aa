package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType identifies the legal/financial regime of a sale.
type SaleType string

const (
	// SaleTypePortage is the resale of a lot a founder held on behalf of a
	// later buyer, priced as cost recovery.
	SaleTypePortage SaleType = "portage"
	// SaleTypeCopro is a sale by the copropriété entity, priced per square
	// meter with first-generation compensation.
	SaleTypeCopro SaleType = "copro"
	// SaleTypeClassic is a private resale between participants, capped and
	// gated by community buyer approval.
	SaleTypeClassic SaleType = "classic"
)

// BuyerApproval records the community decision for a classic-sale candidate.
type BuyerApproval struct {
	CandidateID   string
	InterviewDate time.Time
	Approved      bool
	Notes         string
}

// PortageBreakdown itemizes a portage cost-recovery price.
type PortageBreakdown struct {
	BaseCost             decimal.Decimal
	CarryingCosts        decimal.Decimal
	RegistrationRecovery decimal.Decimal
	SharedCostRecovery   decimal.Decimal
	IndexationAddOn      decimal.Decimal
	RenovationAddOn      decimal.Decimal
	Total                decimal.Decimal
}

// CoproBreakdown itemizes a copropriété per-square-meter price.
type CoproBreakdown struct {
	BaseCostPerSqm     decimal.Decimal
	CompensationPerSqm decimal.Decimal
	Surface            decimal.Decimal
	Total              decimal.Decimal
}

// ClassicBreakdown itemizes a classic price capped against speculation.
type ClassicBreakdown struct {
	ProposedPrice   decimal.Decimal
	AcquisitionCost decimal.Decimal
	PriceCap        decimal.Decimal
	FinalPrice      decimal.Decimal
}

// Sale is an immutable record of a completed sale. Exactly one breakdown
// field is set, matching Type.
type Sale struct {
	ID       string
	Type     SaleType
	LotID    string
	SellerID string
	BuyerID  string
	SaleDate time.Time
	Amount   decimal.Decimal

	Portage  *PortageBreakdown
	Copro    *CoproBreakdown
	Classic  *ClassicBreakdown
	Approval *BuyerApproval
}

// PendingSale holds an initiated sale between SALE_INITIATED and
// COMPLETE_SALE (or rejection).
type PendingSale struct {
	LotID          string
	SellerID       string
	BuyerID        string
	ProposedPrice  decimal.Decimal
	SaleDate       time.Time
	Type           SaleType
	WithIndexation bool
	RenovationCost decimal.Decimal
	Approval       *BuyerApproval
}

func (s Sale) clone() Sale {
	out := s
	if s.Portage != nil {
		v := *s.Portage
		out.Portage = &v
	}
	if s.Copro != nil {
		v := *s.Copro
		out.Copro = &v
	}
	if s.Classic != nil {
		v := *s.Classic
		out.Classic = &v
	}
	if s.Approval != nil {
		v := *s.Approval
		out.Approval = &v
	}
	return out
}
