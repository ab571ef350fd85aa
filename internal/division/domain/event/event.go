// Package event defines the closed set of events accepted by the project
// lifecycle state machine, plus the JSON codec used by the event journal.
package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies the type of a project event.
type Type string

// Milestone events.
const (
	// TypeCompromisSigned records the signature of the preliminary
	// purchase agreement.
	TypeCompromisSigned Type = "milestone.compromis_signed"
	// TypeAllConditionsMet records that every suspensive condition of the
	// compromis has been satisfied.
	TypeAllConditionsMet Type = "milestone.all_conditions_met"
	// TypeDeedSigned records the signature of the notarial deed.
	TypeDeedSigned Type = "milestone.deed_signed"
	// TypeDeedRegistered records the registration of the deed.
	TypeDeedRegistered Type = "milestone.deed_registered"
)

// Copropriété creation events.
const (
	// TypeStartCoproCreation opens the condominium creation flow.
	TypeStartCoproCreation Type = "copro.creation_started"
	// TypeTechnicalReportReady records the surveyor's technical report.
	TypeTechnicalReportReady Type = "copro.technical_report_ready"
	// TypePrecadRequested records the cadastral pre-registration request.
	TypePrecadRequested Type = "copro.precad_requested"
	// TypePrecadApproved records the PRECAD approval.
	TypePrecadApproved Type = "copro.precad_approved"
	// TypeActeDrafted records the drafted acte de base.
	TypeActeDrafted Type = "copro.acte_drafted"
	// TypeActeSigned records the signed acte de base.
	TypeActeSigned Type = "copro.acte_signed"
	// TypeActeTranscribed records the transcription of the acte de base
	// and the ACP enterprise number.
	TypeActeTranscribed Type = "copro.acte_transcribed"
)

// Permit events.
const (
	// TypeRequestPermit records a building permit request.
	TypeRequestPermit Type = "permit.requested"
	// TypePermitGranted records the permit grant.
	TypePermitGranted Type = "permit.granted"
	// TypePermitRejected records a permit rejection.
	TypePermitRejected Type = "permit.rejected"
	// TypePermitEnacted records the permit's enactment.
	TypePermitEnacted Type = "permit.enacted"
)

// Sales events.
const (
	// TypeDeclareHiddenLots reveals previously hidden lots for sale.
	TypeDeclareHiddenLots Type = "lots.hidden_declared"
	// TypeFirstSale opens the sales period.
	TypeFirstSale Type = "sales.first_sale"
	// TypeSaleInitiated starts processing a sale for one lot.
	TypeSaleInitiated Type = "sales.initiated"
	// TypeBuyerApproved records a positive community decision for a
	// classic-sale candidate.
	TypeBuyerApproved Type = "sales.buyer_approved"
	// TypeBuyerRejected records a negative community decision.
	TypeBuyerRejected Type = "sales.buyer_rejected"
	// TypeCompleteSale prices and completes the pending sale.
	TypeCompleteSale Type = "sales.completed"
	// TypeAllLotsSold closes the project.
	TypeAllLotsSold Type = "sales.all_lots_sold"
)

// Future-scope vocabulary. These types are part of the declared event set
// but have no transition logic yet; the machine treats them as no-ops.
const (
	// TypeFinancingApplicationSubmitted records a bank financing request.
	TypeFinancingApplicationSubmitted Type = "financing.application_submitted"
	// TypeCollectiveLoanVoteCast records a collective-loan vote.
	TypeCollectiveLoanVoteCast Type = "collective_loan.vote_cast"
	// TypeRentToOwnProposed records a rent-to-own proposal for a lot.
	TypeRentToOwnProposed Type = "rent_to_own.proposed"
)

// Event is a member of the closed project event set.
type Event interface {
	EventType() Type
}

// CompromisSigned carries the compromis date and the deposit paid.
type CompromisSigned struct {
	CompromisDate time.Time       `json:"compromis_date"`
	Deposit       decimal.Decimal `json:"deposit"`
}

// AllConditionsMet signals that the compromis conditions are satisfied.
type AllConditionsMet struct{}

// DeedSigned carries the notarial deed date.
type DeedSigned struct {
	DeedDate time.Time `json:"deed_date"`
}

// DeedRegistered carries the deed registration date.
type DeedRegistered struct {
	RegistrationDate time.Time `json:"registration_date"`
}

// StartCoproCreation opens the condominium creation flow.
type StartCoproCreation struct{}

// TechnicalReportReady signals the surveyor's report is available.
type TechnicalReportReady struct{}

// PrecadRequested carries the PRECAD reference and request timestamp.
type PrecadRequested struct {
	Reference   string    `json:"reference"`
	RequestedAt time.Time `json:"requested_at"`
}

// PrecadApproved carries the PRECAD approval date.
type PrecadApproved struct {
	ApprovalDate time.Time `json:"approval_date"`
}

// ActeDrafted signals the acte de base draft is ready.
type ActeDrafted struct{}

// ActeSigned carries the acte de base signature date.
type ActeSigned struct {
	ActeDate time.Time `json:"acte_date"`
}

// ActeTranscribed carries the transcription date and ACP enterprise number.
type ActeTranscribed struct {
	TranscriptionDate time.Time `json:"transcription_date"`
	ACPNumber         string    `json:"acp_number"`
}

// RequestPermit carries the permit request timestamp.
type RequestPermit struct {
	RequestedAt time.Time `json:"requested_at"`
}

// PermitGranted carries the permit grant date.
type PermitGranted struct {
	GrantDate time.Time `json:"grant_date"`
}

// PermitRejected signals a permit rejection.
type PermitRejected struct{}

// PermitEnacted carries the permit enactment date.
type PermitEnacted struct {
	EnactmentDate time.Time `json:"enactment_date"`
}

// DeclareHiddenLots lists the hidden lots to reveal for sale.
type DeclareHiddenLots struct {
	LotIDs []string `json:"lot_ids"`
}

// FirstSale opens the sales period.
type FirstSale struct {
	OccurredAt time.Time `json:"occurred_at"`
}

// SaleInitiated starts a sale for one lot. WithIndexation and
// RenovationCost are the optional portage add-ons.
type SaleInitiated struct {
	LotID          string          `json:"lot_id"`
	SellerID       string          `json:"seller_id"`
	BuyerID        string          `json:"buyer_id"`
	ProposedPrice  decimal.Decimal `json:"proposed_price"`
	SaleDate       time.Time       `json:"sale_date"`
	WithIndexation bool            `json:"with_indexation,omitempty"`
	RenovationCost decimal.Decimal `json:"renovation_cost,omitempty"`
}

// BuyerApproved records the community's approval of a classic-sale buyer.
type BuyerApproved struct {
	CandidateID   string    `json:"candidate_id"`
	InterviewDate time.Time `json:"interview_date"`
	Notes         string    `json:"notes,omitempty"`
}

// BuyerRejected records the community's rejection of a classic-sale buyer.
type BuyerRejected struct{}

// CompleteSale prices and completes the pending sale.
type CompleteSale struct{}

// AllLotsSold closes the project.
type AllLotsSold struct{}

// FinancingApplicationSubmitted is declared future scope; no transition
// handles it yet.
type FinancingApplicationSubmitted struct {
	ParticipantID string          `json:"participant_id"`
	Bank          string          `json:"bank"`
	Amount        decimal.Decimal `json:"amount"`
}

// CollectiveLoanVoteCast is declared future scope; no transition handles
// it yet.
type CollectiveLoanVoteCast struct {
	ParticipantID string          `json:"participant_id"`
	Contribution  decimal.Decimal `json:"contribution"`
	Approve       bool            `json:"approve"`
}

// RentToOwnProposed is declared future scope; no transition handles it yet.
type RentToOwnProposed struct {
	LotID       string          `json:"lot_id"`
	CandidateID string          `json:"candidate_id"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
}

func (CompromisSigned) EventType() Type               { return TypeCompromisSigned }
func (AllConditionsMet) EventType() Type              { return TypeAllConditionsMet }
func (DeedSigned) EventType() Type                    { return TypeDeedSigned }
func (DeedRegistered) EventType() Type                { return TypeDeedRegistered }
func (StartCoproCreation) EventType() Type            { return TypeStartCoproCreation }
func (TechnicalReportReady) EventType() Type          { return TypeTechnicalReportReady }
func (PrecadRequested) EventType() Type               { return TypePrecadRequested }
func (PrecadApproved) EventType() Type                { return TypePrecadApproved }
func (ActeDrafted) EventType() Type                   { return TypeActeDrafted }
func (ActeSigned) EventType() Type                    { return TypeActeSigned }
func (ActeTranscribed) EventType() Type               { return TypeActeTranscribed }
func (RequestPermit) EventType() Type                 { return TypeRequestPermit }
func (PermitGranted) EventType() Type                 { return TypePermitGranted }
func (PermitRejected) EventType() Type                { return TypePermitRejected }
func (PermitEnacted) EventType() Type                 { return TypePermitEnacted }
func (DeclareHiddenLots) EventType() Type             { return TypeDeclareHiddenLots }
func (FirstSale) EventType() Type                     { return TypeFirstSale }
func (SaleInitiated) EventType() Type                 { return TypeSaleInitiated }
func (BuyerApproved) EventType() Type                 { return TypeBuyerApproved }
func (BuyerRejected) EventType() Type                 { return TypeBuyerRejected }
func (CompleteSale) EventType() Type                  { return TypeCompleteSale }
func (AllLotsSold) EventType() Type                   { return TypeAllLotsSold }
func (FinancingApplicationSubmitted) EventType() Type { return TypeFinancingApplicationSubmitted }
func (CollectiveLoanVoteCast) EventType() Type        { return TypeCollectiveLoanVoteCast }
func (RentToOwnProposed) EventType() Type             { return TypeRentToOwnProposed }

// Domain returns the domain prefix of the event type (e.g., "milestone",
// "sales").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
