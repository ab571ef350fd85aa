// Package machine implements the legal milestone and sales state machine
// as an explicit tagged-state value plus a pure reduction function.
package machine

import "strings"

// Phase is the outer lifecycle phase of the project.
type Phase string

const (
	// PhasePrePurchase precedes the compromis signature.
	PhasePrePurchase Phase = "pre_purchase"
	// PhaseCompromisPeriod runs between compromis and the suspensive
	// conditions being met.
	PhaseCompromisPeriod Phase = "compromis_period"
	// PhaseReadyForDeed awaits the notarial deed signature.
	PhaseReadyForDeed Phase = "ready_for_deed"
	// PhaseDeedRegistrationPending awaits the deed registration.
	PhaseDeedRegistrationPending Phase = "deed_registration_pending"
	// PhaseOwnershipTransferred follows the deed registration.
	PhaseOwnershipTransferred Phase = "ownership_transferred"
	// PhaseCoproCreation is the nested condominium creation flow.
	PhaseCoproCreation Phase = "copro_creation"
	// PhaseCoproEstablished follows the acte de base transcription.
	PhaseCoproEstablished Phase = "copro_established"
	// PhasePermitProcess is the nested building permit flow.
	PhasePermitProcess Phase = "permit_process"
	// PhasePermitActive follows the permit enactment.
	PhasePermitActive Phase = "permit_active"
	// PhaseLotsDeclared follows the hidden-lot declaration.
	PhaseLotsDeclared Phase = "lots_declared"
	// PhaseSalesActive is the nested sales flow.
	PhaseSalesActive Phase = "sales_active"
	// PhaseCompleted is the terminal phase.
	PhaseCompleted Phase = "completed"
)

// CoproStep is a substate of the copro_creation region.
type CoproStep string

const (
	CoproAwaitingTechnicalReport CoproStep = "awaiting_technical_report"
	CoproAwaitingPrecad          CoproStep = "awaiting_precad"
	CoproPrecadReview            CoproStep = "precad_review"
	CoproDraftingActe            CoproStep = "drafting_acte"
	CoproAwaitingSignatures      CoproStep = "awaiting_signatures"
	CoproAwaitingTranscription   CoproStep = "awaiting_transcription"
)

// PermitStep is a substate of the permit_process region.
type PermitStep string

const (
	PermitReview            PermitStep = "permit_review"
	PermitAwaitingEnactment PermitStep = "awaiting_enactment"
	PermitAwaitingRequest   PermitStep = "awaiting_request"
)

// SalesStep is a substate of the sales_active region.
type SalesStep string

const (
	SalesAwaitingSale          SalesStep = "awaiting_sale"
	SalesProcessingSale        SalesStep = "processing_sale"
	SalesAwaitingBuyerApproval SalesStep = "awaiting_buyer_approval"
)

// State is the machine's tagged state value. The region fields are set
// only while their phase is active.
type State struct {
	Phase  Phase
	Copro  CoproStep
	Permit PermitStep
	Sales  SalesStep
}

// Initial returns the machine's starting state.
func Initial() State {
	return State{Phase: PhasePrePurchase}
}

// Terminal reports whether the machine reached its final state.
func (s State) Terminal() bool {
	return s.Phase == PhaseCompleted
}

// Value renders the state as "phase" or "phase.substate".
func (s State) Value() string {
	switch s.Phase {
	case PhaseCoproCreation:
		return string(s.Phase) + "." + string(s.Copro)
	case PhasePermitProcess:
		return string(s.Phase) + "." + string(s.Permit)
	case PhaseSalesActive:
		return string(s.Phase) + "." + string(s.Sales)
	default:
		return string(s.Phase)
	}
}

// Matches reports whether the state matches a pattern: either an exact
// phase name ("compromis_period"), a region name alone ("sales_active"),
// or a dotted region.substate pair ("sales_active.processing_sale").
func (s State) Matches(pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	region, substate, nested := strings.Cut(pattern, ".")
	if Phase(region) != s.Phase {
		return false
	}
	if !nested {
		return true
	}
	switch s.Phase {
	case PhaseCoproCreation:
		return CoproStep(substate) == s.Copro
	case PhasePermitProcess:
		return PermitStep(substate) == s.Permit
	case PhaseSalesActive:
		return SalesStep(substate) == s.Sales
	default:
		return false
	}
}
