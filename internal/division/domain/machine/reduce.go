package machine

import (
	"errors"
	"fmt"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/domain/pricing"
	"github.com/creditcastor/division/internal/division/domain/project"
)

var (
	// ErrNoPendingSale indicates a sale completion with no initiated sale
	// in the aggregate.
	ErrNoPendingSale = errors.New("no pending sale to complete")
	// ErrUnknownLot indicates an event referencing a lot absent from the
	// project.
	ErrUnknownLot = errors.New("unknown lot")
)

// Result is the outcome of reducing one event. Handled is false when the
// current state declares no handler for the event; state and context are
// then returned unchanged. Sale is set when the event completed a sale.
type Result struct {
	State   State
	Context project.Context
	Handled bool
	Sale    *project.Sale
}

// Reduce applies one event to the machine. It is pure: the inputs are
// never mutated, and a handled event operates on a deep copy of the
// context. An event with no handler for the current state is a silent
// no-op. Errors are invariant violations surfaced by the pricing and
// carrying-cost calculators; the reduction itself never fails on
// mis-sequenced events.
func Reduce(state State, ctx project.Context, evt event.Event) (Result, error) {
	noop := Result{State: state, Context: ctx}

	switch e := evt.(type) {
	case event.CompromisSigned:
		if state.Phase != PhasePrePurchase {
			return noop, nil
		}
		next := ctx.Clone()
		compromis := e.CompromisDate
		deadline := compromis.AddDate(0, 4, 0)
		next.Milestones.CompromisDate = &compromis
		next.Milestones.BankDeadline = &deadline
		next.Deposit = e.Deposit
		return handled(State{Phase: PhaseCompromisPeriod}, next), nil

	case event.AllConditionsMet:
		if state.Phase != PhaseCompromisPeriod {
			return noop, nil
		}
		return handled(State{Phase: PhaseReadyForDeed}, ctx.Clone()), nil

	case event.DeedSigned:
		if state.Phase != PhaseReadyForDeed {
			return noop, nil
		}
		next := ctx.Clone()
		deed := e.DeedDate
		next.Milestones.DeedDate = &deed
		return handled(State{Phase: PhaseDeedRegistrationPending}, next), nil

	case event.DeedRegistered:
		if state.Phase != PhaseDeedRegistrationPending {
			return noop, nil
		}
		next := ctx.Clone()
		registration := e.RegistrationDate
		next.Milestones.RegistrationDate = &registration
		return handled(State{Phase: PhaseOwnershipTransferred}, next), nil

	case event.StartCoproCreation:
		if state.Phase != PhaseOwnershipTransferred {
			return noop, nil
		}
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproAwaitingTechnicalReport}, ctx.Clone()), nil

	case event.TechnicalReportReady:
		if !state.Matches("copro_creation.awaiting_technical_report") {
			return noop, nil
		}
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproAwaitingPrecad}, ctx.Clone()), nil

	case event.PrecadRequested:
		if !state.Matches("copro_creation.awaiting_precad") {
			return noop, nil
		}
		next := ctx.Clone()
		requested := e.RequestedAt
		next.Milestones.PrecadReference = e.Reference
		next.Milestones.PrecadRequestedAt = &requested
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproPrecadReview}, next), nil

	case event.PrecadApproved:
		if !state.Matches("copro_creation.precad_review") {
			return noop, nil
		}
		next := ctx.Clone()
		approval := e.ApprovalDate
		next.Milestones.PrecadApprovalDate = &approval
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproDraftingActe}, next), nil

	case event.ActeDrafted:
		if !state.Matches("copro_creation.drafting_acte") {
			return noop, nil
		}
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproAwaitingSignatures}, ctx.Clone()), nil

	case event.ActeSigned:
		if !state.Matches("copro_creation.awaiting_signatures") {
			return noop, nil
		}
		next := ctx.Clone()
		acte := e.ActeDate
		next.Milestones.ActeDeBaseDate = &acte
		return handled(State{Phase: PhaseCoproCreation, Copro: CoproAwaitingTranscription}, next), nil

	case event.ActeTranscribed:
		if !state.Matches("copro_creation.awaiting_transcription") {
			return noop, nil
		}
		next := ctx.Clone()
		transcription := e.TranscriptionDate
		next.Milestones.TranscriptionDate = &transcription
		next.Milestones.ACPEnterpriseNumber = e.ACPNumber
		return handled(State{Phase: PhaseCoproEstablished}, next), nil

	case event.RequestPermit:
		if state.Phase != PhaseCoproEstablished && !state.Matches("permit_process.awaiting_request") {
			return noop, nil
		}
		next := ctx.Clone()
		requested := e.RequestedAt
		next.Milestones.PermitRequestedAt = &requested
		return handled(State{Phase: PhasePermitProcess, Permit: PermitReview}, next), nil

	case event.PermitGranted:
		if !state.Matches("permit_process.permit_review") {
			return noop, nil
		}
		next := ctx.Clone()
		grant := e.GrantDate
		next.Milestones.PermitGrantDate = &grant
		return handled(State{Phase: PhasePermitProcess, Permit: PermitAwaitingEnactment}, next), nil

	case event.PermitRejected:
		if !state.Matches("permit_process.permit_review") {
			return noop, nil
		}
		return handled(State{Phase: PhasePermitProcess, Permit: PermitAwaitingRequest}, ctx.Clone()), nil

	case event.PermitEnacted:
		if !state.Matches("permit_process.awaiting_enactment") {
			return noop, nil
		}
		next := ctx.Clone()
		enactment := e.EnactmentDate
		next.Milestones.PermitEnactmentDate = &enactment
		return handled(State{Phase: PhasePermitActive}, next), nil

	case event.DeclareHiddenLots:
		if state.Phase != PhasePermitActive {
			return noop, nil
		}
		next := ctx.Clone()
		if err := revealLots(&next, e.LotIDs); err != nil {
			return noop, err
		}
		return handled(State{Phase: PhaseLotsDeclared}, next), nil

	case event.FirstSale:
		if state.Phase != PhaseLotsDeclared {
			return noop, nil
		}
		next := ctx.Clone()
		first := e.OccurredAt
		next.Milestones.FirstSaleAt = &first
		return handled(State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}, next), nil

	case event.SaleInitiated:
		if !state.Matches("sales_active.awaiting_sale") {
			return noop, nil
		}
		saleType, err := pricing.Classify(ctx, e.LotID, e.SellerID)
		if err != nil {
			return noop, err
		}
		next := ctx.Clone()
		setLotStatus(&next, e.LotID, project.LotStatusReserved)
		next.PendingSale = &project.PendingSale{
			LotID:          e.LotID,
			SellerID:       e.SellerID,
			BuyerID:        e.BuyerID,
			ProposedPrice:  e.ProposedPrice,
			SaleDate:       e.SaleDate,
			Type:           saleType,
			WithIndexation: e.WithIndexation,
			RenovationCost: e.RenovationCost,
		}
		step := SalesProcessingSale
		if saleType == project.SaleTypeClassic {
			step = SalesAwaitingBuyerApproval
		}
		return handled(State{Phase: PhaseSalesActive, Sales: step}, next), nil

	case event.BuyerApproved:
		if !state.Matches("sales_active.awaiting_buyer_approval") || ctx.PendingSale == nil {
			return noop, nil
		}
		next := ctx.Clone()
		next.PendingSale.Approval = &project.BuyerApproval{
			CandidateID:   e.CandidateID,
			InterviewDate: e.InterviewDate,
			Approved:      true,
			Notes:         e.Notes,
		}
		return handled(State{Phase: PhaseSalesActive, Sales: SalesProcessingSale}, next), nil

	case event.BuyerRejected:
		if !state.Matches("sales_active.awaiting_buyer_approval") {
			return noop, nil
		}
		next := ctx.Clone()
		if next.PendingSale != nil {
			setLotStatus(&next, next.PendingSale.LotID, project.LotStatusAvailable)
		}
		next.PendingSale = nil
		return handled(State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}, next), nil

	case event.CompleteSale:
		if !state.Matches("sales_active.processing_sale") {
			return noop, nil
		}
		if ctx.PendingSale == nil {
			return noop, ErrNoPendingSale
		}
		sale, err := pricing.Price(ctx, *ctx.PendingSale)
		if err != nil {
			return noop, err
		}
		next := ctx.Clone()
		sale.ID = fmt.Sprintf("sale-%04d", len(next.Sales)+1)
		transferLot(&next, sale.LotID, sale.SellerID, sale.BuyerID)
		next.Sales = append(next.Sales, sale)
		next.PendingSale = nil
		result := handled(State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}, next)
		result.Sale = &sale
		return result, nil

	case event.AllLotsSold:
		if state.Phase != PhaseSalesActive {
			return noop, nil
		}
		return handled(State{Phase: PhaseCompleted}, ctx.Clone()), nil

	default:
		// Declared vocabulary without transition logic (financing,
		// collective loan, rent-to-own) and anything else fall through
		// as no-ops.
		return noop, nil
	}
}

func handled(state State, ctx project.Context) Result {
	return Result{State: state, Context: ctx, Handled: true}
}

// revealLots flips declared hidden lots to available. Unknown lot IDs are
// invariant violations.
func revealLots(ctx *project.Context, lotIDs []string) error {
	for _, id := range lotIDs {
		found := false
		for i := range ctx.Lots {
			if ctx.Lots[i].ID != id {
				continue
			}
			found = true
			if ctx.Lots[i].Status == project.LotStatusHidden {
				ctx.Lots[i].Status = project.LotStatusAvailable
			}
			break
		}
		if !found {
			return fmt.Errorf("declare hidden lot %q: %w", id, ErrUnknownLot)
		}
	}
	return nil
}

func setLotStatus(ctx *project.Context, lotID string, status project.LotStatus) {
	for i := range ctx.Lots {
		if ctx.Lots[i].ID == lotID {
			ctx.Lots[i].Status = status
			return
		}
	}
}

// transferLot marks a lot sold, reassigns its owner, and maintains the
// participants' owned-lot references. Sellers or buyers that are not
// project participants (the copropriété entity, external buyers) simply
// have no reference list to maintain.
func transferLot(ctx *project.Context, lotID, sellerID, buyerID string) {
	for i := range ctx.Lots {
		if ctx.Lots[i].ID == lotID {
			ctx.Lots[i].Status = project.LotStatusSold
			ctx.Lots[i].Owner = buyerID
			break
		}
	}
	for i := range ctx.Participants {
		switch ctx.Participants[i].ID {
		case sellerID:
			refs := ctx.Participants[i].LotIDs[:0]
			for _, ref := range ctx.Participants[i].LotIDs {
				if ref != lotID {
					refs = append(refs, ref)
				}
			}
			ctx.Participants[i].LotIDs = refs
		case buyerID:
			ctx.Participants[i].LotIDs = append(ctx.Participants[i].LotIDs, lotID)
		}
	}
}
