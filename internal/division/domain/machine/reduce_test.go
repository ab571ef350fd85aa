package machine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/domain/pricing"
	"github.com/creditcastor/division/internal/division/domain/project"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testContext() project.Context {
	return project.Context{
		ProjectID:     "prj-1",
		Name:          "Residence",
		CoproEntityID: "copro",
		Constants: project.Constants{
			BaseCostPerSqm: dec("2000"),
		},
		Participants: []project.Participant{
			{ID: "alice", Name: "Alice", Founder: true, EntryDate: date(2022, 1, 1), LotIDs: []string{"lot-1", "lot-3"}},
			{ID: "bob", Name: "Bob", Founder: true, EntryDate: date(2022, 1, 1)},
		},
		Lots: []project.Lot{
			{
				ID: "lot-1", Origin: project.LotOriginFounder, Status: project.LotStatusAvailable,
				Owner: "alice", Surface: dec("80"), HeldForPortage: true,
				Acquisition: &project.Acquisition{
					Date:          date(2023, 1, 1),
					TotalCost:     dec("100000"),
					PurchaseShare: dec("90000"),
				},
			},
			{
				ID: "lot-2", Origin: project.LotOriginCopro, Status: project.LotStatusHidden,
				Owner: "copro", Surface: dec("50"),
			},
			{
				ID: "lot-3", Origin: project.LotOriginFounder, Status: project.LotStatusAvailable,
				Owner: "alice", Surface: dec("60"),
				Acquisition: &project.Acquisition{
					Date:      date(2023, 1, 1),
					TotalCost: dec("100000"),
				},
			},
		},
	}
}

// apply reduces one event and fails the test if it errors or is ignored.
func apply(t *testing.T, state State, ctx project.Context, evt event.Event) (State, project.Context) {
	t.Helper()
	result, err := Reduce(state, ctx, evt)
	if err != nil {
		t.Fatalf("reduce %s in %s: %v", evt.EventType(), state.Value(), err)
	}
	if !result.Handled {
		t.Fatalf("expected %s to be handled in %s", evt.EventType(), state.Value())
	}
	return result.State, result.Context
}

func TestReduceFullLifecycle(t *testing.T) {
	state := Initial()
	ctx := testContext()

	state, ctx = apply(t, state, ctx, event.CompromisSigned{CompromisDate: date(2023, 2, 15), Deposit: dec("25000")})
	if got := state.Value(); got != "compromis_period" {
		t.Fatalf("expected compromis_period, got %s", got)
	}
	if ctx.Milestones.CompromisDate == nil || !ctx.Milestones.CompromisDate.Equal(date(2023, 2, 15)) {
		t.Fatalf("expected compromis date recorded")
	}
	// The bank financing deadline is four calendar months after the
	// compromis.
	if ctx.Milestones.BankDeadline == nil || !ctx.Milestones.BankDeadline.Equal(date(2023, 6, 15)) {
		t.Fatalf("expected bank deadline 2023-06-15, got %v", ctx.Milestones.BankDeadline)
	}
	if !ctx.Deposit.Equal(dec("25000")) {
		t.Fatalf("expected deposit 25000, got %s", ctx.Deposit)
	}

	state, ctx = apply(t, state, ctx, event.AllConditionsMet{})
	state, ctx = apply(t, state, ctx, event.DeedSigned{DeedDate: date(2023, 5, 1)})
	state, ctx = apply(t, state, ctx, event.DeedRegistered{RegistrationDate: date(2023, 5, 20)})
	if got := state.Value(); got != "ownership_transferred" {
		t.Fatalf("expected ownership_transferred, got %s", got)
	}

	state, ctx = apply(t, state, ctx, event.StartCoproCreation{})
	state, ctx = apply(t, state, ctx, event.TechnicalReportReady{})
	state, ctx = apply(t, state, ctx, event.PrecadRequested{Reference: "PRECAD-77", RequestedAt: date(2023, 6, 1)})
	state, ctx = apply(t, state, ctx, event.PrecadApproved{ApprovalDate: date(2023, 7, 1)})
	state, ctx = apply(t, state, ctx, event.ActeDrafted{})
	state, ctx = apply(t, state, ctx, event.ActeSigned{ActeDate: date(2023, 8, 1)})
	state, ctx = apply(t, state, ctx, event.ActeTranscribed{TranscriptionDate: date(2023, 9, 1), ACPNumber: "0123.456.789"})
	if got := state.Value(); got != "copro_established" {
		t.Fatalf("expected copro_established, got %s", got)
	}
	if ctx.Milestones.PrecadReference != "PRECAD-77" {
		t.Fatalf("expected precad reference recorded, got %q", ctx.Milestones.PrecadReference)
	}
	if ctx.Milestones.ACPEnterpriseNumber != "0123.456.789" {
		t.Fatalf("expected ACP number recorded, got %q", ctx.Milestones.ACPEnterpriseNumber)
	}

	state, ctx = apply(t, state, ctx, event.RequestPermit{RequestedAt: date(2023, 10, 1)})
	state, ctx = apply(t, state, ctx, event.PermitGranted{GrantDate: date(2024, 2, 1)})
	state, ctx = apply(t, state, ctx, event.PermitEnacted{EnactmentDate: date(2024, 3, 1)})
	if got := state.Value(); got != "permit_active" {
		t.Fatalf("expected permit_active, got %s", got)
	}

	state, ctx = apply(t, state, ctx, event.DeclareHiddenLots{LotIDs: []string{"lot-2"}})
	if lot, _ := ctx.LotByID("lot-2"); lot.Status != project.LotStatusAvailable {
		t.Fatalf("expected revealed lot available, got %s", lot.Status)
	}

	state, ctx = apply(t, state, ctx, event.FirstSale{OccurredAt: date(2024, 4, 1)})
	state, ctx = apply(t, state, ctx, event.SaleInitiated{
		LotID: "lot-2", SellerID: "copro", BuyerID: "external-1", SaleDate: date(2024, 5, 1),
	})
	if got := state.Value(); got != "sales_active.processing_sale" {
		t.Fatalf("expected processing_sale for a copro sale, got %s", got)
	}

	result, err := Reduce(state, ctx, event.CompleteSale{})
	if err != nil {
		t.Fatalf("complete sale: %v", err)
	}
	state, ctx = result.State, result.Context
	if result.Sale == nil {
		t.Fatal("expected completed sale on the result")
	}
	if result.Sale.ID != "sale-0001" {
		t.Fatalf("expected deterministic sale id sale-0001, got %s", result.Sale.ID)
	}
	// (2000 + 200) x 50 sqm.
	if !result.Sale.Amount.Equal(dec("110000")) {
		t.Fatalf("expected copro sale amount 110000, got %s", result.Sale.Amount)
	}
	if lot, _ := ctx.LotByID("lot-2"); lot.Status != project.LotStatusSold || lot.Owner != "external-1" {
		t.Fatalf("expected lot-2 sold to external-1, got %s owned by %s", lot.Status, lot.Owner)
	}

	state, ctx = apply(t, state, ctx, event.AllLotsSold{})
	if !state.Terminal() {
		t.Fatalf("expected terminal state, got %s", state.Value())
	}
	if len(ctx.Sales) != 1 {
		t.Fatalf("expected 1 recorded sale, got %d", len(ctx.Sales))
	}
}

func TestReduceIgnoresMisSequencedEvents(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name  string
		state State
		evt   event.Event
	}{
		{name: "deed before compromis", state: Initial(), evt: event.DeedSigned{DeedDate: date(2023, 5, 1)}},
		{name: "compromis twice", state: State{Phase: PhaseCompromisPeriod}, evt: event.CompromisSigned{CompromisDate: date(2023, 2, 15)}},
		{name: "sale before sales period", state: State{Phase: PhasePermitActive}, evt: event.SaleInitiated{LotID: "lot-1", SellerID: "alice"}},
		{name: "future scope vocabulary", state: Initial(), evt: event.FinancingApplicationSubmitted{ParticipantID: "alice"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Reduce(tc.state, ctx, tc.evt)
			if err != nil {
				t.Fatalf("reduce: %v", err)
			}
			if result.Handled {
				t.Fatalf("expected %s to be ignored in %s", tc.evt.EventType(), tc.state.Value())
			}
			if result.State != tc.state {
				t.Fatalf("expected state unchanged, got %s", result.State.Value())
			}
		})
	}
}

func TestReduceDoesNotMutateInputs(t *testing.T) {
	state := State{Phase: PhasePermitActive}
	ctx := testContext()

	_, err := Reduce(state, ctx, event.DeclareHiddenLots{LotIDs: []string{"lot-2"}})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}

	if lot, _ := ctx.LotByID("lot-2"); lot.Status != project.LotStatusHidden {
		t.Fatalf("expected input context untouched, lot-2 is %s", lot.Status)
	}
}

func TestReduceDeclareUnknownLot(t *testing.T) {
	state := State{Phase: PhasePermitActive}
	ctx := testContext()

	_, err := Reduce(state, ctx, event.DeclareHiddenLots{LotIDs: []string{"lot-404"}})
	if !errors.Is(err, ErrUnknownLot) {
		t.Fatalf("expected ErrUnknownLot, got %v", err)
	}
}

func TestReduceSaleInitiatedUnknownLot(t *testing.T) {
	state := State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}
	ctx := testContext()

	_, err := Reduce(state, ctx, event.SaleInitiated{LotID: "lot-404", SellerID: "alice"})
	if !errors.Is(err, pricing.ErrUnknownLot) {
		t.Fatalf("expected unknown lot error, got %v", err)
	}
}

func TestReduceCompleteSaleWithoutPending(t *testing.T) {
	state := State{Phase: PhaseSalesActive, Sales: SalesProcessingSale}
	ctx := testContext()

	_, err := Reduce(state, ctx, event.CompleteSale{})
	if !errors.Is(err, ErrNoPendingSale) {
		t.Fatalf("expected ErrNoPendingSale, got %v", err)
	}
}

func TestReduceClassicSaleApprovalFlow(t *testing.T) {
	state := State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}
	ctx := testContext()

	state, ctx = apply(t, state, ctx, event.SaleInitiated{
		LotID: "lot-3", SellerID: "alice", BuyerID: "bob",
		ProposedPrice: dec("125000"), SaleDate: date(2024, 6, 1),
	})
	if got := state.Value(); got != "sales_active.awaiting_buyer_approval" {
		t.Fatalf("expected awaiting_buyer_approval, got %s", got)
	}
	if lot, _ := ctx.LotByID("lot-3"); lot.Status != project.LotStatusReserved {
		t.Fatalf("expected reserved lot, got %s", lot.Status)
	}

	// Completing while approval is pending is an invariant violation.
	if _, err := Reduce(State{Phase: PhaseSalesActive, Sales: SalesProcessingSale}, ctx, event.CompleteSale{}); !errors.Is(err, pricing.ErrApprovalMissing) {
		t.Fatalf("expected ErrApprovalMissing, got %v", err)
	}

	state, ctx = apply(t, state, ctx, event.BuyerApproved{CandidateID: "bob", InterviewDate: date(2024, 5, 20)})
	if got := state.Value(); got != "sales_active.processing_sale" {
		t.Fatalf("expected processing_sale after approval, got %s", got)
	}

	result, err := Reduce(state, ctx, event.CompleteSale{})
	if err != nil {
		t.Fatalf("complete sale: %v", err)
	}
	state, ctx = result.State, result.Context

	// Proposed 125000 is capped at acquisition cost plus 10%.
	if !result.Sale.Amount.Equal(dec("110000")) {
		t.Fatalf("expected capped amount 110000, got %s", result.Sale.Amount)
	}
	if got := state.Value(); got != "sales_active.awaiting_sale" {
		t.Fatalf("expected awaiting_sale after completion, got %s", got)
	}

	seller, _ := ctx.ParticipantByID("alice")
	for _, ref := range seller.LotIDs {
		if ref == "lot-3" {
			t.Fatal("expected lot-3 removed from seller's lots")
		}
	}
	buyer, _ := ctx.ParticipantByID("bob")
	if len(buyer.LotIDs) != 1 || buyer.LotIDs[0] != "lot-3" {
		t.Fatalf("expected lot-3 transferred to buyer, got %v", buyer.LotIDs)
	}
}

func TestReduceBuyerRejectedRestoresLot(t *testing.T) {
	state := State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}
	ctx := testContext()

	state, ctx = apply(t, state, ctx, event.SaleInitiated{
		LotID: "lot-3", SellerID: "alice", BuyerID: "bob",
		ProposedPrice: dec("105000"), SaleDate: date(2024, 6, 1),
	})
	state, ctx = apply(t, state, ctx, event.BuyerRejected{})

	if got := state.Value(); got != "sales_active.awaiting_sale" {
		t.Fatalf("expected awaiting_sale after rejection, got %s", got)
	}
	if ctx.PendingSale != nil {
		t.Fatal("expected pending sale cleared")
	}
	if lot, _ := ctx.LotByID("lot-3"); lot.Status != project.LotStatusAvailable {
		t.Fatalf("expected lot-3 available again, got %s", lot.Status)
	}
}

func TestReducePermitRejectionLoops(t *testing.T) {
	state := State{Phase: PhasePermitProcess, Permit: PermitReview}
	ctx := testContext()

	state, ctx = apply(t, state, ctx, event.PermitRejected{})
	if got := state.Value(); got != "permit_process.awaiting_request" {
		t.Fatalf("expected awaiting_request after rejection, got %s", got)
	}

	// A new request is accepted from the rejection state.
	state, _ = apply(t, state, ctx, event.RequestPermit{RequestedAt: date(2024, 1, 10)})
	if got := state.Value(); got != "permit_process.permit_review" {
		t.Fatalf("expected permit_review after new request, got %s", got)
	}
}
