package machine

import "testing"

func TestStateValue(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{name: "flat phase", state: State{Phase: PhaseCompromisPeriod}, want: "compromis_period"},
		{name: "copro region", state: State{Phase: PhaseCoproCreation, Copro: CoproPrecadReview}, want: "copro_creation.precad_review"},
		{name: "permit region", state: State{Phase: PhasePermitProcess, Permit: PermitReview}, want: "permit_process.permit_review"},
		{name: "sales region", state: State{Phase: PhaseSalesActive, Sales: SalesAwaitingSale}, want: "sales_active.awaiting_sale"},
		{name: "terminal", state: State{Phase: PhaseCompleted}, want: "completed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Value(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStateMatches(t *testing.T) {
	state := State{Phase: PhaseSalesActive, Sales: SalesProcessingSale}

	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{name: "region alone", pattern: "sales_active", want: true},
		{name: "region and substate", pattern: "sales_active.processing_sale", want: true},
		{name: "wrong substate", pattern: "sales_active.awaiting_sale", want: false},
		{name: "wrong region", pattern: "copro_creation", want: false},
		{name: "empty pattern", pattern: "", want: false},
		{name: "substate on flat phase", pattern: "completed.processing_sale", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := state.Matches(tc.pattern); got != tc.want {
				t.Fatalf("Matches(%q) = %v, want %v", tc.pattern, got, tc.want)
			}
		})
	}
}

func TestInitialAndTerminal(t *testing.T) {
	if got := Initial(); got.Phase != PhasePrePurchase {
		t.Fatalf("expected initial phase pre_purchase, got %s", got.Phase)
	}
	if Initial().Terminal() {
		t.Fatal("initial state must not be terminal")
	}
	if !(State{Phase: PhaseCompleted}).Terminal() {
		t.Fatal("completed state must be terminal")
	}
}
