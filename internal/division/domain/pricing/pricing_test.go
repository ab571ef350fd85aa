package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditcastor/division/internal/division/domain/project"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func pricingContext() project.Context {
	return project.Context{
		ProjectID:     "prj-1",
		Name:          "Residence",
		CoproEntityID: "copro",
		Constants: project.Constants{
			BaseCostPerSqm: dec("2000"),
		},
		IndexRates: []project.IndexRate{
			{Year: 2023, Rate: dec("1.02")},
			{Year: 2024, Rate: dec("1.03")},
		},
		Participants: []project.Participant{
			{ID: "alice", Name: "Alice", Founder: true, EntryDate: date(2022, 1, 1), LotIDs: []string{"lot-portage", "lot-classic"}},
			{ID: "bob", Name: "Bob", Founder: true, EntryDate: date(2022, 1, 1)},
		},
		Lots: []project.Lot{
			{
				ID: "lot-portage", Origin: project.LotOriginFounder, Status: project.LotStatusAvailable,
				Owner: "alice", Surface: dec("80"), HeldForPortage: true,
				Acquisition: &project.Acquisition{
					Date:             date(2023, 1, 1),
					TotalCost:        dec("130000"),
					PurchaseShare:    dec("90000"),
					RegistrationFees: dec("11250"),
					ConstructionCost: dec("10000"),
					SharedCostShare:  dec("4000"),
				},
			},
			{
				ID: "lot-copro", Origin: project.LotOriginCopro, Status: project.LotStatusAvailable,
				Owner: "copro", Surface: dec("50"),
			},
			{
				ID: "lot-classic", Origin: project.LotOriginFounder, Status: project.LotStatusAvailable,
				Owner: "alice", Surface: dec("60"),
				Acquisition: &project.Acquisition{
					Date:      date(2023, 1, 1),
					TotalCost: dec("100000"),
				},
			},
		},
	}
}

func TestClassify(t *testing.T) {
	ctx := pricingContext()

	tests := []struct {
		name     string
		lotID    string
		sellerID string
		want     project.SaleType
		err      error
	}{
		{name: "portage lot", lotID: "lot-portage", sellerID: "alice", want: project.SaleTypePortage},
		{name: "copro seller", lotID: "lot-copro", sellerID: "copro", want: project.SaleTypeCopro},
		{name: "private resale", lotID: "lot-classic", sellerID: "alice", want: project.SaleTypeClassic},
		{name: "unknown lot", lotID: "lot-404", sellerID: "alice", err: ErrUnknownLot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(ctx, tc.lotID, tc.sellerID)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPortagePriceRecoversCosts(t *testing.T) {
	ctx := pricingContext()
	lot, _ := ctx.LotByID("lot-portage")

	breakdown, err := PortagePrice(ctx, lot, date(2023, 1, 1), PortageOptions{})
	if err != nil {
		t.Fatalf("portage price: %v", err)
	}

	if want := dec("100000"); !breakdown.BaseCost.Equal(want) {
		t.Fatalf("expected base cost %s, got %s", want, breakdown.BaseCost)
	}
	// Same-day sale holds the lot for zero months.
	if !breakdown.CarryingCosts.IsZero() {
		t.Fatalf("expected zero carrying costs, got %s", breakdown.CarryingCosts)
	}
	if want := dec("115250"); !breakdown.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, breakdown.Total)
	}
}

func TestPortagePriceIndexationAddOn(t *testing.T) {
	ctx := pricingContext()
	lot, _ := ctx.LotByID("lot-portage")

	plain, err := PortagePrice(ctx, lot, date(2025, 1, 1), PortageOptions{})
	if err != nil {
		t.Fatalf("portage price: %v", err)
	}
	indexed, err := PortagePrice(ctx, lot, date(2025, 1, 1), PortageOptions{WithIndexation: true})
	if err != nil {
		t.Fatalf("portage price with indexation: %v", err)
	}

	// Two full years at 1.02 then 1.03 over a 100000 base.
	want := dec("5060")
	if !indexed.IndexationAddOn.Equal(want) {
		t.Fatalf("expected indexation add-on %s, got %s", want, indexed.IndexationAddOn)
	}
	if !indexed.Total.Sub(plain.Total).Equal(want) {
		t.Fatalf("expected indexation to raise total by %s, got %s", want, indexed.Total.Sub(plain.Total))
	}
}

func TestPortagePriceRenovationAddOn(t *testing.T) {
	ctx := pricingContext()
	lot, _ := ctx.LotByID("lot-portage")

	breakdown, err := PortagePrice(ctx, lot, date(2023, 1, 1), PortageOptions{RenovationCost: dec("7500")})
	if err != nil {
		t.Fatalf("portage price: %v", err)
	}

	if want := dec("7500"); !breakdown.RenovationAddOn.Equal(want) {
		t.Fatalf("expected renovation add-on %s, got %s", want, breakdown.RenovationAddOn)
	}
	if want := dec("122750"); !breakdown.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, breakdown.Total)
	}
}

func TestCoproPricePerSquareMeter(t *testing.T) {
	ctx := pricingContext()
	lot, _ := ctx.LotByID("lot-copro")

	breakdown := CoproPrice(ctx, lot)

	if want := dec("200"); !breakdown.CompensationPerSqm.Equal(want) {
		t.Fatalf("expected compensation %s per sqm, got %s", want, breakdown.CompensationPerSqm)
	}
	// (2000 + 200) x 50 sqm.
	if want := dec("110000"); !breakdown.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, breakdown.Total)
	}
}

func TestClassicPriceCap(t *testing.T) {
	ctx := pricingContext()
	lot, _ := ctx.LotByID("lot-classic")

	tests := []struct {
		name     string
		proposed string
		want     string
	}{
		{name: "under cap", proposed: "105000", want: "105000"},
		{name: "at cap", proposed: "110000", want: "110000"},
		{name: "over cap", proposed: "125000", want: "110000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			breakdown, err := ClassicPrice(lot, dec(tc.proposed))
			if err != nil {
				t.Fatalf("classic price: %v", err)
			}
			if want := dec("110000"); !breakdown.PriceCap.Equal(want) {
				t.Fatalf("expected cap %s, got %s", want, breakdown.PriceCap)
			}
			if !breakdown.FinalPrice.Equal(dec(tc.want)) {
				t.Fatalf("expected final price %s, got %s", tc.want, breakdown.FinalPrice)
			}
		})
	}
}

func TestClassicPriceRequiresAcquisition(t *testing.T) {
	lot := project.Lot{ID: "lot-x"}

	_, err := ClassicPrice(lot, dec("100000"))
	if err == nil {
		t.Fatal("expected error for lot without acquisition")
	}
}

func TestPriceClassicRequiresApproval(t *testing.T) {
	ctx := pricingContext()
	pending := project.PendingSale{
		LotID:         "lot-classic",
		SellerID:      "alice",
		BuyerID:       "carol",
		ProposedPrice: dec("105000"),
		SaleDate:      date(2024, 6, 1),
		Type:          project.SaleTypeClassic,
	}

	_, err := Price(ctx, pending)
	if !errors.Is(err, ErrApprovalMissing) {
		t.Fatalf("expected ErrApprovalMissing, got %v", err)
	}

	pending.Approval = &project.BuyerApproval{CandidateID: "carol", InterviewDate: date(2024, 5, 20), Approved: false}
	_, err = Price(ctx, pending)
	if !errors.Is(err, ErrApprovalMissing) {
		t.Fatalf("expected ErrApprovalMissing for rejected candidate, got %v", err)
	}

	pending.Approval.Approved = true
	sale, err := Price(ctx, pending)
	if err != nil {
		t.Fatalf("price approved sale: %v", err)
	}
	if sale.Type != project.SaleTypeClassic || sale.Classic == nil {
		t.Fatalf("expected classic breakdown, got %+v", sale)
	}
	if !sale.Amount.Equal(dec("105000")) {
		t.Fatalf("expected amount 105000, got %s", sale.Amount)
	}
	if sale.Approval == nil || sale.Approval.CandidateID != "carol" {
		t.Fatalf("expected approval carried onto the sale record")
	}
}

func TestPricePortageSale(t *testing.T) {
	ctx := pricingContext()
	pending := project.PendingSale{
		LotID:    "lot-portage",
		SellerID: "alice",
		BuyerID:  "dave",
		SaleDate: date(2023, 1, 1),
		Type:     project.SaleTypePortage,
	}

	sale, err := Price(ctx, pending)
	if err != nil {
		t.Fatalf("price portage sale: %v", err)
	}
	if sale.Portage == nil {
		t.Fatal("expected portage breakdown")
	}
	if !sale.Amount.Equal(dec("115250")) {
		t.Fatalf("expected amount 115250, got %s", sale.Amount)
	}
}
