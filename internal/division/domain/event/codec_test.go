package event

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	saleDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	original := SaleInitiated{
		LotID:          "lot-2",
		SellerID:       "copro",
		BuyerID:        "external-1",
		ProposedPrice:  decimal.RequireFromString("110000"),
		SaleDate:       saleDate,
		WithIndexation: true,
		RenovationCost: decimal.RequireFromString("7500"),
	}

	payload, err := Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := Unmarshal(TypeSaleInitiated, payload)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, ok := decoded.(SaleInitiated)
	if !ok {
		t.Fatalf("expected SaleInitiated value, got %T", decoded)
	}
	if got.LotID != "lot-2" || got.SellerID != "copro" {
		t.Fatalf("unexpected identifiers: %+v", got)
	}
	if !got.ProposedPrice.Equal(original.ProposedPrice) {
		t.Fatalf("expected price %s, got %s", original.ProposedPrice, got.ProposedPrice)
	}
	if !got.SaleDate.Equal(saleDate) {
		t.Fatalf("expected sale date %s, got %s", saleDate, got.SaleDate)
	}
	if !got.WithIndexation {
		t.Fatal("expected indexation flag preserved")
	}
}

func TestUnmarshalEmptyPayload(t *testing.T) {
	decoded, err := Unmarshal(TypeCompleteSale, nil)
	if err != nil {
		t.Fatalf("unmarshal empty payload: %v", err)
	}
	if _, ok := decoded.(CompleteSale); !ok {
		t.Fatalf("expected CompleteSale value, got %T", decoded)
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	if _, err := Unmarshal(Type("bogus.event"), nil); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestEveryDeclaredTypeDecodes(t *testing.T) {
	for _, eventType := range Types() {
		decoded, err := Unmarshal(eventType, nil)
		if err != nil {
			t.Fatalf("decode %s: %v", eventType, err)
		}
		if decoded.EventType() != eventType {
			t.Fatalf("decoder for %s produced %s", eventType, decoded.EventType())
		}
	}
}

func TestTypeDomain(t *testing.T) {
	tests := []struct {
		eventType Type
		want      string
	}{
		{TypeCompromisSigned, "milestone"},
		{TypePrecadRequested, "copro"},
		{TypeSaleInitiated, "sales"},
		{Type("bare"), "bare"},
	}

	for _, tc := range tests {
		if got := tc.eventType.Domain(); got != tc.want {
			t.Fatalf("Domain(%s) = %q, want %q", tc.eventType, got, tc.want)
		}
	}
}

func TestTypeNamesAreDotted(t *testing.T) {
	for _, eventType := range Types() {
		if !strings.Contains(string(eventType), ".") {
			t.Fatalf("event type %q lacks a domain prefix", eventType)
		}
	}
}
