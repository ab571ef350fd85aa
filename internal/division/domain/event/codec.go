package event

import (
	"encoding/json"
	"fmt"
)

func decode[E Event](payload []byte) (Event, error) {
	var evt E
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &evt); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", evt.EventType(), err)
		}
	}
	return evt, nil
}

// decoders maps each event type to its payload decoder. Decoding dispatch
// is declarative: adding an event requires only a new entry here.
var decoders = map[Type]func([]byte) (Event, error){
	TypeCompromisSigned:               decode[CompromisSigned],
	TypeAllConditionsMet:              decode[AllConditionsMet],
	TypeDeedSigned:                    decode[DeedSigned],
	TypeDeedRegistered:                decode[DeedRegistered],
	TypeStartCoproCreation:            decode[StartCoproCreation],
	TypeTechnicalReportReady:          decode[TechnicalReportReady],
	TypePrecadRequested:               decode[PrecadRequested],
	TypePrecadApproved:                decode[PrecadApproved],
	TypeActeDrafted:                   decode[ActeDrafted],
	TypeActeSigned:                    decode[ActeSigned],
	TypeActeTranscribed:               decode[ActeTranscribed],
	TypeRequestPermit:                 decode[RequestPermit],
	TypePermitGranted:                 decode[PermitGranted],
	TypePermitRejected:                decode[PermitRejected],
	TypePermitEnacted:                 decode[PermitEnacted],
	TypeDeclareHiddenLots:             decode[DeclareHiddenLots],
	TypeFirstSale:                     decode[FirstSale],
	TypeSaleInitiated:                 decode[SaleInitiated],
	TypeBuyerApproved:                 decode[BuyerApproved],
	TypeBuyerRejected:                 decode[BuyerRejected],
	TypeCompleteSale:                  decode[CompleteSale],
	TypeAllLotsSold:                   decode[AllLotsSold],
	TypeFinancingApplicationSubmitted: decode[FinancingApplicationSubmitted],
	TypeCollectiveLoanVoteCast:        decode[CollectiveLoanVoteCast],
	TypeRentToOwnProposed:             decode[RentToOwnProposed],
}

// Types returns every declared event type.
func Types() []Type {
	out := make([]Type, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	return out
}

// Marshal encodes an event payload as JSON for the journal.
func Marshal(evt Event) ([]byte, error) {
	if evt == nil {
		return nil, fmt.Errorf("event is required")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", evt.EventType(), err)
	}
	return payload, nil
}

// Unmarshal decodes a journal payload back into its typed event.
func Unmarshal(t Type, payload []byte) (Event, error) {
	decoder, ok := decoders[t]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", t)
	}
	return decoder(payload)
}
