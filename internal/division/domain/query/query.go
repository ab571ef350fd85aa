// Package query provides read-only derived views over project state.
package query

import (
	"github.com/creditcastor/division/internal/division/domain/pricing"
	"github.com/creditcastor/division/internal/division/domain/project"
)

// Founders returns the founder participants in their original order.
func Founders(ctx project.Context) []project.Participant {
	var out []project.Participant
	for _, p := range ctx.Participants {
		if p.Founder {
			out = append(out, p)
		}
	}
	return out
}

// Newcomers returns the non-founder participants in their original order.
func Newcomers(ctx project.Context) []project.Participant {
	var out []project.Participant
	for _, p := range ctx.Participants {
		if !p.Founder {
			out = append(out, p)
		}
	}
	return out
}

// ParticipantByID looks up a participant. Absence is reported through the
// boolean, never an error.
func ParticipantByID(ctx project.Context, id string) (project.Participant, bool) {
	return ctx.ParticipantByID(id)
}

// SaleTypeFor classifies the sale regime a lot would sell under for a
// given seller.
func SaleTypeFor(ctx project.Context, lotID, sellerID string) (project.SaleType, error) {
	return pricing.Classify(ctx, lotID, sellerID)
}
