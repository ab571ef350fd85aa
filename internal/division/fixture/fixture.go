// Package fixture loads project definitions from YAML: financial
// constants, index rates, participants, lots, and an ordered event script
// replayed through the state machine.
package fixture

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/domain/project"
)

// Date parses YAML scalar dates in 2006-01-02 form.
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", node.Value)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", node.Value, err)
	}
	d.Time = parsed
	return nil
}

// Money parses YAML scalar decimals.
type Money struct {
	decimal.Decimal
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", node.Value, err)
	}
	m.Decimal = parsed
	return nil
}

// Document is the root of a project fixture file.
type Document struct {
	Project      ProjectDoc       `yaml:"project"`
	IndexRates   []IndexRateDoc   `yaml:"index_rates"`
	Participants []ParticipantDoc `yaml:"participants"`
	Lots         []LotDoc         `yaml:"lots"`
	Events       []EventDoc       `yaml:"events"`
}

// ProjectDoc describes the project and its financial constants.
type ProjectDoc struct {
	ID            string       `yaml:"id"`
	Name          string       `yaml:"name"`
	CoproEntityID string       `yaml:"copro_entity_id"`
	Constants     ConstantsDoc `yaml:"constants"`
}

// ConstantsDoc mirrors project.Constants.
type ConstantsDoc struct {
	BaseCostPerSqm       Money `yaml:"base_cost_per_sqm"`
	PropertyTaxMonthly   Money `yaml:"property_tax_monthly"`
	InsuranceMonthly     Money `yaml:"insurance_monthly"`
	SyndicFeeMonthly     Money `yaml:"syndic_fee_monthly"`
	CommonChargesMonthly Money `yaml:"common_charges_monthly"`
}

// IndexRateDoc mirrors project.IndexRate.
type IndexRateDoc struct {
	Year int   `yaml:"year"`
	Rate Money `yaml:"rate"`
}

// LoanDoc mirrors project.Loan.
type LoanDoc struct {
	Kind       string `yaml:"kind"`
	Amount     Money  `yaml:"amount"`
	AnnualRate Money  `yaml:"annual_rate"`
	TermMonths int    `yaml:"term_months"`
}

// ParticipantDoc mirrors project.Participant.
type ParticipantDoc struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Founder   bool      `yaml:"founder"`
	EntryDate Date      `yaml:"entry_date"`
	Loans     []LoanDoc `yaml:"loans"`
}

// AcquisitionDoc mirrors project.Acquisition.
type AcquisitionDoc struct {
	Date             Date  `yaml:"date"`
	TotalCost        Money `yaml:"total_cost"`
	PurchaseShare    Money `yaml:"purchase_share"`
	RegistrationFees Money `yaml:"registration_fees"`
	ConstructionCost Money `yaml:"construction_cost"`
	SharedCostShare  Money `yaml:"shared_cost_share"`
}

// LotDoc mirrors project.Lot.
type LotDoc struct {
	ID             string          `yaml:"id"`
	Origin         string          `yaml:"origin"`
	Status         string          `yaml:"status"`
	Owner          string          `yaml:"owner"`
	Surface        Money           `yaml:"surface"`
	HeldForPortage bool            `yaml:"held_for_portage"`
	Acquisition    *AcquisitionDoc `yaml:"acquisition"`
}

// EventDoc is one scripted event. Type selects the event; the remaining
// fields are read per type.
type EventDoc struct {
	Type string `yaml:"type"`

	Date      Date   `yaml:"date"`
	Deposit   Money  `yaml:"deposit"`
	Reference string `yaml:"reference"`
	ACPNumber string `yaml:"acp_number"`

	LotIDs []string `yaml:"lot_ids"`

	LotID          string `yaml:"lot_id"`
	SellerID       string `yaml:"seller_id"`
	BuyerID        string `yaml:"buyer_id"`
	ProposedPrice  Money  `yaml:"proposed_price"`
	WithIndexation bool   `yaml:"with_indexation"`
	RenovationCost Money  `yaml:"renovation_cost"`

	CandidateID   string `yaml:"candidate_id"`
	InterviewDate Date   `yaml:"interview_date"`
	Notes         string `yaml:"notes"`
}

// Parse reads a fixture document.
func Parse(r io.Reader) (Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode fixture: %w", err)
	}
	return doc, nil
}

// ParseEvent reads a single scripted event document.
func ParseEvent(r io.Reader) (event.Event, error) {
	var doc EventDoc
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return doc.toEvent()
}

// ParseFile reads a fixture document from disk.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Build converts the document into a project aggregate and the scripted
// event sequence. Missing participant and lot IDs are generated.
func (d Document) Build(idGenerator func() string) (project.Context, []event.Event, error) {
	if idGenerator == nil {
		idGenerator = project.NewID
	}

	ctx, err := project.NewContext(project.NewContextInput{
		Name:          d.Project.Name,
		CoproEntityID: d.Project.CoproEntityID,
		Constants: project.Constants{
			BaseCostPerSqm:       d.Project.Constants.BaseCostPerSqm.Decimal,
			PropertyTaxMonthly:   d.Project.Constants.PropertyTaxMonthly.Decimal,
			InsuranceMonthly:     d.Project.Constants.InsuranceMonthly.Decimal,
			SyndicFeeMonthly:     d.Project.Constants.SyndicFeeMonthly.Decimal,
			CommonChargesMonthly: d.Project.Constants.CommonChargesMonthly.Decimal,
		},
	}, idGenerator)
	if err != nil {
		return project.Context{}, nil, err
	}
	if d.Project.ID != "" {
		ctx.ProjectID = d.Project.ID
	}

	for _, rate := range d.IndexRates {
		ctx.IndexRates = append(ctx.IndexRates, project.IndexRate{
			Year: rate.Year,
			Rate: rate.Rate.Decimal,
		})
	}

	for _, p := range d.Participants {
		participant := project.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Founder:   p.Founder,
			EntryDate: p.EntryDate.Time,
		}
		if participant.ID == "" {
			participant.ID = idGenerator()
		}
		for _, loan := range p.Loans {
			participant.Loans = append(participant.Loans, project.Loan{
				Kind:       project.LoanKind(loan.Kind),
				Amount:     loan.Amount.Decimal,
				AnnualRate: loan.AnnualRate.Decimal,
				TermMonths: loan.TermMonths,
			})
		}
		ctx.Participants = append(ctx.Participants, participant)
	}

	for _, l := range d.Lots {
		lot := project.Lot{
			ID:             l.ID,
			Origin:         project.LotOrigin(l.Origin),
			Status:         project.LotStatus(l.Status),
			Owner:          l.Owner,
			Surface:        l.Surface.Decimal,
			HeldForPortage: l.HeldForPortage,
		}
		if lot.ID == "" {
			lot.ID = idGenerator()
		}
		if lot.Status == "" {
			lot.Status = project.LotStatusAvailable
		}
		if l.Acquisition != nil {
			lot.Acquisition = &project.Acquisition{
				Date:             l.Acquisition.Date.Time,
				TotalCost:        l.Acquisition.TotalCost.Decimal,
				PurchaseShare:    l.Acquisition.PurchaseShare.Decimal,
				RegistrationFees: l.Acquisition.RegistrationFees.Decimal,
				ConstructionCost: l.Acquisition.ConstructionCost.Decimal,
				SharedCostShare:  l.Acquisition.SharedCostShare.Decimal,
			}
		}
		for i := range ctx.Participants {
			if ctx.Participants[i].ID == lot.Owner {
				ctx.Participants[i].LotIDs = append(ctx.Participants[i].LotIDs, lot.ID)
			}
		}
		ctx.Lots = append(ctx.Lots, lot)
	}

	events := make([]event.Event, 0, len(d.Events))
	for i, doc := range d.Events {
		evt, err := doc.toEvent()
		if err != nil {
			return project.Context{}, nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, evt)
	}

	if err := ctx.Validate(); err != nil {
		return project.Context{}, nil, fmt.Errorf("fixture invariants: %w", err)
	}
	return ctx, events, nil
}

func (e EventDoc) toEvent() (event.Event, error) {
	switch event.Type(e.Type) {
	case event.TypeCompromisSigned:
		return event.CompromisSigned{CompromisDate: e.Date.Time, Deposit: e.Deposit.Decimal}, nil
	case event.TypeAllConditionsMet:
		return event.AllConditionsMet{}, nil
	case event.TypeDeedSigned:
		return event.DeedSigned{DeedDate: e.Date.Time}, nil
	case event.TypeDeedRegistered:
		return event.DeedRegistered{RegistrationDate: e.Date.Time}, nil
	case event.TypeStartCoproCreation:
		return event.StartCoproCreation{}, nil
	case event.TypeTechnicalReportReady:
		return event.TechnicalReportReady{}, nil
	case event.TypePrecadRequested:
		return event.PrecadRequested{Reference: e.Reference, RequestedAt: e.Date.Time}, nil
	case event.TypePrecadApproved:
		return event.PrecadApproved{ApprovalDate: e.Date.Time}, nil
	case event.TypeActeDrafted:
		return event.ActeDrafted{}, nil
	case event.TypeActeSigned:
		return event.ActeSigned{ActeDate: e.Date.Time}, nil
	case event.TypeActeTranscribed:
		return event.ActeTranscribed{TranscriptionDate: e.Date.Time, ACPNumber: e.ACPNumber}, nil
	case event.TypeRequestPermit:
		return event.RequestPermit{RequestedAt: e.Date.Time}, nil
	case event.TypePermitGranted:
		return event.PermitGranted{GrantDate: e.Date.Time}, nil
	case event.TypePermitRejected:
		return event.PermitRejected{}, nil
	case event.TypePermitEnacted:
		return event.PermitEnacted{EnactmentDate: e.Date.Time}, nil
	case event.TypeDeclareHiddenLots:
		return event.DeclareHiddenLots{LotIDs: e.LotIDs}, nil
	case event.TypeFirstSale:
		return event.FirstSale{OccurredAt: e.Date.Time}, nil
	case event.TypeSaleInitiated:
		return event.SaleInitiated{
			LotID:          e.LotID,
			SellerID:       e.SellerID,
			BuyerID:        e.BuyerID,
			ProposedPrice:  e.ProposedPrice.Decimal,
			SaleDate:       e.Date.Time,
			WithIndexation: e.WithIndexation,
			RenovationCost: e.RenovationCost.Decimal,
		}, nil
	case event.TypeBuyerApproved:
		return event.BuyerApproved{CandidateID: e.CandidateID, InterviewDate: e.InterviewDate.Time, Notes: e.Notes}, nil
	case event.TypeBuyerRejected:
		return event.BuyerRejected{}, nil
	case event.TypeCompleteSale:
		return event.CompleteSale{}, nil
	case event.TypeAllLotsSold:
		return event.AllLotsSold{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}
