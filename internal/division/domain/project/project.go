package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyProjectName indicates a missing project name.
	ErrEmptyProjectName = errors.New("project name is required")
)

// IndexRate is the compounding factor for one calendar year.
type IndexRate struct {
	Year int
	Rate decimal.Decimal
}

// Constants holds the project-wide financial constants used by the
// carrying-cost calculator and the copropriété pricing formula.
type Constants struct {
	BaseCostPerSqm       decimal.Decimal
	PropertyTaxMonthly   decimal.Decimal
	InsuranceMonthly     decimal.Decimal
	SyndicFeeMonthly     decimal.Decimal
	CommonChargesMonthly decimal.Decimal
}

// Milestones records the legal milestone dates of the project. Each date is
// nil until the corresponding event is processed, and set exactly once by
// the state machine (permit requests may be re-recorded after a rejection).
type Milestones struct {
	CompromisDate       *time.Time
	BankDeadline        *time.Time
	DeedDate            *time.Time
	RegistrationDate    *time.Time
	PrecadReference     string
	PrecadRequestedAt   *time.Time
	PrecadApprovalDate  *time.Time
	ActeDeBaseDate      *time.Time
	TranscriptionDate   *time.Time
	ACPEnterpriseNumber string
	PermitRequestedAt   *time.Time
	PermitGrantDate     *time.Time
	PermitEnactmentDate *time.Time
	FirstSaleAt         *time.Time
}

// FinancingApplication tracks a participant's bank financing request.
// Declared in the event vocabulary but not yet wired to transitions.
type FinancingApplication struct {
	ParticipantID string
	Bank          string
	Amount        decimal.Decimal
	Status        string
	SubmittedAt   time.Time
}

// CollectiveLoanContribution tracks a participant's pledged contribution and
// vote on the collective loan. Declared but not yet wired to transitions.
type CollectiveLoanContribution struct {
	ParticipantID string
	Contribution  decimal.Decimal
	Approve       bool
	CastAt        time.Time
}

// Context is the single mutable aggregate of a division project. It is
// created once at project start with null dates and empty collections and
// mutated only through validated state-machine events.
type Context struct {
	ProjectID     string
	Name          string
	CoproEntityID string

	Milestones Milestones
	Constants  Constants
	Deposit    decimal.Decimal

	IndexRates   []IndexRate
	Participants []Participant
	Lots         []Lot
	Sales        []Sale
	PendingSale  *PendingSale

	FinancingApplications map[string]FinancingApplication
	CollectiveLoan        map[string]CollectiveLoanContribution
}

// NewContextInput describes the data needed to start a project.
type NewContextInput struct {
	Name          string
	CoproEntityID string
	Constants     Constants
}

// NewContext creates the project aggregate at its starting point.
func NewContext(input NewContextInput, idGenerator func() string) (Context, error) {
	if idGenerator == nil {
		idGenerator = NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Context{}, ErrEmptyProjectName
	}
	if strings.TrimSpace(input.CoproEntityID) == "" {
		input.CoproEntityID = "copro"
	}

	return Context{
		ProjectID:             idGenerator(),
		Name:                  input.Name,
		CoproEntityID:         input.CoproEntityID,
		Constants:             input.Constants,
		FinancingApplications: make(map[string]FinancingApplication),
		CollectiveLoan:        make(map[string]CollectiveLoanContribution),
	}, nil
}

// Clone returns a deep copy of the aggregate. Snapshots handed to readers
// and the state machine's copy-on-write reduction both rely on it.
func (c Context) Clone() Context {
	out := c

	out.IndexRates = append([]IndexRate(nil), c.IndexRates...)

	if c.Participants != nil {
		out.Participants = make([]Participant, len(c.Participants))
		for i, p := range c.Participants {
			out.Participants[i] = p.clone()
		}
	}
	if c.Lots != nil {
		out.Lots = make([]Lot, len(c.Lots))
		for i, l := range c.Lots {
			out.Lots[i] = l.clone()
		}
	}
	if c.Sales != nil {
		out.Sales = make([]Sale, len(c.Sales))
		for i, s := range c.Sales {
			out.Sales[i] = s.clone()
		}
	}
	if c.PendingSale != nil {
		pending := *c.PendingSale
		if c.PendingSale.Approval != nil {
			approval := *c.PendingSale.Approval
			pending.Approval = &approval
		}
		out.PendingSale = &pending
	}
	if c.FinancingApplications != nil {
		out.FinancingApplications = make(map[string]FinancingApplication, len(c.FinancingApplications))
		for k, v := range c.FinancingApplications {
			out.FinancingApplications[k] = v
		}
	}
	if c.CollectiveLoan != nil {
		out.CollectiveLoan = make(map[string]CollectiveLoanContribution, len(c.CollectiveLoan))
		for k, v := range c.CollectiveLoan {
			out.CollectiveLoan[k] = v
		}
	}

	out.Milestones = c.Milestones.clone()
	return out
}

func (m Milestones) clone() Milestones {
	out := m
	out.CompromisDate = cloneTime(m.CompromisDate)
	out.BankDeadline = cloneTime(m.BankDeadline)
	out.DeedDate = cloneTime(m.DeedDate)
	out.RegistrationDate = cloneTime(m.RegistrationDate)
	out.PrecadRequestedAt = cloneTime(m.PrecadRequestedAt)
	out.PrecadApprovalDate = cloneTime(m.PrecadApprovalDate)
	out.ActeDeBaseDate = cloneTime(m.ActeDeBaseDate)
	out.TranscriptionDate = cloneTime(m.TranscriptionDate)
	out.PermitRequestedAt = cloneTime(m.PermitRequestedAt)
	out.PermitGrantDate = cloneTime(m.PermitGrantDate)
	out.PermitEnactmentDate = cloneTime(m.PermitEnactmentDate)
	out.FirstSaleAt = cloneTime(m.FirstSaleAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// LotByID returns a copy of the lot with the given ID.
func (c Context) LotByID(id string) (Lot, bool) {
	for _, l := range c.Lots {
		if l.ID == id {
			return l.clone(), true
		}
	}
	return Lot{}, false
}

// ParticipantByID returns a copy of the participant with the given ID.
func (c Context) ParticipantByID(id string) (Participant, bool) {
	for _, p := range c.Participants {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Participant{}, false
}

// OwnedSurface sums the surface of all lots owned by a participant.
func (c Context) OwnedSurface(participantID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lots {
		if l.Owner == participantID {
			total = total.Add(l.Surface)
		}
	}
	return total
}

// TotalSurface sums the surface of every lot in the project.
func (c Context) TotalSurface() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lots {
		total = total.Add(l.Surface)
	}
	return total
}

// CoproSales returns the completed copropriété sales in completion order.
func (c Context) CoproSales() []Sale {
	var out []Sale
	for _, s := range c.Sales {
		if s.Type == SaleTypeCopro {
			out = append(out, s.clone())
		}
	}
	return out
}

// milestoneOrder lists the legally ordered milestone dates for Validate.
func (m Milestones) milestoneOrder() []struct {
	name string
	date *time.Time
} {
	return []struct {
		name string
		date *time.Time
	}{
		{"compromis", m.CompromisDate},
		{"deed", m.DeedDate},
		{"registration", m.RegistrationDate},
		{"acte de base", m.ActeDeBaseDate},
		{"transcription", m.TranscriptionDate},
		{"permit request", m.PermitRequestedAt},
		{"permit grant", m.PermitGrantDate},
		{"permit enactment", m.PermitEnactmentDate},
	}
}

// Validate checks the structural invariants of the aggregate. It is used
// after persistence round-trips and in tests; the state machine maintains
// these invariants by construction.
func (c Context) Validate() error {
	last := struct {
		name string
		date time.Time
	}{}
	for _, milestone := range c.Milestones.milestoneOrder() {
		if milestone.date == nil {
			continue
		}
		if !last.date.IsZero() && milestone.date.Before(last.date) {
			return fmt.Errorf("milestone %s (%s) precedes %s (%s)",
				milestone.name, milestone.date.Format("2006-01-02"),
				last.name, last.date.Format("2006-01-02"))
		}
		last.name = milestone.name
		last.date = *milestone.date
	}

	seenParticipants := make(map[string]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		if _, dup := seenParticipants[p.ID]; dup {
			return fmt.Errorf("duplicate participant id %q", p.ID)
		}
		seenParticipants[p.ID] = struct{}{}
	}

	soldLots := make(map[string]struct{}, len(c.Sales))
	for _, s := range c.Sales {
		soldLots[s.LotID] = struct{}{}
	}

	seenLots := make(map[string]struct{}, len(c.Lots))
	for _, l := range c.Lots {
		if _, dup := seenLots[l.ID]; dup {
			return fmt.Errorf("duplicate lot id %q", l.ID)
		}
		seenLots[l.ID] = struct{}{}

		if l.HeldForPortage {
			if l.Origin != LotOriginFounder {
				return fmt.Errorf("lot %q held for portage but origin is %q", l.ID, l.Origin)
			}
			if l.Acquisition == nil {
				return fmt.Errorf("lot %q held for portage without acquisition record", l.ID)
			}
		}
		if l.Status == LotStatusSold {
			if _, ok := soldLots[l.ID]; !ok {
				return fmt.Errorf("lot %q marked sold without a completed sale", l.ID)
			}
		}
	}

	if c.PendingSale != nil {
		if _, ok := seenLots[c.PendingSale.LotID]; !ok {
			return fmt.Errorf("pending sale references unknown lot %q", c.PendingSale.LotID)
		}
	}

	return nil
}
