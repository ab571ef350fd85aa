package project

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanKind distinguishes the purpose of a participant loan.
type LoanKind string

const (
	// LoanKindPurchase finances the initial lot purchase.
	LoanKindPurchase LoanKind = "purchase"
	// LoanKindRenovation finances renovation works.
	LoanKindRenovation LoanKind = "renovation"
)

var (
	// ErrEmptyParticipantName indicates a missing participant name.
	ErrEmptyParticipantName = errors.New("participant name is required")
	// ErrZeroEntryDate indicates a missing participant entry date.
	ErrZeroEntryDate = errors.New("participant entry date is required")
)

// Loan describes a participant loan used for carrying-cost interest.
type Loan struct {
	Kind       LoanKind
	Amount     decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
}

// Participant is a member of the division project. Founders entered the
// project at (or before) the notarial deed; everyone else is a newcomer.
type Participant struct {
	ID        string
	Name      string
	Founder   bool
	EntryDate time.Time
	LotIDs    []string
	Loans     []Loan
}

// CreateParticipantInput describes the data needed to create a participant.
type CreateParticipantInput struct {
	Name      string
	Founder   bool
	EntryDate time.Time
	Loans     []Loan
}

// CreateParticipant creates a participant with a generated ID.
func CreateParticipant(input CreateParticipantInput, idGenerator func() string) (Participant, error) {
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateParticipantInput(input)
	if err != nil {
		return Participant{}, err
	}

	return Participant{
		ID:        idGenerator(),
		Name:      normalized.Name,
		Founder:   normalized.Founder,
		EntryDate: normalized.EntryDate,
		Loans:     append([]Loan(nil), normalized.Loans...),
	}, nil
}

// NormalizeCreateParticipantInput trims and validates participant input.
func NormalizeCreateParticipantInput(input CreateParticipantInput) (CreateParticipantInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateParticipantInput{}, ErrEmptyParticipantName
	}
	if input.EntryDate.IsZero() {
		return CreateParticipantInput{}, ErrZeroEntryDate
	}
	return input, nil
}

func (p Participant) clone() Participant {
	out := p
	out.LotIDs = append([]string(nil), p.LotIDs...)
	out.Loans = append([]Loan(nil), p.Loans...)
	return out
}
