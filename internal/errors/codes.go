// Package errors provides machine-readable error codes for the division
// core. Invariant violations are fatal for the operation, everything else
// is recovered or a silent no-op at the state-machine boundary.
package errors

import (
	stderrors "errors"

	"github.com/creditcastor/division/internal/division/domain/finance"
	"github.com/creditcastor/division/internal/division/domain/machine"
	"github.com/creditcastor/division/internal/division/domain/pricing"
	"github.com/creditcastor/division/internal/division/domain/project"
	"github.com/creditcastor/division/internal/division/storage"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Project errors
	CodeProjectNameEmpty         Code = "PROJECT_NAME_EMPTY"
	CodeParticipantNameEmpty     Code = "PARTICIPANT_NAME_EMPTY"
	CodeParticipantEntryDateZero Code = "PARTICIPANT_ENTRY_DATE_ZERO"

	// Sale errors
	CodeLotUnknown          Code = "LOT_UNKNOWN"
	CodeLotNoAcquisition    Code = "LOT_NO_ACQUISITION"
	CodeSaleApprovalMissing Code = "SALE_APPROVAL_MISSING"
	CodeSaleNotPending      Code = "SALE_NOT_PENDING"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// FromError maps a domain error to its code.
func FromError(err error) Code {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, project.ErrEmptyProjectName):
		return CodeProjectNameEmpty
	case stderrors.Is(err, project.ErrEmptyParticipantName):
		return CodeParticipantNameEmpty
	case stderrors.Is(err, project.ErrZeroEntryDate):
		return CodeParticipantEntryDateZero
	case stderrors.Is(err, pricing.ErrUnknownLot), stderrors.Is(err, machine.ErrUnknownLot):
		return CodeLotUnknown
	case stderrors.Is(err, finance.ErrNoAcquisition):
		return CodeLotNoAcquisition
	case stderrors.Is(err, pricing.ErrApprovalMissing):
		return CodeSaleApprovalMissing
	case stderrors.Is(err, machine.ErrNoPendingSale):
		return CodeSaleNotPending
	case stderrors.Is(err, storage.ErrNotFound):
		return CodeNotFound
	default:
		return CodeUnknown
	}
}
