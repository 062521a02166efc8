package settlement

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
)

// SplitType represents how an expense total is divided among members
type SplitType string

const (
	SplitTypeEqual    SplitType = "EQUAL"    // evenly across all house members
	SplitTypeSpecific SplitType = "SPECIFIC" // evenly across a selected subset
	SplitTypeCustom   SplitType = "CUSTOM"   // caller-supplied exact amounts
)

// IsValid checks if the split type is a valid SplitType
func (t SplitType) IsValid() bool {
	switch t {
	case SplitTypeEqual, SplitTypeSpecific, SplitTypeCustom:
		return true
	}
	return false
}

// String returns the string representation of SplitType
func (t SplitType) String() string {
	return string(t)
}

// SplitShare is one member's owed portion of an expense total
type SplitShare struct {
	MemberID uuid.UUID
	Amount   valueobject.Money
}

// SplitInput carries everything the calculator needs to divide a total
type SplitInput struct {
	Total          valueobject.Money
	Type           SplitType
	PayerID        uuid.UUID
	HouseMemberIDs []uuid.UUID                     // all active members of the house
	ParticipantIDs []uuid.UUID                     // SPECIFIC: the selected members
	CustomAmounts  map[uuid.UUID]valueobject.Money // CUSTOM: exact per-member amounts
}

// ComputeSplits divides an expense total into per-member owed shares.
// It is a pure function with no side effects.
//
// The shares of all charged members (payer included, where charged) sum
// exactly to the total; rounding remainders are assigned one cent at a
// time to members in ascending ID order. The returned slice never
// contains the payer, since nobody owes themselves, and is ordered by
// ascending member ID.
func ComputeSplits(in SplitInput) ([]SplitShare, error) {
	if !in.Type.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown split type %q", in.Type))
	}
	if !in.Total.IsPositive() {
		return nil, shared.NewValidationError("Total amount must be positive")
	}
	if in.PayerID == uuid.Nil {
		return nil, shared.NewValidationError("Payer is required")
	}
	if len(in.HouseMemberIDs) == 0 {
		return nil, shared.NewValidationError("House has no members to split across")
	}
	if !containsID(in.HouseMemberIDs, in.PayerID) {
		return nil, shared.NewValidationError("Payer is not a member of the house")
	}

	switch in.Type {
	case SplitTypeEqual:
		return splitEvenly(in.Total, in.HouseMemberIDs, in.PayerID)
	case SplitTypeSpecific:
		return splitSpecific(in)
	default:
		return splitCustom(in)
	}
}

// splitEvenly divides the total across the given members and drops the
// payer's own share from the result.
func splitEvenly(total valueobject.Money, memberIDs []uuid.UUID, payerID uuid.UUID) ([]SplitShare, error) {
	ordered := sortedIDs(memberIDs)
	parts, err := total.Allocate(len(ordered))
	if err != nil {
		return nil, err
	}

	shares := make([]SplitShare, 0, len(ordered)-1)
	for i, id := range ordered {
		if id == payerID {
			continue
		}
		shares = append(shares, SplitShare{MemberID: id, Amount: parts[i]})
	}
	return shares, nil
}

func splitSpecific(in SplitInput) ([]SplitShare, error) {
	if len(in.ParticipantIDs) == 0 {
		return nil, shared.NewValidationError("A specific split requires at least one selected member")
	}
	seen := make(map[uuid.UUID]bool, len(in.ParticipantIDs))
	for _, id := range in.ParticipantIDs {
		if seen[id] {
			return nil, shared.NewValidationError("Selected members must be unique")
		}
		seen[id] = true
		if !containsID(in.HouseMemberIDs, id) {
			return nil, shared.NewValidationError(fmt.Sprintf("Selected member %s does not belong to the house", id))
		}
	}
	return splitEvenly(in.Total, in.ParticipantIDs, in.PayerID)
}

func splitCustom(in SplitInput) ([]SplitShare, error) {
	if len(in.CustomAmounts) == 0 {
		return nil, shared.NewValidationError("A custom split requires per-member amounts")
	}

	ids := make([]uuid.UUID, 0, len(in.CustomAmounts))
	sum := valueobject.Zero()
	for id, amount := range in.CustomAmounts {
		if !containsID(in.HouseMemberIDs, id) {
			return nil, shared.NewValidationError(fmt.Sprintf("Member %s does not belong to the house", id))
		}
		if amount.IsNegative() {
			return nil, shared.NewValidationError("Custom amounts cannot be negative")
		}
		added, err := sum.Add(amount)
		if err != nil {
			return nil, shared.NewValidationError(err.Error())
		}
		sum = added
		ids = append(ids, id)
	}
	if !sum.Equals(in.Total) {
		return nil, shared.NewValidationError(fmt.Sprintf(
			"Custom amounts sum to %s but the expense total is %s", sum, in.Total))
	}

	shares := make([]SplitShare, 0, len(ids))
	for _, id := range sortedIDs(ids) {
		if id == in.PayerID {
			continue
		}
		shares = append(shares, SplitShare{MemberID: id, Amount: in.CustomAmounts[id]})
	}
	return shares, nil
}

// sortedIDs returns a copy of ids in ascending byte order
func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
