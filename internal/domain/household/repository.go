package household

import (
	"context"

	"github.com/google/uuid"
)

// MemberRepository is the membership directory: it resolves which members
// belong to a house and answers identity lookups for authentication.
type MemberRepository interface {
	// FindByID finds a member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByIDForHouse finds a member by ID scoped to a house
	FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*Member, error)

	// FindByEmail finds a member by email address
	FindByEmail(ctx context.Context, email string) (*Member, error)

	// FindAllForHouse lists all members of a house, active first,
	// ordered by ascending member ID
	FindAllForHouse(ctx context.Context, houseID uuid.UUID) ([]Member, error)

	// ActiveMemberIDs lists the IDs of all active members of a house in
	// ascending order. The ordering is load-bearing: equal splits assign
	// the rounding remainder to the first members of this list.
	ActiveMemberIDs(ctx context.Context, houseID uuid.UUID) ([]uuid.UUID, error)

	// Save creates or updates a member
	Save(ctx context.Context, member *Member) error
}
