package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMember(t *testing.T, repo *GormMemberRepository, houseID uuid.UUID, id, email string, role household.Role, active bool) *household.Member {
	t.Helper()

	member, err := household.NewMember(houseID, "Member "+id, email, "hash", role)
	require.NoError(t, err)
	member.ID = uuid.MustParse(id)
	member.Active = active
	require.NoError(t, repo.Save(context.Background(), member))
	return member
}

func TestGormMemberRepository_FindByEmail(t *testing.T) {
	repo := NewGormMemberRepository(newTestDB(t))
	houseID := uuid.New()

	seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000001",
		"alice@example.com", household.RoleAdmin, true)

	found, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.Equal(t, household.RoleAdmin, found.Role)

	// lookup is case-insensitive on the stored lowercase address
	found, err = repo.FindByEmail(context.Background(), "  ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMemberRepository_FindByIDForHouse(t *testing.T) {
	repo := NewGormMemberRepository(newTestDB(t))
	houseID := uuid.New()
	otherHouse := uuid.New()

	member := seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000001",
		"alice@example.com", household.RoleMember, true)

	found, err := repo.FindByIDForHouse(context.Background(), houseID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)

	_, err = repo.FindByIDForHouse(context.Background(), otherHouse, member.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMemberRepository_ActiveMemberIDs(t *testing.T) {
	repo := NewGormMemberRepository(newTestDB(t))
	houseID := uuid.New()

	// seeded out of order on purpose; the repository must return ascending IDs
	seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000003",
		"carol@example.com", household.RoleMember, true)
	seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000001",
		"alice@example.com", household.RoleAdmin, true)
	seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000002",
		"bob@example.com", household.RoleMember, false)
	seedMember(t, repo, uuid.New(), "00000000-0000-0000-0000-000000000004",
		"dave@example.com", household.RoleMember, true)

	ids, err := repo.ActiveMemberIDs(context.Background(), houseID)
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000001"), ids[0])
	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000003"), ids[1])
}

func TestGormMemberRepository_SaveUpdatesExisting(t *testing.T) {
	repo := NewGormMemberRepository(newTestDB(t))
	houseID := uuid.New()

	member := seedMember(t, repo, houseID, "00000000-0000-0000-0000-000000000001",
		"alice@example.com", household.RoleMember, true)

	member.Deactivate()
	require.NoError(t, repo.Save(context.Background(), member))

	found, err := repo.FindByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)
}
