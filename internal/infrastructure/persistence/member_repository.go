package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMemberRepository implements household.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*household.Member, error) {
	var member household.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByIDForHouse finds a member by ID scoped to a house
func (r *GormMemberRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*household.Member, error) {
	var member household.Member
	if err := r.db.WithContext(ctx).
		First(&member, "id = ? AND house_id = ?", id, houseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByEmail finds a member by email address
func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*household.Member, error) {
	var member household.Member
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(&member, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindAllForHouse lists all members of a house, active first, then by ID
func (r *GormMemberRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID) ([]household.Member, error) {
	var members []household.Member
	if err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("active DESC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ActiveMemberIDs lists active member IDs in ascending order. The order
// must be stable across calls: equal splits assign the rounding
// remainder to the first IDs of this list.
func (r *GormMemberRepository) ActiveMemberIDs(ctx context.Context, houseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&household.Member{}).
		Where("house_id = ? AND active = ?", houseID, true).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *household.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
