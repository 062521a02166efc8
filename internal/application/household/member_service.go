package household

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// MemberResponse represents a house member in API responses
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	HouseID   uuid.UUID `json:"house_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMemberRequest represents a request to add a member to the house
type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// MemberService provides application-level membership operations
type MemberService struct {
	memberRepo household.MemberRepository
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo household.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// List returns all members of a house, active first
func (s *MemberService) List(ctx context.Context, houseID uuid.UUID) ([]MemberResponse, error) {
	members, err := s.memberRepo.FindAllForHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = toMemberResponse(&members[i])
	}
	return responses, nil
}

// GetByID returns one member of a house
func (s *MemberService) GetByID(ctx context.Context, houseID, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForHouse(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	response := toMemberResponse(member)
	return &response, nil
}

// Create adds a new member to the house. Admin only; email must not be
// taken by any existing member.
func (s *MemberService) Create(ctx context.Context, houseID uuid.UUID, req CreateMemberRequest) (*MemberResponse, error) {
	if existing, err := s.memberRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.NewConflictError("A member with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member, err := household.NewMember(houseID, req.Name, req.Email, string(hash), household.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	response := toMemberResponse(member)
	return &response, nil
}

// Deactivate removes a member from future splits without deleting
// their history
func (s *MemberService) Deactivate(ctx context.Context, houseID, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByIDForHouse(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	member.Deactivate()
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	response := toMemberResponse(member)
	return &response, nil
}

func toMemberResponse(m *household.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		HouseID:   m.HouseID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role.String(),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}
