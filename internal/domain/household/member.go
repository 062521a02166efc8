package household

import (
	"strings"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
)

// Role represents a member's role within a house
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Member represents a person belonging to a house. Members are the
// subjects of every settlement record: they pay expenses, owe invoices
// and record payments.
type Member struct {
	shared.BaseAggregateRoot
	HouseID      uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
}

// NewMember creates a new house member
func NewMember(houseID uuid.UUID, name, email, passwordHash string, role Role) (*Member, error) {
	if houseID == uuid.Nil {
		return nil, shared.NewValidationError("House ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Member name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("Member name cannot exceed 100 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("A valid email address is required")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Role must be ADMIN or MEMBER")
	}

	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		HouseID:           houseID,
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              role,
		Active:            true,
	}, nil
}

// IsAdmin returns true if the member holds the house admin role
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Deactivate marks the member as no longer active in the house.
// Inactive members keep their historical invoices and payments.
func (m *Member) Deactivate() {
	m.Active = false
	m.IncrementVersion()
}
