package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// HouseAggregateRoot extends BaseAggregateRoot with household scoping.
// Every settlement record belongs to exactly one house, which is the
// aggregation boundary for all balances.
type HouseAggregateRoot struct {
	BaseAggregateRoot
	HouseID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // Member who created this record
}

// NewHouseAggregateRoot creates a new house-scoped aggregate root
func NewHouseAggregateRoot(houseID uuid.UUID) HouseAggregateRoot {
	return HouseAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		HouseID:           houseID,
	}
}

// NewHouseAggregateRootWithCreator creates a new house-scoped aggregate root with creator info
func NewHouseAggregateRootWithCreator(houseID, createdBy uuid.UUID) HouseAggregateRoot {
	return HouseAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		HouseID:           houseID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator member ID
func (h *HouseAggregateRoot) SetCreatedBy(memberID uuid.UUID) {
	h.CreatedBy = &memberID
}

// GetCreatedBy returns the creator member ID
func (h *HouseAggregateRoot) GetCreatedBy() *uuid.UUID {
	return h.CreatedBy
}
