package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseCreatedEvent is raised when a new expense request is submitted
type ExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseID   uuid.UUID       `json:"expense_id"`
	Category    ExpenseCategory `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SplitType   SplitType       `json:"split_type"`
	PayerID     uuid.UUID       `json:"payer_id"`
}

// NewExpenseCreatedEvent creates a new ExpenseCreatedEvent
func NewExpenseCreatedEvent(e *Expense) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExpenseCreated", "Expense", e.ID, e.HouseID),
		ExpenseID:       e.ID,
		Category:        e.Category,
		TotalAmount:     e.TotalAmount,
		SplitType:       e.SplitType,
		PayerID:         e.PayerID,
	}
}

// ExpenseApprovedEvent is raised when an admin approves an expense
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	ExpenseID   uuid.UUID       `json:"expense_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	ApprovedAt  time.Time       `json:"approved_at"`
	SplitCount  int             `json:"split_count"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	approvedAt := time.Now()
	if e.ApprovedAt != nil {
		approvedAt = *e.ApprovedAt
	}
	var approvedBy uuid.UUID
	if e.ApprovedBy != nil {
		approvedBy = *e.ApprovedBy
	}
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExpenseApproved", "Expense", e.ID, e.HouseID),
		ExpenseID:       e.ID,
		TotalAmount:     e.TotalAmount,
		ApprovedBy:      approvedBy,
		ApprovedAt:      approvedAt,
		SplitCount:      len(e.Splits),
	}
}

// ExpenseRejectedEvent is raised when an admin rejects an expense
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	ExpenseID       uuid.UUID `json:"expense_id"`
	RejectedBy      uuid.UUID `json:"rejected_by"`
	RejectionReason string    `json:"rejection_reason"`
}

// NewExpenseRejectedEvent creates a new ExpenseRejectedEvent
func NewExpenseRejectedEvent(e *Expense) *ExpenseRejectedEvent {
	var rejectedBy uuid.UUID
	if e.RejectedBy != nil {
		rejectedBy = *e.RejectedBy
	}
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExpenseRejected", "Expense", e.ID, e.HouseID),
		ExpenseID:       e.ID,
		RejectedBy:      rejectedBy,
		RejectionReason: e.RejectionReason,
	}
}
