package settlement

import (
	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentRecordedEvent is raised when a cash movement is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"transaction_type"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "Payment", p.ID, p.HouseID),
		PaymentID:       p.ID,
		MemberID:        p.MemberID,
		Amount:          p.Amount,
		Type:            p.Type,
		RecordedBy:      p.RecordedBy,
	}
}

// PaymentApprovedEvent is raised when an admin approves a payment record
type PaymentApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Amount     decimal.Decimal `json:"amount"`
	ResolvedBy uuid.UUID       `json:"resolved_by"`
}

// NewPaymentApprovedEvent creates a new PaymentApprovedEvent
func NewPaymentApprovedEvent(p *Payment) *PaymentApprovedEvent {
	var resolvedBy uuid.UUID
	if p.ResolvedBy != nil {
		resolvedBy = *p.ResolvedBy
	}
	return &PaymentApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentApproved", "Payment", p.ID, p.HouseID),
		PaymentID:       p.ID,
		MemberID:        p.MemberID,
		Amount:          p.Amount,
		ResolvedBy:      resolvedBy,
	}
}

// PaymentRejectedEvent is raised when an admin rejects a payment record
type PaymentRejectedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID `json:"payment_id"`
	MemberID   uuid.UUID `json:"member_id"`
	ResolvedBy uuid.UUID `json:"resolved_by"`
}

// NewPaymentRejectedEvent creates a new PaymentRejectedEvent
func NewPaymentRejectedEvent(p *Payment) *PaymentRejectedEvent {
	var resolvedBy uuid.UUID
	if p.ResolvedBy != nil {
		resolvedBy = *p.ResolvedBy
	}
	return &PaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRejected", "Payment", p.ID, p.HouseID),
		PaymentID:       p.ID,
		MemberID:        p.MemberID,
		ResolvedBy:      resolvedBy,
	}
}
