package settlement

import (
	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when an invoice is materialized from an
// approved expense split
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	ExpenseID uuid.UUID       `json:"expense_id"`
	MemberID  uuid.UUID       `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", i.ID, i.HouseID),
		InvoiceID:       i.ID,
		ExpenseID:       i.ExpenseID,
		MemberID:        i.MemberID,
		Amount:          i.Amount,
	}
}

// InvoicePaymentRequestedEvent is raised when a member asks for
// confirmation of an out-of-band payment
type InvoicePaymentRequestedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	MemberID  uuid.UUID       `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewInvoicePaymentRequestedEvent creates a new InvoicePaymentRequestedEvent
func NewInvoicePaymentRequestedEvent(i *Invoice) *InvoicePaymentRequestedEvent {
	return &InvoicePaymentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaymentRequested", "Invoice", i.ID, i.HouseID),
		InvoiceID:       i.ID,
		MemberID:        i.MemberID,
		Amount:          i.Amount,
	}
}

// InvoicePaidEvent is raised when an admin confirms an invoice as paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Amount     decimal.Decimal `json:"amount"`
	ResolvedBy uuid.UUID       `json:"resolved_by"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	var resolvedBy uuid.UUID
	if i.ResolvedBy != nil {
		resolvedBy = *i.ResolvedBy
	}
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", i.ID, i.HouseID),
		InvoiceID:       i.ID,
		MemberID:        i.MemberID,
		Amount:          i.Amount,
		ResolvedBy:      resolvedBy,
	}
}

// InvoiceRejectedEvent is raised when an admin rejects a payment claim
type InvoiceRejectedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID `json:"invoice_id"`
	MemberID        uuid.UUID `json:"member_id"`
	RejectionReason string    `json:"rejection_reason"`
}

// NewInvoiceRejectedEvent creates a new InvoiceRejectedEvent
func NewInvoiceRejectedEvent(i *Invoice) *InvoiceRejectedEvent {
	return &InvoiceRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceRejected", "Invoice", i.ID, i.HouseID),
		InvoiceID:       i.ID,
		MemberID:        i.MemberID,
		RejectionReason: i.RejectionReason,
	}
}
