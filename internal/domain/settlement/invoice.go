package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending          InvoiceStatus = "PENDING"
	InvoiceStatusAwaitingApproval InvoiceStatus = "AWAITING_APPROVAL"
	InvoiceStatusPaid             InvoiceStatus = "PAID"
	InvoiceStatusRejected         InvoiceStatus = "REJECTED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusAwaitingApproval, InvoiceStatusPaid, InvoiceStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice can no longer change
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusRejected
}

// Invoice represents one member's frozen obligation to reimburse the
// payer of an approved expense. Invoices are created exactly once, at
// expense approval, and their amount is never re-derived afterwards:
// later edits to the expense must not touch settled obligations.
type Invoice struct {
	shared.HouseAggregateRoot
	ExpenseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MemberID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status          InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RequestedAt     *time.Time      // when the member requested payment confirmation
	ResolvedAt      *time.Time      // when an admin confirmed or rejected
	ResolvedBy      *uuid.UUID      `gorm:"type:uuid"`
	RejectionReason string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice from an approved expense split
func NewInvoice(houseID, expenseID, memberID uuid.UUID, amount valueobject.Money) (*Invoice, error) {
	if expenseID == uuid.Nil {
		return nil, shared.NewValidationError("Expense reference is required")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice member is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Invoice amount must be positive")
	}

	inv := &Invoice{
		HouseAggregateRoot: shared.NewHouseAggregateRoot(houseID),
		ExpenseID:          expenseID,
		MemberID:           memberID,
		Amount:             amount.Amount(),
		Status:             InvoiceStatusPending,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// GetAmountMoney returns the invoice amount as a Money value object
func (i *Invoice) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(i.Amount, valueobject.DefaultCurrency)
	return m
}

// RequestPayment records that the owning member claims to have paid the
// payer outside the system and asks an admin to confirm. Only the
// invoice's own member may request, and only while the invoice is
// still PENDING.
func (i *Invoice) RequestPayment(memberID uuid.UUID) error {
	if memberID != i.MemberID {
		return shared.NewForbiddenError("Only the invoice's member may request payment confirmation")
	}
	if i.Status != InvoiceStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot request payment for an invoice in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvoiceStatusAwaitingApproval
	i.RequestedAt = &now
	i.Touch(now)
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaymentRequestedEvent(i))

	return nil
}

// Approve confirms the payment claim, settling the invoice permanently
func (i *Invoice) Approve(adminID uuid.UUID) error {
	if i.Status != InvoiceStatusAwaitingApproval {
		return shared.NewConflictError(fmt.Sprintf("Cannot approve an invoice in %s status", i.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Approving admin is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.ResolvedAt = &now
	i.ResolvedBy = &adminID
	i.Touch(now)
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// Reject refuses the payment claim, closing the invoice permanently
func (i *Invoice) Reject(adminID uuid.UUID, reason string) error {
	if i.Status != InvoiceStatusAwaitingApproval {
		return shared.NewConflictError(fmt.Sprintf("Cannot reject an invoice in %s status", i.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Rejecting admin is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("A rejection reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusRejected
	i.ResolvedAt = &now
	i.ResolvedBy = &adminID
	i.RejectionReason = reason
	i.Touch(now)
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceRejectedEvent(i))

	return nil
}
