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

// TransactionType distinguishes the direction of a cash movement
type TransactionType string

const (
	// TransactionTypePayment is a member paying money into the shared
	// pool, e.g. settling up or a voluntary deposit
	TransactionTypePayment TransactionType = "PAYMENT"
	// TransactionTypeReceived is money the house collectively took in,
	// credited to the recording member's side of the ledger
	TransactionTypeReceived TransactionType = "RECEIVED"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypePayment || t == TransactionTypeReceived
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// PaymentStatus represents the approval status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

// Payment represents a direct cash-movement record aggregate root,
// independent of any specific expense
type Payment struct {
	shared.HouseAggregateRoot
	MemberID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:varchar(500)"`
	PaidAt      time.Time       `gorm:"not null"` // when the cash actually moved
	Type        TransactionType `gorm:"type:varchar(20);not null"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	ResolvedAt  *time.Time
	ResolvedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record in PENDING status
func NewPayment(
	houseID uuid.UUID,
	memberID uuid.UUID,
	amount valueobject.Money,
	description string,
	paidAt time.Time,
	txType TransactionType,
	recordedBy uuid.UUID,
) (*Payment, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewValidationError("Payment member is required")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewValidationError("Recording member is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown transaction type %q", txType))
	}
	if paidAt.IsZero() {
		return nil, shared.NewValidationError("Payment date is required")
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return nil, shared.NewValidationError("Description cannot exceed 500 characters")
	}

	p := &Payment{
		HouseAggregateRoot: shared.NewHouseAggregateRootWithCreator(houseID, recordedBy),
		MemberID:           memberID,
		Amount:             amount.Amount(),
		Description:        description,
		PaidAt:             paidAt,
		Type:               txType,
		Status:             PaymentStatusPending,
		RecordedBy:         recordedBy,
	}

	p.AddDomainEvent(NewPaymentRecordedEvent(p))

	return p, nil
}

// GetAmountMoney returns the payment amount as a Money value object
func (p *Payment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, valueobject.DefaultCurrency)
	return m
}

// Approve confirms the payment record, making it count toward balances
func (p *Payment) Approve(adminID uuid.UUID) error {
	if p.Status != PaymentStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot approve a payment in %s status", p.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Approving admin is required")
	}

	now := time.Now()
	p.Status = PaymentStatusApproved
	p.ResolvedAt = &now
	p.ResolvedBy = &adminID
	p.Touch(now)
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentApprovedEvent(p))

	return nil
}

// Reject refuses the payment record
func (p *Payment) Reject(adminID uuid.UUID) error {
	if p.Status != PaymentStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot reject a payment in %s status", p.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Rejecting admin is required")
	}

	now := time.Now()
	p.Status = PaymentStatusRejected
	p.ResolvedAt = &now
	p.ResolvedBy = &adminID
	p.Touch(now)
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRejectedEvent(p))

	return nil
}

// Update modifies the editable fields of a still-pending payment.
// Approved and rejected payments are immutable history.
func (p *Payment) Update(amount valueobject.Money, description string, paidAt time.Time) error {
	if p.Status != PaymentStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot edit a payment in %s status", p.Status))
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("Payment amount must be positive")
	}
	if paidAt.IsZero() {
		return shared.NewValidationError("Payment date is required")
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return shared.NewValidationError("Description cannot exceed 500 characters")
	}

	p.Amount = amount.Amount()
	p.Description = description
	p.PaidAt = paidAt
	p.Touch(time.Now())
	p.IncrementVersion()

	return nil
}

// EnsureDeletable checks that the payment may still be removed
func (p *Payment) EnsureDeletable() error {
	if p.Status != PaymentStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot delete a payment in %s status", p.Status))
	}
	return nil
}
