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

// ExpenseStatus represents the approval status of an expense request
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// ExpenseSplit is one member's owed portion of an expense, persisted as
// a child row of the expense
type ExpenseSplit struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ExpenseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MemberID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ExpenseSplit) TableName() string {
	return "expense_splits"
}

// GetAmountMoney returns the split amount as a Money value object
func (s *ExpenseSplit) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(s.Amount, valueobject.DefaultCurrency)
	return m
}

// Expense represents a proposed shared expense aggregate root. It is
// submitted by a member, reviewed by a house admin and, once approved,
// becomes the immutable source of the invoices issued to the non-payer
// participants.
type Expense struct {
	shared.HouseAggregateRoot
	Description     string          `gorm:"type:varchar(500);not null"`
	Category        ExpenseCategory `gorm:"type:varchar(30);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SplitType       SplitType       `gorm:"type:varchar(20);not null"`
	PayerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          ExpenseStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Splits          []ExpenseSplit  `gorm:"foreignKey:ExpenseID;references:ID"`
	AdminNote       string          `gorm:"type:varchar(500)"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense request in PENDING status
func NewExpense(
	houseID uuid.UUID,
	createdBy uuid.UUID,
	description string,
	category ExpenseCategory,
	total valueobject.Money,
	splitType SplitType,
	payerID uuid.UUID,
) (*Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewValidationError("Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewValidationError("Description cannot exceed 500 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("Expense category is not valid")
	}
	if !total.IsPositive() {
		return nil, shared.NewValidationError("Total amount must be positive")
	}
	if !splitType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown split type %q", splitType))
	}
	if payerID == uuid.Nil {
		return nil, shared.NewValidationError("Payer is required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewValidationError("Creator is required")
	}

	e := &Expense{
		HouseAggregateRoot: shared.NewHouseAggregateRootWithCreator(houseID, createdBy),
		Description:        description,
		Category:           category,
		TotalAmount:        total.Amount(),
		SplitType:          splitType,
		PayerID:            payerID,
		Status:             ExpenseStatusPending,
		Splits:             make([]ExpenseSplit, 0),
	}

	e.AddDomainEvent(NewExpenseCreatedEvent(e))

	return e, nil
}

// GetTotalMoney returns the total amount as a Money value object
func (e *Expense) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.TotalAmount, valueobject.DefaultCurrency)
	return m
}

// AttachSplits freezes the computed shares onto the expense. The shares
// of all charged members must, together with the payer's implicit share,
// reconcile against the total; the calculator guarantees this, so here
// only the per-row shape is checked.
func (e *Expense) AttachSplits(shares []SplitShare) error {
	if e.Status.IsTerminal() {
		return shared.NewConflictError(fmt.Sprintf("Cannot modify splits of a %s expense", e.Status))
	}
	splits := make([]ExpenseSplit, len(shares))
	for i, share := range shares {
		if share.MemberID == e.PayerID {
			return shared.NewValidationError("The payer cannot owe their own expense")
		}
		splits[i] = ExpenseSplit{
			ID:        uuid.New(),
			ExpenseID: e.ID,
			MemberID:  share.MemberID,
			Amount:    share.Amount.Amount(),
		}
	}
	e.Splits = splits
	return nil
}

// Approve marks the expense approved. Only PENDING expenses can be
// approved; the transition is terminal and one-shot.
func (e *Expense) Approve(adminID uuid.UUID, note string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Approving admin is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedAt = &now
	e.ApprovedBy = &adminID
	e.AdminNote = note
	e.Touch(now)
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseApprovedEvent(e))

	return nil
}

// Reject marks the expense rejected with a mandatory reason
func (e *Expense) Reject(adminID uuid.UUID, reason string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("Rejecting admin is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("A rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.RejectedBy = &adminID
	e.RejectionReason = reason
	e.Touch(now)
	e.IncrementVersion()

	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// EnsureDeletableBy checks that the requester may withdraw this expense.
// Only the original creator may delete, and only while the request is
// still pending; reviewed expenses are a permanent record.
func (e *Expense) EnsureDeletableBy(requesterID uuid.UUID) error {
	if e.CreatedBy == nil || *e.CreatedBy != requesterID {
		return shared.NewForbiddenError("Only the creator may delete an expense request")
	}
	if e.Status != ExpenseStatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot delete an expense in %s status", e.Status))
	}
	return nil
}
