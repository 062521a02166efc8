package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared"
)

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	Status    *ExpenseStatus
	Category  *ExpenseCategory
	PayerID   *uuid.UUID
	CreatedBy *uuid.UUID
	FromDate  *time.Time
	ToDate    *time.Time
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByIDForHouse finds an expense with its splits by ID for a house
	FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*Expense, error)

	// FindAllForHouse lists expenses for a house with filtering
	FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter ExpenseFilter) ([]Expense, error)

	// FindApprovedWithSplits loads all approved expenses of a house
	// including their split rows, for the expense-centric balance view
	FindApprovedWithSplits(ctx context.Context, houseID uuid.UUID) ([]Expense, error)

	// CountForHouse counts expenses for a house with filtering
	CountForHouse(ctx context.Context, houseID uuid.UUID, filter ExpenseFilter) (int64, error)

	// Create persists a new expense and its splits
	Create(ctx context.Context, expense *Expense) error

	// ApproveAndCreateInvoices atomically flips the expense from PENDING
	// to APPROVED, persists its frozen splits and inserts the invoices.
	// The status flip is a conditional update; if another actor already
	// moved the expense out of PENDING, nothing is written and
	// shared.ErrConflict is returned, so concurrent approvals can never
	// double-create invoices.
	ApproveAndCreateInvoices(ctx context.Context, expense *Expense, invoices []*Invoice) error

	// SaveStatus persists a terminal status change (rejection)
	// guarded on the expense still being PENDING
	SaveStatus(ctx context.Context, expense *Expense) error

	// DeleteForHouse removes a pending expense and its splits
	DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	Status    *InvoiceStatus
	MemberID  *uuid.UUID
	ExpenseID *uuid.UUID
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForHouse finds an invoice by ID for a house
	FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*Invoice, error)

	// FindAllForHouse lists invoices for a house with filtering
	FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindPendingByMember lists a member's PENDING invoices, oldest first
	FindPendingByMember(ctx context.Context, houseID, memberID uuid.UUID) ([]Invoice, error)

	// FindAllForBalance loads the house's full invoice history without
	// pagination, for balance derivation
	FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]Invoice, error)

	// CountForHouse counts invoices for a house with filtering
	CountForHouse(ctx context.Context, houseID uuid.UUID, filter InvoiceFilter) (int64, error)

	// SaveWithStatusGuard persists an invoice transition guarded on the
	// row still holding the expected prior status; returns
	// shared.ErrConflict if another actor transitioned it first
	SaveWithStatusGuard(ctx context.Context, invoice *Invoice, expected InvoiceStatus) error
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Status   *PaymentStatus
	Type     *TransactionType
	MemberID *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForHouse finds a payment by ID for a house
	FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*Payment, error)

	// FindAllForHouse lists payments for a house with filtering
	FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// CountForHouse counts payments for a house with filtering
	CountForHouse(ctx context.Context, houseID uuid.UUID, filter PaymentFilter) (int64, error)

	// FindAllForBalance loads the house's full payment history without
	// pagination, for balance derivation
	FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]Payment, error)

	// Create persists a new payment record
	Create(ctx context.Context, payment *Payment) error

	// Save persists changes to a pending payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithStatusGuard persists a payment transition guarded on the
	// row still holding the expected prior status
	SaveWithStatusGuard(ctx context.Context, payment *Payment, expected PaymentStatus) error

	// DeleteForHouse removes a pending payment
	DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error
}
