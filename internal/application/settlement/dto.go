package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Actor identifies the authenticated member performing an operation,
// as extracted from the JWT claims by the HTTP layer.
type Actor struct {
	MemberID uuid.UUID
	HouseID  uuid.UUID
	Role     household.Role
}

// IsAdmin returns true if the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == household.RoleAdmin
}

// ===================== Expense DTOs =====================

// CreateExpenseRequest represents a request to submit a shared expense
type CreateExpenseRequest struct {
	Description    string                        `json:"description" binding:"required"`
	Category       string                        `json:"category" binding:"required"`
	Amount         decimal.Decimal               `json:"amount" binding:"required"`
	SplitType      string                        `json:"split_type" binding:"required"`
	PayerID        *uuid.UUID                    `json:"payer_id"` // defaults to the actor
	ParticipantIDs []uuid.UUID                   `json:"participant_ids"`
	CustomAmounts  map[uuid.UUID]decimal.Decimal `json:"custom_amounts"`
}

// RejectExpenseRequest represents an admin rejection of an expense
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ApproveExpenseRequest carries the optional admin note on approval
type ApproveExpenseRequest struct {
	Note string `json:"note"`
}

// ExpenseListFilter defines filtering options for expense list queries
type ExpenseListFilter struct {
	Status    string     `form:"status"`
	Category  string     `form:"category"`
	PayerID   *uuid.UUID `form:"payer_id"`
	CreatedBy *uuid.UUID `form:"created_by"`
	FromDate  *time.Time `form:"from_date"`
	ToDate    *time.Time `form:"to_date"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// SplitResponse represents one member's owed portion in API responses
type SplitResponse struct {
	MemberID uuid.UUID       `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	HouseID         uuid.UUID       `json:"house_id"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SplitType       string          `json:"split_type"`
	PayerID         uuid.UUID       `json:"payer_id"`
	Status          string          `json:"status"`
	Splits          []SplitResponse `json:"splits"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	AdminNote       string          `json:"admin_note,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID      `json:"rejected_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

func toExpenseResponse(e *settlement.Expense) *ExpenseResponse {
	splits := make([]SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = SplitResponse{MemberID: s.MemberID, Amount: s.Amount}
	}
	return &ExpenseResponse{
		ID:              e.ID,
		HouseID:         e.HouseID,
		Description:     e.Description,
		Category:        e.Category.String(),
		TotalAmount:     e.TotalAmount,
		SplitType:       e.SplitType.String(),
		PayerID:         e.PayerID,
		Status:          e.Status.String(),
		Splits:          splits,
		CreatedBy:       e.CreatedBy,
		AdminNote:       e.AdminNote,
		ApprovedAt:      e.ApprovedAt,
		ApprovedBy:      e.ApprovedBy,
		RejectedAt:      e.RejectedAt,
		RejectedBy:      e.RejectedBy,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		Version:         e.Version,
	}
}

// ===================== Invoice DTOs =====================

// RejectInvoiceRequest represents an admin rejection of a payment claim
type RejectInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Status    string     `form:"status"`
	MemberID  *uuid.UUID `form:"member_id"`
	ExpenseID *uuid.UUID `form:"expense_id"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	HouseID         uuid.UUID       `json:"house_id"`
	ExpenseID       uuid.UUID       `json:"expense_id"`
	MemberID        uuid.UUID       `json:"member_id"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	RequestedAt     *time.Time      `json:"requested_at,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy      *uuid.UUID      `json:"resolved_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

func toInvoiceResponse(i *settlement.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:              i.ID,
		HouseID:         i.HouseID,
		ExpenseID:       i.ExpenseID,
		MemberID:        i.MemberID,
		Amount:          i.Amount,
		Status:          i.Status.String(),
		RequestedAt:     i.RequestedAt,
		ResolvedAt:      i.ResolvedAt,
		ResolvedBy:      i.ResolvedBy,
		RejectionReason: i.RejectionReason,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
		Version:         i.Version,
	}
}

// ===================== Payment DTOs =====================

// RecordPaymentRequest represents a request to record a money transfer
type RecordPaymentRequest struct {
	MemberID    *uuid.UUID      `json:"member_id"` // admins may record for others
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	PaidAt      time.Time       `json:"paid_at" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	PreApproved bool            `json:"pre_approved"` // admin only
}

// UpdatePaymentRequest represents an edit to a still-pending payment
type UpdatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	PaidAt      time.Time       `json:"paid_at" binding:"required"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	Status   string     `form:"status"`
	Type     string     `form:"type"`
	MemberID *uuid.UUID `form:"member_id"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	HouseID     uuid.UUID       `json:"house_id"`
	MemberID    uuid.UUID       `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	PaidAt      time.Time       `json:"paid_at"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	RecordedBy  uuid.UUID       `json:"recorded_by"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy  *uuid.UUID      `json:"resolved_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func toPaymentResponse(p *settlement.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		HouseID:     p.HouseID,
		MemberID:    p.MemberID,
		Amount:      p.Amount,
		Description: p.Description,
		PaidAt:      p.PaidAt,
		Type:        p.Type.String(),
		Status:      p.Status.String(),
		RecordedBy:  p.RecordedBy,
		ResolvedAt:  p.ResolvedAt,
		ResolvedBy:  p.ResolvedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// paginate wraps a page of responses, normalizing the page number and
// size the same way the repositories bound their queries
func paginate[T any](items []T, total int64, f shared.Filter) shared.Paginated[T] {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return shared.NewPaginated(items, total, page, f.Limit())
}

// ===================== Bulk operation DTOs =====================

// BulkItemResult reports the outcome of one item in a best-effort batch
type BulkItemResult struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// BulkResult summarizes a best-effort batch operation
type BulkResult struct {
	Accepted int              `json:"accepted"`
	Skipped  int              `json:"skipped"`
	Items    []BulkItemResult `json:"items"`
}

// ===================== Balance DTOs =====================

// BalanceResponse represents one member's net position in API responses
type BalanceResponse struct {
	MemberID  uuid.UUID       `json:"member_id"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceAuditEntry compares one member's invoice-derived and
// expense-derived balances
type BalanceAuditEntry struct {
	MemberID       uuid.UUID       `json:"member_id"`
	InvoiceBalance decimal.Decimal `json:"invoice_balance"`
	ExpenseBalance decimal.Decimal `json:"expense_balance"`
	Converged      bool            `json:"converged"`
}

// BalanceAuditResponse reports whether the two balance views agree for
// every active member of the house
type BalanceAuditResponse struct {
	Converged bool                `json:"converged"`
	Members   []BalanceAuditEntry `json:"members"`
}

func toBalanceResponse(b settlement.MemberBalance) BalanceResponse {
	return BalanceResponse{
		MemberID:  b.MemberID,
		TotalOwed: b.TotalOwed,
		TotalPaid: b.TotalPaid,
		Balance:   b.Balance,
	}
}
