package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
	"github.com/houseledger/backend/internal/infrastructure/telemetry"
)

// ExpenseService provides application-level expense request operations
type ExpenseService struct {
	expenseRepo settlement.ExpenseRepository
	memberRepo  household.MemberRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo settlement.ExpenseRepository,
	memberRepo household.MemberRepository,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		memberRepo:  memberRepo,
	}
}

// Create submits a new expense request. Specific and custom splits are
// validated and frozen at submission time; equal splits are computed
// later, at approval, from the then-current membership. When the actor
// is an admin the request approves itself on the spot.
func (s *ExpenseService) Create(ctx context.Context, actor Actor, req CreateExpenseRequest) (*ExpenseResponse, error) {
	total, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	payerID := actor.MemberID
	if req.PayerID != nil {
		payerID = *req.PayerID
	}
	if _, err := s.memberRepo.FindByIDForHouse(ctx, actor.HouseID, payerID); err != nil {
		return nil, shared.NewValidationError("Payer is not a member of the house")
	}

	expense, err := settlement.NewExpense(
		actor.HouseID,
		actor.MemberID,
		req.Description,
		settlement.ExpenseCategory(req.Category),
		total,
		settlement.SplitType(req.SplitType),
		payerID,
	)
	if err != nil {
		return nil, err
	}

	// non-equal splits are frozen now; equal splits wait for approval
	if expense.SplitType != settlement.SplitTypeEqual {
		memberIDs, err := s.memberRepo.ActiveMemberIDs(ctx, actor.HouseID)
		if err != nil {
			return nil, err
		}
		input, err := splitInput(expense, memberIDs, req)
		if err != nil {
			return nil, err
		}
		shares, err := settlement.ComputeSplits(input)
		if err != nil {
			return nil, err
		}
		if err := expense.AttachSplits(shares); err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		if err := s.approve(ctx, actor, expense, "", req); err != nil {
			return nil, err
		}
	}
	publishEvents(ctx, expense)

	return toExpenseResponse(expense), nil
}

// GetByID returns one expense with its splits
func (s *ExpenseService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List returns expenses of the actor's house with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, actor Actor, filter ExpenseListFilter) (*shared.Paginated[*ExpenseResponse], error) {
	domainFilter := toExpenseFilter(filter)

	expenses, err := s.expenseRepo.FindAllForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenseRepo.CountForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = toExpenseResponse(&expenses[i])
	}

	page := paginate(responses, total, domainFilter.Filter)
	return &page, nil
}

// Approve approves a pending expense and materializes its invoices.
// Only admins may approve. The PENDING to APPROVED flip, the frozen
// splits and the invoice inserts all land in one transaction; a
// concurrent approval loses the conditional update and gets a
// ConflictError instead of a second set of invoices.
func (s *ExpenseService) Approve(ctx context.Context, actor Actor, id uuid.UUID, req ApproveExpenseRequest) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "approve")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may approve expenses")
	}

	expense, err := s.expenseRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}

	if err := s.approve(ctx, actor, expense, req.Note, CreateExpenseRequest{}); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, expense)
	return toExpenseResponse(expense), nil
}

// approve runs the shared approval path for both the explicit admin
// approval and the admin auto-approval at creation. The expense must
// already be persisted in PENDING status.
func (s *ExpenseService) approve(ctx context.Context, actor Actor, expense *settlement.Expense, note string, req CreateExpenseRequest) error {
	if expense.SplitType == settlement.SplitTypeEqual {
		memberIDs, err := s.memberRepo.ActiveMemberIDs(ctx, actor.HouseID)
		if err != nil {
			return err
		}
		input, err := splitInput(expense, memberIDs, req)
		if err != nil {
			return err
		}
		shares, err := settlement.ComputeSplits(input)
		if err != nil {
			return err
		}
		if err := expense.AttachSplits(shares); err != nil {
			return err
		}
	}

	if err := expense.Approve(actor.MemberID, note); err != nil {
		return err
	}

	invoices := make([]*settlement.Invoice, 0, len(expense.Splits))
	for _, split := range expense.Splits {
		invoice, err := settlement.NewInvoice(expense.HouseID, expense.ID, split.MemberID, split.GetAmountMoney())
		if err != nil {
			return err
		}
		invoices = append(invoices, invoice)
	}

	return s.expenseRepo.ApproveAndCreateInvoices(ctx, expense, invoices)
}

// Reject rejects a pending expense with a mandatory reason
func (s *ExpenseService) Reject(ctx context.Context, actor Actor, id uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may reject expenses")
	}

	expense, err := s.expenseRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Reject(actor.MemberID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveStatus(ctx, expense); err != nil {
		return nil, err
	}
	publishEvents(ctx, expense)
	return toExpenseResponse(expense), nil
}

// DeleteOwn lets the creator withdraw their own still-pending request
func (s *ExpenseService) DeleteOwn(ctx context.Context, actor Actor, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return err
	}
	if err := expense.EnsureDeletableBy(actor.MemberID); err != nil {
		return err
	}
	return s.expenseRepo.DeleteForHouse(ctx, actor.HouseID, id)
}

func splitInput(e *settlement.Expense, houseMemberIDs []uuid.UUID, req CreateExpenseRequest) (settlement.SplitInput, error) {
	custom := make(map[uuid.UUID]valueobject.Money, len(req.CustomAmounts))
	for id, amount := range req.CustomAmounts {
		m, err := valueobject.NewMoney(amount, valueobject.DefaultCurrency)
		if err != nil {
			return settlement.SplitInput{}, shared.NewValidationError(fmt.Sprintf("Invalid custom amount for member %s: %v", id, err))
		}
		custom[id] = m
	}
	return settlement.SplitInput{
		Total:          e.GetTotalMoney(),
		Type:           e.SplitType,
		PayerID:        e.PayerID,
		HouseMemberIDs: houseMemberIDs,
		ParticipantIDs: req.ParticipantIDs,
		CustomAmounts:  custom,
	}, nil
}

func toExpenseFilter(f ExpenseListFilter) settlement.ExpenseFilter {
	out := settlement.ExpenseFilter{
		Filter:    shared.Filter{Page: f.Page, PageSize: f.PageSize},
		PayerID:   f.PayerID,
		CreatedBy: f.CreatedBy,
		FromDate:  f.FromDate,
		ToDate:    f.ToDate,
	}
	if f.Status != "" {
		status := settlement.ExpenseStatus(f.Status)
		out.Status = &status
	}
	if f.Category != "" {
		category := settlement.ExpenseCategory(f.Category)
		out.Category = &category
	}
	return out
}
