package settlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/infrastructure/telemetry"
)

// BalanceService derives member balances on demand. Balances are never
// stored: every call folds the full invoice and payment history, so the
// result can never drift from the ledgers it is derived from.
type BalanceService struct {
	expenseRepo settlement.ExpenseRepository
	invoiceRepo settlement.InvoiceRepository
	paymentRepo settlement.PaymentRepository
	memberRepo  household.MemberRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	expenseRepo settlement.ExpenseRepository,
	invoiceRepo settlement.InvoiceRepository,
	paymentRepo settlement.PaymentRepository,
	memberRepo household.MemberRepository,
) *BalanceService {
	return &BalanceService{
		expenseRepo: expenseRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
	}
}

// ForHouse computes the balance of every active member of the house
func (s *BalanceService) ForHouse(ctx context.Context, actor Actor) ([]BalanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "for_house")
	defer span.End()

	memberIDs, invoices, payments, err := s.loadSources(ctx, actor.HouseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	balances := settlement.ComputeBalances(memberIDs, invoices, payments)
	responses := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = toBalanceResponse(b)
	}
	return responses, nil
}

// ForMember computes one member's balance
func (s *BalanceService) ForMember(ctx context.Context, actor Actor, memberID uuid.UUID) (*BalanceResponse, error) {
	if _, err := s.memberRepo.FindByIDForHouse(ctx, actor.HouseID, memberID); err != nil {
		return nil, err
	}

	_, invoices, payments, err := s.loadSources(ctx, actor.HouseID)
	if err != nil {
		return nil, err
	}

	balances := settlement.ComputeBalances([]uuid.UUID{memberID}, invoices, payments)
	if len(balances) == 0 {
		return nil, shared.NewNotFoundError("Member balance not found")
	}
	response := toBalanceResponse(balances[0])
	return &response, nil
}

// Audit recomputes every member's balance from the approved expenses'
// split rows and compares it with the canonical invoice-derived
// balance. Invoices are frozen copies of those splits, so the two
// views must agree; a divergence means a ledger was mutated outside
// the workflow. Admin only.
func (s *BalanceService) Audit(ctx context.Context, actor Actor) (*BalanceAuditResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may audit balances")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "balance", "audit")
	defer span.End()

	memberIDs, invoices, payments, err := s.loadSources(ctx, actor.HouseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	expenses, err := s.expenseRepo.FindApprovedWithSplits(ctx, actor.HouseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	invoiceView := settlement.ComputeBalances(memberIDs, invoices, payments)
	expenseView := settlement.ComputeBalancesFromExpenses(memberIDs, expenses, invoices, payments)

	response := &BalanceAuditResponse{
		Converged: true,
		Members:   make([]BalanceAuditEntry, len(memberIDs)),
	}
	for i := range memberIDs {
		converged := invoiceView[i].Balance.Equal(expenseView[i].Balance)
		if !converged {
			response.Converged = false
		}
		response.Members[i] = BalanceAuditEntry{
			MemberID:       memberIDs[i],
			InvoiceBalance: invoiceView[i].Balance,
			ExpenseBalance: expenseView[i].Balance,
			Converged:      converged,
		}
	}
	return response, nil
}

// loadSources fetches the three read-only inputs of the fold. The reads
// are independent, so they run concurrently; the fold tolerates the
// sources being read at slightly different instants.
func (s *BalanceService) loadSources(ctx context.Context, houseID uuid.UUID) ([]uuid.UUID, []settlement.Invoice, []settlement.Payment, error) {
	var (
		wg        sync.WaitGroup
		memberIDs []uuid.UUID
		invoices  []settlement.Invoice
		payments  []settlement.Payment
		memberErr error
		invErr    error
		payErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		memberIDs, memberErr = s.memberRepo.ActiveMemberIDs(ctx, houseID)
	}()
	go func() {
		defer wg.Done()
		invoices, invErr = s.invoiceRepo.FindAllForBalance(ctx, houseID)
	}()
	go func() {
		defer wg.Done()
		payments, payErr = s.paymentRepo.FindAllForBalance(ctx, houseID)
	}()
	wg.Wait()

	for _, err := range []error{memberErr, invErr, payErr} {
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return memberIDs, invoices, payments, nil
}
