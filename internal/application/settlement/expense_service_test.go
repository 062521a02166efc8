package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func memberActor(houseID uuid.UUID) Actor {
	return Actor{MemberID: uuid.New(), HouseID: houseID, Role: household.RoleMember}
}

func adminActor(houseID uuid.UUID) Actor {
	return Actor{MemberID: uuid.New(), HouseID: houseID, Role: household.RoleAdmin}
}

func testMember(t *testing.T, houseID uuid.UUID, role household.Role) *household.Member {
	t.Helper()
	m, err := household.NewMember(houseID, "Test Member", "member@example.com", "hash", role)
	require.NoError(t, err)
	return m
}

func pendingExpense(t *testing.T, houseID uuid.UUID, creator, payer uuid.UUID, splitType settlement.SplitType) *settlement.Expense {
	t.Helper()
	e, err := settlement.NewExpense(houseID, creator, "Shared groceries",
		settlement.ExpenseCategoryGroceries, valueobject.NewMoneyFromFloat(100), splitType, payer)
	require.NoError(t, err)
	return e
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestExpenseService_Create_MemberSubmitsEqualSplit(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	memberRepo.On("FindByIDForHouse", ctx, houseID, actor.MemberID).
		Return(testMember(t, houseID, household.RoleMember), nil)
	expenseRepo.On("Create", ctx, mock.AnythingOfType("*settlement.Expense")).Return(nil)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description: "Groceries",
		Category:    "GROCERIES",
		Amount:      decimal.NewFromInt(100),
		SplitType:   "EQUAL",
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, actor.MemberID, result.PayerID)
	// equal splits are not frozen at submission
	assert.Empty(t, result.Splits)

	expenseRepo.AssertNotCalled(t, "ApproveAndCreateInvoices", mock.Anything, mock.Anything, mock.Anything)
	expenseRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}

func TestExpenseService_Create_AdminAutoApproves(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)
	other := uuid.New()

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	memberRepo.On("FindByIDForHouse", ctx, houseID, actor.MemberID).
		Return(testMember(t, houseID, household.RoleAdmin), nil)
	memberRepo.On("ActiveMemberIDs", ctx, houseID).
		Return([]uuid.UUID{actor.MemberID, other}, nil)
	expenseRepo.On("Create", ctx, mock.AnythingOfType("*settlement.Expense")).Return(nil)
	expenseRepo.On("ApproveAndCreateInvoices", ctx, mock.AnythingOfType("*settlement.Expense"),
		mock.MatchedBy(func(invoices []*settlement.Invoice) bool {
			return len(invoices) == 1 && invoices[0].MemberID == other
		})).Return(nil)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description: "Rent",
		Category:    "RENT",
		Amount:      decimal.NewFromInt(800),
		SplitType:   "EQUAL",
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "APPROVED", result.Status)
	require.Len(t, result.Splits, 1)
	assert.Equal(t, other, result.Splits[0].MemberID)
	assert.Equal(t, "400", result.Splits[0].Amount.String())

	expenseRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}

func TestExpenseService_Create_SpecificSplitFrozenAtSubmission(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)
	selected := uuid.New()

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	memberRepo.On("FindByIDForHouse", ctx, houseID, actor.MemberID).
		Return(testMember(t, houseID, household.RoleMember), nil)
	memberRepo.On("ActiveMemberIDs", ctx, houseID).
		Return([]uuid.UUID{actor.MemberID, selected, uuid.New()}, nil)
	expenseRepo.On("Create", ctx, mock.MatchedBy(func(e *settlement.Expense) bool {
		return len(e.Splits) == 1 && e.Splits[0].MemberID == selected
	})).Return(nil)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description:    "Takeaway for two",
		Category:       "ENTERTAINMENT",
		Amount:         decimal.NewFromInt(30),
		SplitType:      "SPECIFIC",
		ParticipantIDs: []uuid.UUID{selected},
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "PENDING", result.Status)
	require.Len(t, result.Splits, 1)
	assert.Equal(t, "30", result.Splits[0].Amount.String())

	expenseRepo.AssertExpectations(t)
}

func TestExpenseService_Create_CustomSumMismatch(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)
	other := uuid.New()

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	memberRepo.On("FindByIDForHouse", ctx, houseID, actor.MemberID).
		Return(testMember(t, houseID, household.RoleMember), nil)
	memberRepo.On("ActiveMemberIDs", ctx, houseID).
		Return([]uuid.UUID{actor.MemberID, other}, nil)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description: "Uneven bill",
		Category:    "OTHER",
		Amount:      decimal.NewFromInt(100),
		SplitType:   "CUSTOM",
		CustomAmounts: map[uuid.UUID]decimal.Decimal{
			other: decimal.NewFromInt(40), // 60 short of the total
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "sum to")

	expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseService_Approve_Success(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)
	creator := uuid.New()
	payer := uuid.New()
	other := uuid.New()

	expense := pendingExpense(t, houseID, creator, payer, settlement.SplitTypeEqual)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	expenseRepo.On("FindByIDForHouse", mock.Anything, houseID, expense.ID).Return(expense, nil)
	memberRepo.On("ActiveMemberIDs", mock.Anything, houseID).
		Return([]uuid.UUID{payer, other}, nil)
	expenseRepo.On("ApproveAndCreateInvoices", mock.Anything, expense,
		mock.MatchedBy(func(invoices []*settlement.Invoice) bool {
			return len(invoices) == 1 && invoices[0].MemberID == other &&
				invoices[0].ExpenseID == expense.ID
		})).Return(nil)

	result, err := service.Approve(ctx, actor, expense.ID, ApproveExpenseRequest{Note: "ok"})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "APPROVED", result.Status)
	assert.Equal(t, "ok", result.AdminNote)

	expenseRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
}

func TestExpenseService_Approve_NonAdminForbidden(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	result, err := service.Approve(ctx, actor, uuid.New(), ApproveExpenseRequest{})

	assert.Nil(t, result)
	assertDomainCode(t, err, "FORBIDDEN")
	expenseRepo.AssertNotCalled(t, "FindByIDForHouse", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpenseService_Approve_ConcurrentApprovalConflicts(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)
	payer := uuid.New()

	expense := pendingExpense(t, houseID, uuid.New(), payer, settlement.SplitTypeEqual)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	expenseRepo.On("FindByIDForHouse", mock.Anything, houseID, expense.ID).Return(expense, nil)
	memberRepo.On("ActiveMemberIDs", mock.Anything, houseID).
		Return([]uuid.UUID{payer, uuid.New()}, nil)
	// another admin won the conditional update first
	expenseRepo.On("ApproveAndCreateInvoices", mock.Anything, expense, mock.Anything).
		Return(shared.NewConflictError("Expense is no longer pending"))

	result, err := service.Approve(ctx, actor, expense.ID, ApproveExpenseRequest{})

	assert.Nil(t, result)
	assertDomainCode(t, err, "CONFLICT")
	expenseRepo.AssertExpectations(t)
}

func TestExpenseService_Reject_Success(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)

	expense := pendingExpense(t, houseID, uuid.New(), uuid.New(), settlement.SplitTypeEqual)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	expenseRepo.On("FindByIDForHouse", ctx, houseID, expense.ID).Return(expense, nil)
	expenseRepo.On("SaveStatus", ctx, expense).Return(nil)

	result, err := service.Reject(ctx, actor, expense.ID, RejectExpenseRequest{Reason: "duplicate entry"})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "REJECTED", result.Status)
	assert.Equal(t, "duplicate entry", result.RejectionReason)

	expenseRepo.AssertExpectations(t)
}

func TestExpenseService_DeleteOwn(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	t.Run("creator deletes own pending expense", func(t *testing.T) {
		expense := pendingExpense(t, houseID, actor.MemberID, actor.MemberID, settlement.SplitTypeEqual)

		expenseRepo := new(MockExpenseRepository)
		service := NewExpenseService(expenseRepo, new(MockMemberRepository))

		expenseRepo.On("FindByIDForHouse", ctx, houseID, expense.ID).Return(expense, nil)
		expenseRepo.On("DeleteForHouse", ctx, houseID, expense.ID).Return(nil)

		assert.NoError(t, service.DeleteOwn(ctx, actor, expense.ID))
		expenseRepo.AssertExpectations(t)
	})

	t.Run("someone else's expense is forbidden", func(t *testing.T) {
		expense := pendingExpense(t, houseID, uuid.New(), uuid.New(), settlement.SplitTypeEqual)

		expenseRepo := new(MockExpenseRepository)
		service := NewExpenseService(expenseRepo, new(MockMemberRepository))

		expenseRepo.On("FindByIDForHouse", ctx, houseID, expense.ID).Return(expense, nil)

		err := service.DeleteOwn(ctx, actor, expense.ID)
		assertDomainCode(t, err, "FORBIDDEN")
		expenseRepo.AssertNotCalled(t, "DeleteForHouse", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExpenseService_List(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	expense := pendingExpense(t, houseID, uuid.New(), uuid.New(), settlement.SplitTypeEqual)

	expenseRepo := new(MockExpenseRepository)
	service := NewExpenseService(expenseRepo, new(MockMemberRepository))

	expenseRepo.On("FindAllForHouse", ctx, houseID, mock.AnythingOfType("settlement.ExpenseFilter")).
		Return([]settlement.Expense{*expense}, nil)
	expenseRepo.On("CountForHouse", ctx, houseID, mock.AnythingOfType("settlement.ExpenseFilter")).
		Return(int64(1), nil)

	result, err := service.List(ctx, actor, ExpenseListFilter{Status: "PENDING", Page: 1, PageSize: 20})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, expense.ID, result.Items[0].ID)

	expenseRepo.AssertExpectations(t)
}

func TestExpenseService_Create_SubCentAmountRejected(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description: "Groceries",
		Category:    "GROCERIES",
		Amount:      decimal.RequireFromString("10.005"),
		SplitType:   "EQUAL",
	})

	assert.Nil(t, result)
	assertDomainCode(t, err, "VALIDATION_ERROR")
	expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExpenseService_Create_SubCentCustomAmountRejected(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)
	other := uuid.New()

	expenseRepo := new(MockExpenseRepository)
	memberRepo := new(MockMemberRepository)
	service := NewExpenseService(expenseRepo, memberRepo)

	memberRepo.On("FindByIDForHouse", ctx, houseID, actor.MemberID).
		Return(testMember(t, houseID, household.RoleMember), nil)
	memberRepo.On("ActiveMemberIDs", ctx, houseID).
		Return([]uuid.UUID{actor.MemberID, other}, nil)

	result, err := service.Create(ctx, actor, CreateExpenseRequest{
		Description: "Utilities",
		Category:    "UTILITIES",
		Amount:      decimal.NewFromInt(10),
		SplitType:   "CUSTOM",
		CustomAmounts: map[uuid.UUID]decimal.Decimal{
			other: decimal.RequireFromString("10.0001"),
		},
	})

	assert.Nil(t, result)
	assertDomainCode(t, err, "VALIDATION_ERROR")
	expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
