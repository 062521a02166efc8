package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/stretchr/testify/mock"
)

// MockExpenseRepository is a mock implementation of settlement.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Expense, error) {
	args := m.Called(ctx, houseID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.ExpenseFilter) ([]settlement.Expense, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).([]settlement.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindApprovedWithSplits(ctx context.Context, houseID uuid.UUID) ([]settlement.Expense, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]settlement.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *settlement.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ApproveAndCreateInvoices(ctx context.Context, expense *settlement.Expense, invoices []*settlement.Invoice) error {
	args := m.Called(ctx, expense, invoices)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveStatus(ctx context.Context, expense *settlement.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error {
	args := m.Called(ctx, houseID, id)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of settlement.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Invoice, error) {
	args := m.Called(ctx, houseID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.InvoiceFilter) ([]settlement.Invoice, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).([]settlement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingByMember(ctx context.Context, houseID, memberID uuid.UUID) ([]settlement.Invoice, error) {
	args := m.Called(ctx, houseID, memberID)
	return args.Get(0).([]settlement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]settlement.Invoice, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]settlement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SaveWithStatusGuard(ctx context.Context, invoice *settlement.Invoice, expected settlement.InvoiceStatus) error {
	args := m.Called(ctx, invoice, expected)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of settlement.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Payment, error) {
	args := m.Called(ctx, houseID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.PaymentFilter) ([]settlement.Payment, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).([]settlement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.PaymentFilter) (int64, error) {
	args := m.Called(ctx, houseID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]settlement.Payment, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]settlement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *settlement.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *settlement.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithStatusGuard(ctx context.Context, payment *settlement.Payment, expected settlement.PaymentStatus) error {
	args := m.Called(ctx, payment, expected)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error {
	args := m.Called(ctx, houseID, id)
	return args.Error(0)
}

// MockMemberRepository is a mock implementation of household.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*household.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*household.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*household.Member, error) {
	args := m.Called(ctx, houseID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*household.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*household.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*household.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID) ([]household.Member, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]household.Member), args.Error(1)
}

func (m *MockMemberRepository) ActiveMemberIDs(ctx context.Context, houseID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *household.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
