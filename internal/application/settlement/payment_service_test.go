package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingPayment(t *testing.T, houseID, memberID, recordedBy uuid.UUID) *settlement.Payment {
	t.Helper()
	p, err := settlement.NewPayment(houseID, memberID, valueobject.NewMoneyFromFloat(25),
		"Bank transfer", time.Now().Add(-time.Hour), settlement.TransactionTypePayment, recordedBy)
	require.NoError(t, err)
	return p
}

func TestPaymentService_Record_MemberSelf(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *settlement.Payment) bool {
		return p.MemberID == actor.MemberID && p.Status == settlement.PaymentStatusPending
	})).Return(nil)

	result, err := service.Record(ctx, actor, RecordPaymentRequest{
		Amount: decimal.NewFromInt(25),
		PaidAt: time.Now(),
		Type:   "PAYMENT",
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, actor.MemberID, result.MemberID)
	assert.Equal(t, actor.MemberID, result.RecordedBy)

	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Record_MemberRestrictions(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	t.Run("cannot record for another member", func(t *testing.T) {
		other := uuid.New()
		_, err := service.Record(ctx, actor, RecordPaymentRequest{
			MemberID: &other,
			Amount:   decimal.NewFromInt(25),
			PaidAt:   time.Now(),
			Type:     "PAYMENT",
		})
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("cannot record received transactions", func(t *testing.T) {
		_, err := service.Record(ctx, actor, RecordPaymentRequest{
			Amount: decimal.NewFromInt(25),
			PaidAt: time.Now(),
			Type:   "RECEIVED",
		})
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("cannot pre-approve", func(t *testing.T) {
		_, err := service.Record(ctx, actor, RecordPaymentRequest{
			Amount:      decimal.NewFromInt(25),
			PaidAt:      time.Now(),
			Type:        "PAYMENT",
			PreApproved: true,
		})
		assertDomainCode(t, err, "FORBIDDEN")
	})

	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Record_AdminPreApprovedIncome(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)
	member := uuid.New()

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *settlement.Payment) bool {
		return p.Status == settlement.PaymentStatusApproved &&
			p.Type == settlement.TransactionTypeReceived &&
			p.MemberID == member
	})).Return(nil)

	result, err := service.Record(ctx, actor, RecordPaymentRequest{
		MemberID:    &member,
		Amount:      decimal.NewFromInt(120),
		Description: "Deposit refund",
		PaidAt:      time.Now(),
		Type:        "RECEIVED",
		PreApproved: true,
	})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "APPROVED", result.Status)
	require.NotNil(t, result.ResolvedBy)
	assert.Equal(t, actor.MemberID, *result.ResolvedBy)

	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Approve_Success(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)

	payment := pendingPayment(t, houseID, uuid.New(), uuid.New())

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)
	paymentRepo.On("SaveWithStatusGuard", ctx, payment, settlement.PaymentStatusPending).Return(nil)

	result, err := service.Approve(ctx, actor, payment.ID)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "APPROVED", result.Status)

	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Approve_NonAdminForbidden(t *testing.T) {
	ctx := context.Background()
	actor := memberActor(uuid.New())

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	result, err := service.Approve(ctx, actor, uuid.New())

	assert.Nil(t, result)
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestPaymentService_BulkApprove(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := adminActor(houseID)

	pending := pendingPayment(t, houseID, uuid.New(), uuid.New())
	alreadyApproved := pendingPayment(t, houseID, uuid.New(), uuid.New())
	require.NoError(t, alreadyApproved.Approve(uuid.New()))

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	paymentRepo.On("FindByIDForHouse", ctx, houseID, pending.ID).Return(pending, nil)
	paymentRepo.On("FindByIDForHouse", ctx, houseID, alreadyApproved.ID).Return(alreadyApproved, nil)
	paymentRepo.On("SaveWithStatusGuard", ctx, pending, settlement.PaymentStatusPending).Return(nil)

	result, err := service.BulkApprove(ctx, actor, []uuid.UUID{pending.ID, alreadyApproved.ID})

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Items, 2)
	assert.True(t, result.Items[0].OK)
	assert.False(t, result.Items[1].OK)

	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Update(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	t.Run("recorder edits own pending payment", func(t *testing.T) {
		payment := pendingPayment(t, houseID, actor.MemberID, actor.MemberID)

		paymentRepo := new(MockPaymentRepository)
		service := NewPaymentService(paymentRepo)

		paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)
		paymentRepo.On("Save", ctx, payment).Return(nil)

		result, err := service.Update(ctx, actor, payment.ID, UpdatePaymentRequest{
			Amount:      decimal.NewFromInt(30),
			Description: "corrected",
			PaidAt:      time.Now(),
		})

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "30", result.Amount.String())
		paymentRepo.AssertExpectations(t)
	})

	t.Run("someone else's payment is forbidden", func(t *testing.T) {
		payment := pendingPayment(t, houseID, uuid.New(), uuid.New())

		paymentRepo := new(MockPaymentRepository)
		service := NewPaymentService(paymentRepo)

		paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)

		_, err := service.Update(ctx, actor, payment.ID, UpdatePaymentRequest{
			Amount: decimal.NewFromInt(30),
			PaidAt: time.Now(),
		})
		assertDomainCode(t, err, "FORBIDDEN")
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("approved payment is immutable", func(t *testing.T) {
		payment := pendingPayment(t, houseID, actor.MemberID, actor.MemberID)
		require.NoError(t, payment.Approve(uuid.New()))

		paymentRepo := new(MockPaymentRepository)
		service := NewPaymentService(paymentRepo)

		paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)

		_, err := service.Update(ctx, actor, payment.ID, UpdatePaymentRequest{
			Amount: decimal.NewFromInt(30),
			PaidAt: time.Now(),
		})
		assertDomainCode(t, err, "CONFLICT")
	})
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	t.Run("recorder deletes own pending payment", func(t *testing.T) {
		payment := pendingPayment(t, houseID, actor.MemberID, actor.MemberID)

		paymentRepo := new(MockPaymentRepository)
		service := NewPaymentService(paymentRepo)

		paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)
		paymentRepo.On("DeleteForHouse", ctx, houseID, payment.ID).Return(nil)

		assert.NoError(t, service.Delete(ctx, actor, payment.ID))
		paymentRepo.AssertExpectations(t)
	})

	t.Run("rejected payment cannot be deleted", func(t *testing.T) {
		payment := pendingPayment(t, houseID, actor.MemberID, actor.MemberID)
		require.NoError(t, payment.Reject(uuid.New()))

		paymentRepo := new(MockPaymentRepository)
		service := NewPaymentService(paymentRepo)

		paymentRepo.On("FindByIDForHouse", ctx, houseID, payment.ID).Return(payment, nil)

		err := service.Delete(ctx, actor, payment.ID)
		assertDomainCode(t, err, "CONFLICT")
		paymentRepo.AssertNotCalled(t, "DeleteForHouse", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Record_SubCentAmountRejected(t *testing.T) {
	ctx := context.Background()
	houseID := uuid.New()
	actor := memberActor(houseID)

	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo)

	result, err := service.Record(ctx, actor, RecordPaymentRequest{
		Amount: decimal.RequireFromString("19.999"),
		PaidAt: time.Now(),
		Type:   "PAYMENT",
	})

	assert.Nil(t, result)
	assertDomainCode(t, err, "VALIDATION_ERROR")
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
