package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), uuid.New(), valueobject.NewMoneyFromFloat(33.34))
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates pending invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.Nil(t, inv.RequestedAt)
		assert.Nil(t, inv.ResolvedAt)
		assert.NotEmpty(t, inv.GetDomainEvents())
	})

	t.Run("fails without expense reference", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.Nil, uuid.New(), valueobject.NewMoneyFromFloat(10))
		assertDomainCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), uuid.New(), valueobject.Zero())
		assertDomainCode(t, err, "VALIDATION_ERROR")
	})
}

func TestInvoiceRequestPayment(t *testing.T) {
	t.Run("member moves own invoice to awaiting approval", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.RequestPayment(inv.MemberID))
		assert.Equal(t, InvoiceStatusAwaitingApproval, inv.Status)
		assert.NotNil(t, inv.RequestedAt)
	})

	t.Run("another member cannot request", func(t *testing.T) {
		inv := createTestInvoice(t)
		assertDomainCode(t, inv.RequestPayment(uuid.New()), "FORBIDDEN")
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("request only possible while pending", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.RequestPayment(inv.MemberID))
		assertDomainCode(t, inv.RequestPayment(inv.MemberID), "CONFLICT")
	})
}

func TestInvoiceApprove(t *testing.T) {
	t.Run("confirms an awaiting invoice as paid", func(t *testing.T) {
		inv := createTestInvoice(t)
		admin := uuid.New()
		require.NoError(t, inv.RequestPayment(inv.MemberID))

		require.NoError(t, inv.Approve(admin))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.ResolvedBy)
		assert.Equal(t, admin, *inv.ResolvedBy)
		assert.NotNil(t, inv.ResolvedAt)
	})

	t.Run("cannot approve without a prior request", func(t *testing.T) {
		inv := createTestInvoice(t)
		assertDomainCode(t, inv.Approve(uuid.New()), "CONFLICT")
	})

	t.Run("paid invoices never change again", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.RequestPayment(inv.MemberID))
		require.NoError(t, inv.Approve(uuid.New()))

		assertDomainCode(t, inv.Approve(uuid.New()), "CONFLICT")
		assertDomainCode(t, inv.Reject(uuid.New(), "later"), "CONFLICT")
		assertDomainCode(t, inv.RequestPayment(inv.MemberID), "CONFLICT")
	})
}

func TestInvoiceReject(t *testing.T) {
	t.Run("refuses a payment claim with reason", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.RequestPayment(inv.MemberID))

		require.NoError(t, inv.Reject(uuid.New(), "no transfer received"))
		assert.Equal(t, InvoiceStatusRejected, inv.Status)
		assert.Equal(t, "no transfer received", inv.RejectionReason)
	})

	t.Run("requires a non-empty reason", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.RequestPayment(inv.MemberID))
		assertDomainCode(t, inv.Reject(uuid.New(), ""), "VALIDATION_ERROR")
	})

	t.Run("cannot reject a pending invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		assertDomainCode(t, inv.Reject(uuid.New(), "reason"), "CONFLICT")
	})
}
