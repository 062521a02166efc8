package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemberBalance is a member's net position, derived on demand and never
// stored: any of the source ledgers can change at any time without
// notifying a cache.
type MemberBalance struct {
	MemberID  uuid.UUID       `json:"member_id"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"` // positive: house owes the member
}

// ComputeBalances folds invoice and payment history into one signed
// balance per member. This is the canonical, invoice-centric view:
//
//	totalOwed = invoices of the member, regardless of status
//	totalPaid = approved PAYMENT-type payments + paid invoices
//	balance   = totalPaid - totalOwed
//
// Pending and awaiting-approval invoices count as owed but not paid, so
// an unsettled obligation keeps showing until it is both claimed and
// confirmed.
func ComputeBalances(memberIDs []uuid.UUID, invoices []Invoice, payments []Payment) []MemberBalance {
	owed := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))
	paid := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))

	for _, inv := range invoices {
		owed[inv.MemberID] = owed[inv.MemberID].Add(inv.Amount)
		if inv.Status == InvoiceStatusPaid {
			paid[inv.MemberID] = paid[inv.MemberID].Add(inv.Amount)
		}
	}
	accumulatePayments(paid, payments)

	return assemble(memberIDs, owed, paid)
}

// ComputeBalancesFromExpenses is the legacy expense-centric view that
// derives the owed side from approved expenses' split rows instead of
// invoices. Since invoices are frozen copies of those splits, both
// views must produce identical numbers; the invoice-centric view is
// canonical and this one exists to verify convergence.
func ComputeBalancesFromExpenses(memberIDs []uuid.UUID, expenses []Expense, invoices []Invoice, payments []Payment) []MemberBalance {
	owed := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))
	paid := make(map[uuid.UUID]decimal.Decimal, len(memberIDs))

	for _, e := range expenses {
		if e.Status != ExpenseStatusApproved {
			continue
		}
		for _, split := range e.Splits {
			owed[split.MemberID] = owed[split.MemberID].Add(split.Amount)
		}
	}
	for _, inv := range invoices {
		if inv.Status == InvoiceStatusPaid {
			paid[inv.MemberID] = paid[inv.MemberID].Add(inv.Amount)
		}
	}
	accumulatePayments(paid, payments)

	return assemble(memberIDs, owed, paid)
}

func accumulatePayments(paid map[uuid.UUID]decimal.Decimal, payments []Payment) {
	for _, p := range payments {
		if p.Status != PaymentStatusApproved || p.Type != TransactionTypePayment {
			continue
		}
		paid[p.MemberID] = paid[p.MemberID].Add(p.Amount)
	}
}

func assemble(memberIDs []uuid.UUID, owed, paid map[uuid.UUID]decimal.Decimal) []MemberBalance {
	balances := make([]MemberBalance, len(memberIDs))
	for i, id := range memberIDs {
		totalOwed := owed[id]
		totalPaid := paid[id]
		balances[i] = MemberBalance{
			MemberID:  id,
			TotalOwed: totalOwed,
			TotalPaid: totalPaid,
			Balance:   totalPaid.Sub(totalOwed),
		}
	}
	return balances
}
