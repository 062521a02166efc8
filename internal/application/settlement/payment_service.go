package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"github.com/houseledger/backend/internal/domain/shared/valueobject"
)

// PaymentService provides application-level payment ledger operations
type PaymentService struct {
	paymentRepo settlement.PaymentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo settlement.PaymentRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo}
}

// Record registers a money transfer in the ledger. Members record
// PAYMENT entries for themselves, pending admin review. Admins may
// record either transaction type for any member and may mark the entry
// pre-approved, which is how house income (RECEIVED) usually enters
// the books.
func (s *PaymentService) Record(ctx context.Context, actor Actor, req RecordPaymentRequest) (*PaymentResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	memberID := actor.MemberID
	if req.MemberID != nil {
		memberID = *req.MemberID
	}
	txType := settlement.TransactionType(req.Type)

	if !actor.IsAdmin() {
		if memberID != actor.MemberID {
			return nil, shared.NewForbiddenError("Members may only record their own payments")
		}
		if txType != settlement.TransactionTypePayment {
			return nil, shared.NewForbiddenError("Only admins may record received transactions")
		}
		if req.PreApproved {
			return nil, shared.NewForbiddenError("Only admins may record pre-approved payments")
		}
	}

	payment, err := settlement.NewPayment(
		actor.HouseID,
		memberID,
		amount,
		req.Description,
		req.PaidAt,
		txType,
		actor.MemberID,
	)
	if err != nil {
		return nil, err
	}

	if req.PreApproved {
		if err := payment.Approve(actor.MemberID); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	publishEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// GetByID returns one payment of the actor's house
func (s *PaymentService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// List returns payments of the actor's house with filtering and pagination
func (s *PaymentService) List(ctx context.Context, actor Actor, filter PaymentListFilter) (*shared.Paginated[*PaymentResponse], error) {
	domainFilter := toPaymentFilter(filter)

	payments, err := s.paymentRepo.FindAllForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.CountForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = toPaymentResponse(&payments[i])
	}

	page := paginate(responses, total, domainFilter.Filter)
	return &page, nil
}

// Approve confirms a pending payment so it counts toward balances
func (s *PaymentService) Approve(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may approve payments")
	}

	payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := payment.Approve(actor.MemberID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithStatusGuard(ctx, payment, settlement.PaymentStatusPending); err != nil {
		return nil, err
	}
	publishEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// Reject refuses a pending payment
func (s *PaymentService) Reject(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may reject payments")
	}

	payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := payment.Reject(actor.MemberID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithStatusGuard(ctx, payment, settlement.PaymentStatusPending); err != nil {
		return nil, err
	}
	publishEvents(ctx, payment)
	return toPaymentResponse(payment), nil
}

// BulkApprove approves a batch of pending payments, best effort.
// Payments that already left PENDING are skipped without failing the
// batch; the result reports how many were actually accepted.
func (s *PaymentService) BulkApprove(ctx context.Context, actor Actor, ids []uuid.UUID) (*BulkResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may approve payments")
	}

	result := &BulkResult{Items: make([]BulkItemResult, 0, len(ids))}
	for _, id := range ids {
		item := BulkItemResult{ID: id, OK: true}

		payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
		if err == nil {
			err = payment.Approve(actor.MemberID)
		}
		if err == nil {
			err = s.paymentRepo.SaveWithStatusGuard(ctx, payment, settlement.PaymentStatusPending)
		}
		if err != nil {
			item.OK = false
			item.Error = err.Error()
			result.Skipped++
		} else {
			publishEvents(ctx, payment)
			result.Accepted++
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// Update edits a still-pending payment. Only the member who recorded
// the payment, or an admin, may edit it.
func (s *PaymentService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && payment.RecordedBy != actor.MemberID {
		return nil, shared.NewForbiddenError("Only the recorder or an admin may edit a payment")
	}
	if err := payment.Update(amount, req.Description, req.PaidAt); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// Delete removes a still-pending payment from the ledger
func (s *PaymentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	payment, err := s.paymentRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && payment.RecordedBy != actor.MemberID {
		return shared.NewForbiddenError("Only the recorder or an admin may delete a payment")
	}
	if err := payment.EnsureDeletable(); err != nil {
		return err
	}
	return s.paymentRepo.DeleteForHouse(ctx, actor.HouseID, id)
}

func toPaymentFilter(f PaymentListFilter) settlement.PaymentFilter {
	out := settlement.PaymentFilter{
		Filter:   shared.Filter{Page: f.Page, PageSize: f.PageSize},
		MemberID: f.MemberID,
		FromDate: f.FromDate,
		ToDate:   f.ToDate,
	}
	if f.Status != "" {
		status := settlement.PaymentStatus(f.Status)
		out.Status = &status
	}
	if f.Type != "" {
		txType := settlement.TransactionType(f.Type)
		out.Type = &txType
	}
	return out
}
