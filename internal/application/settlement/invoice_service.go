package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
)

// InvoiceService provides application-level invoice settlement operations
type InvoiceService struct {
	invoiceRepo settlement.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo settlement.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// GetByID returns one invoice of the actor's house
func (s *InvoiceService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// List returns invoices of the actor's house with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, actor Actor, filter InvoiceListFilter) (*shared.Paginated[*InvoiceResponse], error) {
	domainFilter := toInvoiceFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForHouse(ctx, actor.HouseID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = toInvoiceResponse(&invoices[i])
	}

	page := paginate(responses, total, domainFilter.Filter)
	return &page, nil
}

// RequestPayment claims one invoice as paid, moving it to
// AWAITING_APPROVAL. The status guard makes the transition race-safe:
// a concurrent request on the same invoice loses and gets a
// ConflictError.
func (s *InvoiceService) RequestPayment(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.RequestPayment(actor.MemberID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithStatusGuard(ctx, invoice, settlement.InvoiceStatusPending); err != nil {
		return nil, err
	}
	publishEvents(ctx, invoice)
	return toInvoiceResponse(invoice), nil
}

// BulkRequestPayment claims all of the actor's PENDING invoices at
// once, best effort. Each invoice transitions independently; one
// failure neither rolls back prior successes nor stops the rest of the
// batch. Per-item outcomes are reported alongside the counts.
func (s *InvoiceService) BulkRequestPayment(ctx context.Context, actor Actor) (*BulkResult, error) {
	invoices, err := s.invoiceRepo.FindPendingByMember(ctx, actor.HouseID, actor.MemberID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Items: make([]BulkItemResult, 0, len(invoices))}
	for i := range invoices {
		invoice := &invoices[i]
		item := BulkItemResult{ID: invoice.ID, OK: true}

		err := invoice.RequestPayment(actor.MemberID)
		if err == nil {
			err = s.invoiceRepo.SaveWithStatusGuard(ctx, invoice, settlement.InvoiceStatusPending)
		}
		if err != nil {
			item.OK = false
			item.Error = err.Error()
			result.Skipped++
		} else {
			publishEvents(ctx, invoice)
			result.Accepted++
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// Approve confirms a payment claim, settling the invoice as PAID
func (s *InvoiceService) Approve(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may confirm invoice payments")
	}

	invoice, err := s.invoiceRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Approve(actor.MemberID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithStatusGuard(ctx, invoice, settlement.InvoiceStatusAwaitingApproval); err != nil {
		return nil, err
	}
	publishEvents(ctx, invoice)
	return toInvoiceResponse(invoice), nil
}

// Reject refuses a payment claim with a mandatory reason
func (s *InvoiceService) Reject(ctx context.Context, actor Actor, id uuid.UUID, req RejectInvoiceRequest) (*InvoiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("Only admins may reject invoice payments")
	}

	invoice, err := s.invoiceRepo.FindByIDForHouse(ctx, actor.HouseID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Reject(actor.MemberID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithStatusGuard(ctx, invoice, settlement.InvoiceStatusAwaitingApproval); err != nil {
		return nil, err
	}
	publishEvents(ctx, invoice)
	return toInvoiceResponse(invoice), nil
}

func toInvoiceFilter(f InvoiceListFilter) settlement.InvoiceFilter {
	out := settlement.InvoiceFilter{
		Filter:    shared.Filter{Page: f.Page, PageSize: f.PageSize},
		MemberID:  f.MemberID,
		ExpenseID: f.ExpenseID,
	}
	if f.Status != "" {
		status := settlement.InvoiceStatus(f.Status)
		out.Status = &status
	}
	return out
}
