package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/houseledger/backend/internal/domain/settlement"
	"github.com/houseledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var invoiceSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"amount":     true,
	"status":     true,
}

// GormInvoiceRepository implements settlement.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForHouse finds an invoice by ID for a house
func (r *GormInvoiceRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Invoice, error) {
	var invoice settlement.Invoice
	if err := r.db.WithContext(ctx).
		First(&invoice, "id = ? AND house_id = ?", id, houseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForHouse lists invoices for a house with filtering
func (r *GormInvoiceRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.InvoiceFilter) ([]settlement.Invoice, error) {
	var invoices []settlement.Invoice
	query := r.applyFilter(r.db.WithContext(ctx), houseID, filter).
		Order(orderClause(filter.Filter, invoiceSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit())

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindPendingByMember lists a member's PENDING invoices, oldest first
func (r *GormInvoiceRepository) FindPendingByMember(ctx context.Context, houseID, memberID uuid.UUID) ([]settlement.Invoice, error) {
	var invoices []settlement.Invoice
	if err := r.db.WithContext(ctx).
		Where("house_id = ? AND member_id = ? AND status = ?",
			houseID, memberID, settlement.InvoiceStatusPending).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAllForBalance loads the house's full invoice history without
// pagination
func (r *GormInvoiceRepository) FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]settlement.Invoice, error) {
	var invoices []settlement.Invoice
	if err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForHouse counts invoices for a house with filtering
func (r *GormInvoiceRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&settlement.Invoice{}), houseID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveWithStatusGuard persists an invoice transition guarded on the row
// still holding the expected prior status. Zero affected rows means a
// concurrent transition won and shared.ErrConflict is returned.
func (r *GormInvoiceRepository) SaveWithStatusGuard(ctx context.Context, invoice *settlement.Invoice, expected settlement.InvoiceStatus) error {
	result := r.db.WithContext(ctx).Model(&settlement.Invoice{}).
		Where("id = ? AND house_id = ? AND status = ?",
			invoice.ID, invoice.HouseID, expected).
		Updates(map[string]any{
			"status":           invoice.Status,
			"requested_at":     invoice.RequestedAt,
			"resolved_at":      invoice.ResolvedAt,
			"resolved_by":      invoice.ResolvedBy,
			"rejection_reason": invoice.RejectionReason,
			"version":          invoice.Version,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, houseID uuid.UUID, filter settlement.InvoiceFilter) *gorm.DB {
	query = query.Where("house_id = ?", houseID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.ExpenseID != nil {
		query = query.Where("expense_id = ?", *filter.ExpenseID)
	}
	return query
}
