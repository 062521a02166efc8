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

var paymentSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"paid_at":    true,
	"amount":     true,
	"status":     true,
}

// GormPaymentRepository implements settlement.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForHouse finds a payment by ID for a house
func (r *GormPaymentRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Payment, error) {
	var payment settlement.Payment
	if err := r.db.WithContext(ctx).
		First(&payment, "id = ? AND house_id = ?", id, houseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForHouse lists payments for a house with filtering
func (r *GormPaymentRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.PaymentFilter) ([]settlement.Payment, error) {
	var payments []settlement.Payment
	query := r.applyFilter(r.db.WithContext(ctx), houseID, filter).
		Order(orderClause(filter.Filter, paymentSortFields, "paid_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit())

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountForHouse counts payments for a house with filtering
func (r *GormPaymentRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.PaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&settlement.Payment{}), houseID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAllForBalance loads the house's full payment history without
// pagination
func (r *GormPaymentRepository) FindAllForBalance(ctx context.Context, houseID uuid.UUID) ([]settlement.Payment, error) {
	var payments []settlement.Payment
	if err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Create persists a new payment record
func (r *GormPaymentRepository) Create(ctx context.Context, payment *settlement.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Save persists changes to a pending payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *settlement.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithStatusGuard persists a payment transition guarded on the row
// still holding the expected prior status
func (r *GormPaymentRepository) SaveWithStatusGuard(ctx context.Context, payment *settlement.Payment, expected settlement.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&settlement.Payment{}).
		Where("id = ? AND house_id = ? AND status = ?",
			payment.ID, payment.HouseID, expected).
		Updates(map[string]any{
			"status":      payment.Status,
			"resolved_at": payment.ResolvedAt,
			"resolved_by": payment.ResolvedBy,
			"version":     payment.Version,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

// DeleteForHouse removes a pending payment
func (r *GormPaymentRepository) DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND house_id = ? AND status = ?",
			id, houseID, settlement.PaymentStatusPending).
		Delete(&settlement.Payment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, houseID uuid.UUID, filter settlement.PaymentFilter) *gorm.DB {
	query = query.Where("house_id = ?", houseID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.FromDate != nil {
		query = query.Where("paid_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("paid_at <= ?", *filter.ToDate)
	}
	return query
}
