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

var expenseSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"category":     true,
	"status":       true,
}

// GormExpenseRepository implements settlement.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForHouse finds an expense with its splits by ID for a house
func (r *GormExpenseRepository) FindByIDForHouse(ctx context.Context, houseID, id uuid.UUID) (*settlement.Expense, error) {
	var expense settlement.Expense
	if err := r.db.WithContext(ctx).
		Preload("Splits").
		First(&expense, "id = ? AND house_id = ?", id, houseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// FindAllForHouse lists expenses for a house with filtering
func (r *GormExpenseRepository) FindAllForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.ExpenseFilter) ([]settlement.Expense, error) {
	var expenses []settlement.Expense
	query := r.applyFilter(r.db.WithContext(ctx), houseID, filter).
		Order(orderClause(filter.Filter, expenseSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit())

	if err := query.Preload("Splits").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// FindApprovedWithSplits loads all approved expenses of a house with
// their split rows
func (r *GormExpenseRepository) FindApprovedWithSplits(ctx context.Context, houseID uuid.UUID) ([]settlement.Expense, error) {
	var expenses []settlement.Expense
	if err := r.db.WithContext(ctx).
		Where("house_id = ? AND status = ?", houseID, settlement.ExpenseStatusApproved).
		Preload("Splits").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// CountForHouse counts expenses for a house with filtering
func (r *GormExpenseRepository) CountForHouse(ctx context.Context, houseID uuid.UUID, filter settlement.ExpenseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&settlement.Expense{}), houseID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new expense and its splits
func (r *GormExpenseRepository) Create(ctx context.Context, expense *settlement.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// ApproveAndCreateInvoices atomically flips the expense from PENDING to
// APPROVED, replaces its split rows with the frozen set and inserts the
// invoices. The status flip is a conditional update on the PENDING row;
// zero affected rows means another actor already resolved the expense
// and nothing is written.
func (r *GormExpenseRepository) ApproveAndCreateInvoices(ctx context.Context, expense *settlement.Expense, invoices []*settlement.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&settlement.Expense{}).
			Where("id = ? AND house_id = ? AND status = ?",
				expense.ID, expense.HouseID, settlement.ExpenseStatusPending).
			Updates(map[string]any{
				"status":      expense.Status,
				"admin_note":  expense.AdminNote,
				"approved_at": expense.ApprovedAt,
				"approved_by": expense.ApprovedBy,
				"version":     expense.Version,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConflict
		}

		if err := tx.Where("expense_id = ?", expense.ID).
			Delete(&settlement.ExpenseSplit{}).Error; err != nil {
			return err
		}
		if len(expense.Splits) > 0 {
			if err := tx.Create(&expense.Splits).Error; err != nil {
				return err
			}
		}

		if len(invoices) > 0 {
			if err := tx.Create(invoices).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveStatus persists a rejection guarded on the row still being PENDING
func (r *GormExpenseRepository) SaveStatus(ctx context.Context, expense *settlement.Expense) error {
	result := r.db.WithContext(ctx).Model(&settlement.Expense{}).
		Where("id = ? AND house_id = ? AND status = ?",
			expense.ID, expense.HouseID, settlement.ExpenseStatusPending).
		Updates(map[string]any{
			"status":           expense.Status,
			"rejected_at":      expense.RejectedAt,
			"rejected_by":      expense.RejectedBy,
			"rejection_reason": expense.RejectionReason,
			"version":          expense.Version,
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

// DeleteForHouse removes a pending expense and its splits
func (r *GormExpenseRepository) DeleteForHouse(ctx context.Context, houseID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND house_id = ? AND status = ?",
			id, houseID, settlement.ExpenseStatusPending).
			Delete(&settlement.Expense{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConflict
		}
		return tx.Where("expense_id = ?", id).
			Delete(&settlement.ExpenseSplit{}).Error
	})
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, houseID uuid.UUID, filter settlement.ExpenseFilter) *gorm.DB {
	query = query.Where("house_id = ?", houseID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.PayerID != nil {
		query = query.Where("payer_id = ?", *filter.PayerID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}
