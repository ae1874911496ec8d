package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-ws/internal/model"
)

type InventoryRepository interface {
	SetCount(ctx context.Context, variantID uuid.UUID, newCount int, reason, actor string) (*model.InventoryLog, error)
	ListLogs(ctx context.Context, variantID uuid.UUID, limit int) ([]model.InventoryLog, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

// SetCount locks the variant row, writes the absolute count and appends the log entry in one transaction.
func (r *inventoryRepo) SetCount(ctx context.Context, variantID uuid.UUID, newCount int, reason, actor string) (*model.InventoryLog, error) {
	var entry *model.InventoryLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variant model.ProductVariant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&variant, "id = ?", variantID).Error; err != nil {
			return translate(err, "lock variant")
		}

		err := tx.Model(&model.ProductVariant{}).
			Where("id = ?", variantID).
			Updates(map[string]interface{}{
				"inventory_count": newCount,
				"updated_by":      actor,
			}).Error
		if err != nil {
			return errors.Wrap(err, "update inventory")
		}

		entry = &model.InventoryLog{
			VariantID:     variantID,
			PreviousCount: variant.InventoryCount,
			NewCount:      newCount,
			Reason:        reason,
			Actor:         actor,
		}
		return appendLog(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *inventoryRepo) ListLogs(ctx context.Context, variantID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var logs []model.InventoryLog
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, errors.Wrap(err, "list inventory logs")
}

// decrementStock takes qty units only if that many are still there. The check and the write are one
// statement, so two buyers racing for the last unit cannot both succeed.
func decrementStock(tx *gorm.DB, variantID uuid.UUID, qty int) (int, error) {
	var remaining []int
	err := tx.Raw(
		`UPDATE product_variants SET inventory_count = inventory_count - ?, updated_at = NOW() `+
			`WHERE id = ? AND inventory_count >= ? AND deleted_at IS NULL RETURNING inventory_count`,
		qty, variantID, qty,
	).Scan(&remaining).Error
	if err != nil {
		return 0, errors.Wrap(err, "decrement inventory")
	}
	if len(remaining) == 0 {
		var found int64
		if err := tx.Model(&model.ProductVariant{}).Where("id = ?", variantID).Count(&found).Error; err != nil {
			return 0, errors.Wrap(err, "check variant")
		}
		if found == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrStockConflict
	}
	return remaining[0], nil
}

func incrementStock(tx *gorm.DB, variantID uuid.UUID, qty int) (int, error) {
	var remaining []int
	err := tx.Raw(
		`UPDATE product_variants SET inventory_count = inventory_count + ?, updated_at = NOW() `+
			`WHERE id = ? RETURNING inventory_count`,
		qty, variantID,
	).Scan(&remaining).Error
	if err != nil {
		return 0, errors.Wrap(err, "restock inventory")
	}
	if len(remaining) == 0 {
		return 0, ErrNotFound
	}
	return remaining[0], nil
}

func appendLog(tx *gorm.DB, entry *model.InventoryLog) error {
	return errors.Wrap(tx.Create(entry).Error, "append inventory log")
}
