package repository

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-ws/internal/model"
)

type TransactionFilter struct {
	BuyerID    *uuid.UUID
	Status     model.TransactionStatus
	Department string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// StockChange describes an inventory movement made as part of an order operation.
type StockChange struct {
	ProductID uuid.UUID
	Log       *model.InventoryLog
}

type TransactionRepository interface {
	Place(ctx context.Context, order *model.Transaction, actor string) (*model.InventoryLog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to model.TransactionStatus, allowedFrom []model.TransactionStatus, actor string) (*model.Transaction, *StockChange, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor string) error
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Place commits an order atomically: conditional stock decrement, order row, inventory log.
// ErrStockConflict or ErrNotFound roll everything back.
func (r *transactionRepo) Place(ctx context.Context, order *model.Transaction, actor string) (*model.InventoryLog, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	var entry *model.InventoryLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		remaining, err := decrementStock(tx, order.VariantID, order.Quantity)
		if err != nil {
			return err
		}

		order.CreatedBy = actor
		order.UpdatedBy = actor
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return errors.Wrap(err, "create transaction")
		}

		entry = &model.InventoryLog{
			VariantID:     order.VariantID,
			PreviousCount: remaining + order.Quantity,
			NewCount:      remaining,
			Reason:        model.PurchaseReason(order.ID),
			Actor:         actor,
		}
		return appendLog(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.withDetails(r.db.WithContext(ctx)).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find transaction")
	}
	return &t, nil
}

func (r *transactionRepo) FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	q := r.withDetails(r.db.WithContext(ctx)).Order("created_at DESC")

	if filter.BuyerID != nil {
		q = q.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at <= ?", *filter.DateTo)
	}

	var transactions []model.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return transactions, nil
}

// UpdateStatus locks the order, checks it is still in one of allowedFrom and applies the new status.
// Cancelling puts the units back on the shelf and logs the restock.
func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to model.TransactionStatus, allowedFrom []model.TransactionStatus, actor string) (*model.Transaction, *StockChange, error) {
	var (
		t      model.Transaction
		change *StockChange
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", id).Error; err != nil {
			return translate(err, "lock transaction")
		}
		if !slices.Contains(allowedFrom, t.Status) {
			return ErrStatusConflict
		}

		updates := map[string]interface{}{
			"status":     to,
			"updated_by": actor,
		}

		if to == model.StatusCancelled {
			restocked, err := incrementStock(tx, t.VariantID, t.Quantity)
			if err != nil {
				return err
			}
			entry := &model.InventoryLog{
				VariantID:     t.VariantID,
				PreviousCount: restocked - t.Quantity,
				NewCount:      restocked,
				Reason:        model.CancellationReason(t.ID),
				Actor:         actor,
			}
			if err := appendLog(tx, entry); err != nil {
				return err
			}
			change = &StockChange{ProductID: t.ProductID, Log: entry}
		}

		if err := tx.Model(&model.Transaction{}).Where("id = ?", t.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update transaction status")
		}
		t.Status = to
		t.UpdatedBy = actor
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &t, change, nil
}

// SetPaymentStatus records the settlement state reported by the payment gateway.
func (r *transactionRepo) SetPaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor string) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_by":     actor,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update payment status")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepo) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Product").Preload("Variant.Size").Preload("Buyer")
}
