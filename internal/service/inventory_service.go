package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/ws"
)

type InventoryService interface {
	Adjust(ctx context.Context, actor *Actor, variantID uuid.UUID, newCount int, reason string) (*model.InventoryLog, error)
	Logs(ctx context.Context, actor *Actor, variantID uuid.UUID, limit int) ([]model.InventoryLog, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	publisher     StockPublisher
}

func NewInventoryService(productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, publisher StockPublisher) InventoryService {
	return &inventoryService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
	}
}

// Adjust sets an absolute inventory count. Every call appends a log entry, even when the count is unchanged.
func (s *inventoryService) Adjust(ctx context.Context, actor *Actor, variantID uuid.UUID, newCount int, reason string) (*model.InventoryLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if newCount < 0 {
		return nil, NewValidationError("inventory count cannot be negative", "inventory_count")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = model.ManualAdjustmentReason
	}

	variant, err := s.productRepo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, unexpected(err)
	}

	entry, err := s.inventoryRepo.SetCount(ctx, variantID, newCount, reason, actor.AuditName())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, unexpected(err)
	}

	s.publisher.Publish(ws.StockEvent{
		VariantID:      variantID,
		ProductID:      variant.ProductID,
		InventoryCount: entry.NewCount,
		Reason:         entry.Reason,
	})
	return entry, nil
}

func (s *inventoryService) Logs(ctx context.Context, actor *Actor, variantID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	logs, err := s.inventoryRepo.ListLogs(ctx, variantID, limit)
	if err != nil {
		return nil, unexpected(err)
	}
	return logs, nil
}
