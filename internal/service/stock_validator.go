package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
)

const (
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"

	stockLookupConcurrency = 4
)

// StockIssue is a cart line the live inventory can no longer satisfy.
type StockIssue struct {
	Item         model.CartItem `json:"item"`
	CurrentStock int            `json:"current_stock"`
	Reason       string         `json:"reason"`
}

type StockReport struct {
	Valid bool         `json:"valid"`
	Items []StockIssue `json:"items"`
}

// StockValidator re-reads live inventory for every cart line. The result is advisory; checkout decides.
type StockValidator interface {
	Validate(ctx context.Context, cart model.Cart) (*StockReport, error)
}

type stockValidator struct {
	productRepo repository.ProductRepository
}

func NewStockValidator(productRepo repository.ProductRepository) StockValidator {
	return &stockValidator{productRepo: productRepo}
}

func (v *stockValidator) Validate(ctx context.Context, cart model.Cart) (*StockReport, error) {
	report := &StockReport{Valid: true, Items: []StockIssue{}}

	var variants []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, it := range cart.Items {
		if it.VariantID != nil && !seen[*it.VariantID] {
			seen[*it.VariantID] = true
			variants = append(variants, *it.VariantID)
		}
	}
	if len(variants) == 0 {
		return report, nil
	}

	// Missing variants are recorded as -1.
	stock := make(map[uuid.UUID]int, len(variants))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stockLookupConcurrency)
	for _, id := range variants {
		id := id
		g.Go(func() error {
			count := -1
			variant, err := v.productRepo.FindVariant(gctx, id)
			switch {
			case err == nil:
				count = variant.InventoryCount
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}
			mu.Lock()
			stock[id] = count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, unexpected(err)
	}

	for _, it := range cart.Items {
		if it.VariantID == nil {
			continue
		}
		switch count := stock[*it.VariantID]; {
		case count < 0:
			report.Items = append(report.Items, StockIssue{Item: it, CurrentStock: 0, Reason: ReasonNotFound})
		case count < it.Quantity:
			report.Items = append(report.Items, StockIssue{Item: it, CurrentStock: count, Reason: ReasonInsufficientStock})
		}
	}
	report.Valid = len(report.Items) == 0
	return report, nil
}
