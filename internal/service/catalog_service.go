package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/validator"
)

// StockPublisher receives inventory changes for live clients.
type StockPublisher interface {
	Publish(event ws.StockEvent)
}

type ProductQuery = repository.ProductFilter

// VariantStock is the live stock indicator for one size.
type VariantStock struct {
	VariantID      uuid.UUID `json:"variant_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Size           string    `json:"size"`
	InventoryCount int       `json:"inventory_count"`
	HasStock       bool      `json:"has_stock"`
}

type CatalogService interface {
	GetProducts(ctx context.Context, query ProductQuery) ([]model.ProductListing, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.ProductListing, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)
	GetVariantStock(ctx context.Context, id uuid.UUID) (*VariantStock, error)
	CreateProduct(ctx context.Context, actor *Actor, product *model.Product) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) GetProducts(ctx context.Context, query ProductQuery) ([]model.ProductListing, error) {
	products, err := s.productRepo.ListAvailable(ctx, query)
	if err != nil {
		return nil, unexpected(err)
	}
	listings := make([]model.ProductListing, 0, len(products))
	for _, p := range products {
		listings = append(listings, model.NewProductListing(p))
	}
	return listings, nil
}

// GetProductByID hides unavailable products behind ErrProductNotFound.
func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.ProductListing, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, unexpected(err)
	}
	if !product.IsAvailable {
		return nil, ErrProductNotFound
	}
	listing := model.NewProductListing(*product)
	return &listing, nil
}

func (s *catalogService) GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	variant, err := s.productRepo.FindVariant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, unexpected(err)
	}
	return variant, nil
}

func (s *catalogService) GetVariantStock(ctx context.Context, id uuid.UUID) (*VariantStock, error) {
	variant, err := s.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VariantStock{
		VariantID:      variant.ID,
		ProductID:      variant.ProductID,
		Size:           variant.SizeName(),
		InventoryCount: variant.InventoryCount,
		HasStock:       variant.InventoryCount > 0,
	}, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, actor *Actor, product *model.Product) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return NewValidationError("", validator.Fields(errs)...)
	}

	existing, err := s.productRepo.FindBySKU(ctx, product.SKU)
	switch {
	case err == nil && existing != nil:
		return NewValidationError("SKU already exists", "sku")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return unexpected(err)
	}

	product.CreatedBy = actor.AuditName()
	product.UpdatedBy = actor.AuditName()
	for i := range product.Variants {
		product.Variants[i].CreatedBy = actor.AuditName()
		product.Variants[i].UpdatedBy = actor.AuditName()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return unexpected(err)
	}
	return nil
}
