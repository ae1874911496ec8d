package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-ws/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var productSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
}

type ProductFilter struct {
	CollectionID *uuid.UUID
	Search       string
	SortBy       string
	SortAsc      bool
	Limit        int
	Offset       int
}

type ProductRepository interface {
	ListAvailable(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)
	Create(ctx context.Context, product *model.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) ListAvailable(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Variants.Size").
		Where("is_available = ?", true)

	if filter.CollectionID != nil {
		q = q.Where("collection_id = ?", *filter.CollectionID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(s)+"%")
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
		filter.SortAsc = false
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: !filter.SortAsc})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var products []model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	for i := range products {
		sortVariants(&products[i])
	}
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Variants.Size").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find product")
	}
	sortVariants(&product)
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err, "find product by sku")
	}
	return &product, nil
}

// FindVariant reads the variant with its size and parent product; the inventory count is the live value.
func (r *productRepo) FindVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.WithContext(ctx).Preload("Size").Preload("Product").First(&variant, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find variant")
	}
	return &variant, nil
}

// Create inserts the product and its variants in one statement batch.
func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(product).Error, "create product")
}

func sortVariants(p *model.Product) {
	slices.SortStableFunc(p.Variants, func(a, b model.ProductVariant) int {
		return sizeOrder(a) - sizeOrder(b)
	})
}

func sizeOrder(v model.ProductVariant) int {
	if v.Size == nil {
		return 0
	}
	return v.Size.DisplayOrder
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
