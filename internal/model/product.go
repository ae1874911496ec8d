package model

import (
	"github.com/google/uuid"
)

// Size is a garment size label; DisplayOrder drives how variants are listed (XS before S before M...).
type Size struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

// DefaultSizes are seeded on startup.
var DefaultSizes = []Size{
	{Name: "XS", DisplayOrder: 1},
	{Name: "S", DisplayOrder: 2},
	{Name: "M", DisplayOrder: 3},
	{Name: "L", DisplayOrder: 4},
	{Name: "XL", DisplayOrder: 5},
	{Name: "XXL", DisplayOrder: 6},
}

// Product is a catalog entry. Prices are stored in céntimos.
type Product struct {
	BaseModel
	SKU          string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string           `gorm:"type:text" json:"description"`
	Price        int64            `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	Category     string           `gorm:"type:varchar(100);index" json:"category"`
	CollectionID *uuid.UUID       `gorm:"type:uuid;index" json:"collection_id,omitempty"`
	ImageURL     string           `gorm:"type:text" json:"image_url"`
	IsAvailable  bool             `gorm:"not null;index" json:"is_available"`
	Variants     []ProductVariant `json:"variants,omitempty" validate:"dive"`
}

// ProductVariant is one size of a product and the unit inventory is tracked at.
type ProductVariant struct {
	BaseModel
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product  `json:"product,omitempty" validate:"-"`
	SizeID         uint      `gorm:"not null" json:"size_id" validate:"required"`
	Size           *Size     `json:"size,omitempty" validate:"-"`
	InventoryCount int       `gorm:"not null;default:0;check:chk_variant_inventory,inventory_count >= 0" json:"inventory_count" validate:"gte=0"`
	Price          *int64    `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// UnitPrice is the override price when set, otherwise the product price.
func (v *ProductVariant) UnitPrice(p *Product) int64 {
	if v.Price != nil {
		return *v.Price
	}
	if p != nil {
		return p.Price
	}
	if v.Product != nil {
		return v.Product.Price
	}
	return 0
}

// SizeName returns the size label or "" when the size was not loaded.
func (v *ProductVariant) SizeName() string {
	if v.Size == nil {
		return ""
	}
	return v.Size.Name
}

// ProductListing is a product plus the stock aggregated over its variants.
type ProductListing struct {
	Product
	InventoryCount int  `json:"inventory_count"`
	HasStock       bool `json:"has_stock"`
}

// NewProductListing sums variant inventory into a listing.
func NewProductListing(p Product) ProductListing {
	total := 0
	for _, v := range p.Variants {
		total += v.InventoryCount
	}
	return ProductListing{
		Product:        p,
		InventoryCount: total,
		HasStock:       total > 0,
	}
}
