package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/carttoken"
)

// CartService operates on a cart value owned by the caller; persisting the result is the caller's job.
type CartService interface {
	Get(token string) (cart model.Cart, healed bool)
	Encode(cart model.Cart) (string, error)
	Add(ctx context.Context, cart *model.Cart, productID uuid.UUID, variantID *uuid.UUID, quantity int) (model.CartItem, error)
	UpdateQuantity(cart *model.Cart, itemID string, quantity int) (model.CartItem, error)
	Remove(cart *model.Cart, itemID string)
	Clear(cart *model.Cart)
	Totals(cart model.Cart) model.CartTotals
}

type cartService struct {
	productRepo repository.ProductRepository
	shippingFee int64
}

func NewCartService(productRepo repository.ProductRepository, shippingFee int64) CartService {
	return &cartService{productRepo: productRepo, shippingFee: shippingFee}
}

// Get decodes the cart cookie. A malformed token yields an empty cart and healed=true so the caller rewrites it.
func (s *cartService) Get(token string) (model.Cart, bool) {
	cart, err := carttoken.Decode(token)
	if err != nil {
		return model.Cart{}, true
	}
	return cart, false
}

func (s *cartService) Encode(cart model.Cart) (string, error) {
	return carttoken.Encode(cart)
}

func (s *cartService) Add(ctx context.Context, cart *model.Cart, productID uuid.UUID, variantID *uuid.UUID, quantity int) (model.CartItem, error) {
	if quantity < 1 || quantity > model.MaxLineQuantity {
		return model.CartItem{}, NewValidationError(fmt.Sprintf("quantity must be between 1 and %d", model.MaxLineQuantity), "quantity")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CartItem{}, ErrProductNotFound
		}
		return model.CartItem{}, unexpected(err)
	}
	if !product.IsAvailable {
		return model.CartItem{}, ErrProductNotFound
	}

	item := model.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.ImageURL,
	}

	if variantID != nil {
		i := slices.IndexFunc(product.Variants, func(v model.ProductVariant) bool { return v.ID == *variantID })
		if i < 0 {
			return model.CartItem{}, ErrVariantNotFound
		}
		variant := product.Variants[i]
		if variant.InventoryCount <= 0 {
			return model.CartItem{}, ErrOutOfStock
		}
		id := variant.ID
		item.VariantID = &id
		item.Price = variant.UnitPrice(product)
		item.Size = variant.SizeName()
	} else if !model.NewProductListing(*product).HasStock {
		return model.CartItem{}, ErrOutOfStock
	}

	before := slices.Clone(cart.Items)
	line := cart.Merge(item)
	if _, err := carttoken.Encode(*cart); err != nil {
		cart.Items = before
		if errors.Is(err, carttoken.ErrTooLarge) {
			return model.CartItem{}, NewValidationError("cart is full", "cart")
		}
		return model.CartItem{}, unexpected(err)
	}
	return line, nil
}

func (s *cartService) UpdateQuantity(cart *model.Cart, itemID string, quantity int) (model.CartItem, error) {
	if !cart.SetQuantity(itemID, quantity) {
		return model.CartItem{}, ErrCartItemNotFound
	}
	line, _ := cart.Line(itemID)
	return line, nil
}

func (s *cartService) Remove(cart *model.Cart, itemID string) {
	cart.Remove(itemID)
}

func (s *cartService) Clear(cart *model.Cart) {
	cart.Clear()
}

func (s *cartService) Totals(cart model.Cart) model.CartTotals {
	return cart.Totals(s.shippingFee)
}
