package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-ws/internal/model"
)

func TestCartAddMergesSameLine(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	svc := NewCartService(fakeProductRepo{s}, 1000)
	ctx := context.Background()

	var cart model.Cart
	_, err := svc.Add(ctx, &cart, p.ID, &v.ID, 2)
	require.NoError(t, err)
	line, err := svc.Add(ctx, &cart, p.ID, &v.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "M", cart.Items[0].Size)
	assert.Equal(t, int64(2000), cart.Items[0].Price)
	assert.Equal(t, "Linen Shirt", cart.Items[0].Name)
}

func TestCartAddUsesVariantPriceOverride(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	override := int64(2500)
	v.Price = &override
	svc := NewCartService(fakeProductRepo{s}, 1000)

	var cart model.Cart
	line, err := svc.Add(context.Background(), &cart, p.ID, &v.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), line.Price)
}

func TestCartAddErrors(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 0)
	hidden, _ := s.addProduct(1000, 5)
	hidden.IsAvailable = false
	svc := NewCartService(fakeProductRepo{s}, 1000)
	ctx := context.Background()
	missing := uuid.New()

	tests := []struct {
		name      string
		productID uuid.UUID
		variantID *uuid.UUID
		qty       int
		want      error
	}{
		{"unknown product", uuid.New(), nil, 1, ErrProductNotFound},
		{"unavailable product", hidden.ID, nil, 1, ErrProductNotFound},
		{"unknown variant", p.ID, &missing, 1, ErrVariantNotFound},
		{"variant out of stock", p.ID, &v.ID, 1, ErrOutOfStock},
		{"product out of stock", p.ID, nil, 1, ErrOutOfStock},
		{"zero quantity", p.ID, &v.ID, 0, ErrValidation},
		{"quantity above line limit", p.ID, &v.ID, model.MaxLineQuantity + 1, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart model.Cart
			_, err := svc.Add(ctx, &cart, tt.productID, tt.variantID, tt.qty)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, cart.IsEmpty())
		})
	}
	assert.ErrorIs(t, ErrProductNotFound, ErrNotFound)
}

func TestCartAddRejectsOversizedCart(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	p.Name = strings.Repeat("x", 3500)
	svc := NewCartService(fakeProductRepo{s}, 1000)

	var cart model.Cart
	_, err := svc.Add(context.Background(), &cart, p.ID, &v.ID, 1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"cart"}, verr.Fields)
	assert.True(t, cart.IsEmpty())
}

func TestCartAddSaturatesAtLineLimit(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	svc := NewCartService(fakeProductRepo{s}, 1000)
	ctx := context.Background()

	var cart model.Cart
	_, err := svc.Add(ctx, &cart, p.ID, &v.ID, model.MaxLineQuantity)
	require.NoError(t, err)
	line, err := svc.Add(ctx, &cart, p.ID, &v.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, model.MaxLineQuantity, line.Quantity)
	assert.Equal(t, model.MaxLineQuantity, svc.Totals(cart).ItemCount)
}

func TestCartUpdateQuantityClampsToOne(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	svc := NewCartService(fakeProductRepo{s}, 1000)

	var cart model.Cart
	line, err := svc.Add(context.Background(), &cart, p.ID, &v.ID, 3)
	require.NoError(t, err)

	for _, q := range []int{0, -4} {
		updated, err := svc.UpdateQuantity(&cart, line.ID, q)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Quantity)
	}

	_, err = svc.UpdateQuantity(&cart, "missing", 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	svc := NewCartService(fakeProductRepo{s}, 1000)

	var cart model.Cart
	_, err := svc.Add(context.Background(), &cart, p.ID, &v.ID, 1)
	require.NoError(t, err)
	before := append([]model.CartItem(nil), cart.Items...)

	svc.Remove(&cart, "not-a-line")
	assert.Equal(t, before, cart.Items)

	svc.Clear(&cart)
	svc.Clear(&cart)
	assert.True(t, cart.IsEmpty())
}

func TestCartGetHealsMalformedToken(t *testing.T) {
	svc := NewCartService(fakeProductRepo{newStore()}, 1000)

	cart, healed := svc.Get("%%%not-base64")
	assert.True(t, healed)
	assert.True(t, cart.IsEmpty())

	cart, healed = svc.Get("")
	assert.False(t, healed)
	assert.True(t, cart.IsEmpty())
}

func TestCartTotals(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(2000, 10)
	svc := NewCartService(fakeProductRepo{s}, 1000)

	assert.Equal(t, model.CartTotals{}, svc.Totals(model.Cart{}))

	var cart model.Cart
	_, err := svc.Add(context.Background(), &cart, p.ID, &v.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.CartTotals{Subtotal: 4000, Shipping: 1000, Total: 5000, ItemCount: 2}, svc.Totals(cart))
}
