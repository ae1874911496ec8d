package carttoken

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-ws/internal/model"
)

func TestEncodeDecode(t *testing.T) {
	variant := uuid.New()
	var cart model.Cart
	cart.Merge(model.CartItem{ProductID: uuid.New(), VariantID: &variant, Quantity: 2, Name: "Polo Inca", Price: 2000, Size: "M"})

	token, err := Encode(cart)
	require.NoError(t, err)
	assert.NotContains(t, token, ";")

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, cart, got)
}

func TestEmptyCart(t *testing.T) {
	token, err := Encode(model.Cart{})
	require.NoError(t, err)
	assert.Empty(t, token)

	cart, err := Decode("")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestDecodeMalformed(t *testing.T) {
	for name, token := range map[string]string{
		"not base64":      "%%%",
		"not json":        base64.RawURLEncoding.EncodeToString([]byte("{nope")),
		"object not list": base64.RawURLEncoding.EncodeToString([]byte(`{"items":[]}`)),
		"missing product": base64.RawURLEncoding.EncodeToString([]byte(`[{"quantity":1}]`)),
	} {
		t.Run(name, func(t *testing.T) {
			cart, err := Decode(token)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestDecodeNormalizesLines(t *testing.T) {
	p := uuid.New()
	raw := `[{"id":"forged","productId":"` + p.String() + `","quantity":0},{"productId":"` + p.String() + `","quantity":3}]`

	cart, err := Decode(base64.RawURLEncoding.EncodeToString([]byte(raw)))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.CartItemID(p, nil), cart.Items[0].ID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestDecodeClampsHugeQuantities(t *testing.T) {
	p := uuid.New()
	line := fmt.Sprintf(`{"productId":"%s","quantity":%d}`, p, math.MaxInt)
	raw := "[" + line + "," + line + "]"

	cart, err := Decode(base64.RawURLEncoding.EncodeToString([]byte(raw)))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.MaxLineQuantity, cart.Items[0].Quantity)
	assert.Equal(t, model.MaxLineQuantity, cart.Count())
}

func TestEncodeTooLarge(t *testing.T) {
	var cart model.Cart
	for i := 0; i < 60; i++ {
		v := uuid.New()
		cart.Merge(model.CartItem{ProductID: uuid.New(), VariantID: &v, Quantity: 1, Name: strings.Repeat("x", 40)})
	}
	_, err := Encode(cart)
	assert.ErrorIs(t, err, ErrTooLarge)
}
