// Package carttoken encodes the cart into the opaque cookie value shared by the server and client scripts.
package carttoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"go-storefront-ws/internal/model"
)

// MaxSize keeps the cookie under the 4 KB browsers accept per cookie.
const MaxSize = 4000

var (
	ErrTooLarge  = errors.New("cart is too large to store")
	ErrMalformed = errors.New("malformed cart token")
)

// Encode serializes the lines as base64url JSON. An empty cart encodes to "".
func Encode(cart model.Cart) (string, error) {
	if cart.IsEmpty() {
		return "", nil
	}
	raw, err := json.Marshal(cart.Items)
	if err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	if len(token) > MaxSize {
		return "", ErrTooLarge
	}
	return token, nil
}

// Decode parses a token. Lines are normalized: ids are recomputed, duplicates are merged and quantities are
// clamped to [1, model.MaxLineQuantity].
// Any structural problem yields ErrMalformed; callers reset the cart in that case.
func Decode(token string) (model.Cart, error) {
	if token == "" {
		return model.Cart{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return model.Cart{}, ErrMalformed
	}

	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return model.Cart{}, ErrMalformed
	}

	var cart model.Cart
	for _, it := range items {
		if it.ProductID == uuid.Nil {
			return model.Cart{}, ErrMalformed
		}
		cart.Merge(it)
	}
	return cart, nil
}
