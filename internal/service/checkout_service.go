package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/payment"
	"go-storefront-ws/internal/region"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/validator"
)

// CheckoutRequest buys one cart line. When the line fields are omitted the first cart line is used.
type CheckoutRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	VariantID uuid.UUID `json:"variant_id" validate:"uuid_required"`
	Price     int64     `json:"price" validate:"required,gt=0"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`

	BuyerName  string `json:"buyer_name" validate:"required"`
	BuyerEmail string `json:"buyer_email" validate:"required,email"`

	Department string `json:"department" validate:"required"`
	Province   string `json:"province" validate:"required"`
	Address    string `json:"address" validate:"required"`

	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card paypal bank_transfer"`
	CardNumber    string `json:"card_number"`
	CardExpiry    string `json:"card_expiry"`
	CardCVC       string `json:"card_cvc"`
}

type CheckoutResult struct {
	Success          bool      `json:"success"`
	TransactionID    uuid.UUID `json:"transaction_id"`
	PaymentReference string    `json:"payment_reference"`
	PaymentStatus    string    `json:"payment_status"`
	Total            int64     `json:"total"`
}

type CheckoutOptions struct {
	ShippingFee int64
	Currency    string
}

type CheckoutService interface {
	Checkout(ctx context.Context, actor *Actor, cart *model.Cart, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	profileRepo     repository.ProfileRepository
	gateway         payment.Gateway
	publisher       StockPublisher
	opts            CheckoutOptions
	log             logrus.FieldLogger
}

func NewCheckoutService(
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	profileRepo repository.ProfileRepository,
	gateway payment.Gateway,
	publisher StockPublisher,
	opts CheckoutOptions,
	log logrus.FieldLogger,
) CheckoutService {
	return &checkoutService{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		profileRepo:     profileRepo,
		gateway:         gateway,
		publisher:       publisher,
		opts:            opts,
		log:             log.WithField("component", "checkout"),
	}
}

func (s *checkoutService) Checkout(ctx context.Context, actor *Actor, cart *model.Cart, req CheckoutRequest) (*CheckoutResult, error) {
	// 1. Authenticate
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	// 2. Validate input
	fillFromCart(&req, cart)
	if err := validateCheckout(&req); err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{
		"buyer_id":   actor.ID,
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
	})

	// 3. Shipping defaults are best effort
	if err := s.profileRepo.UpdateShipping(ctx, actor.ID, req.Department, req.Province, req.Address); err != nil {
		log.WithError(err).Warn("could not save shipping defaults")
	}

	// 4. Pre-flight stock and price check
	variant, err := s.productRepo.FindVariant(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, unexpected(err)
	}
	if variant.ProductID != req.ProductID {
		return nil, NewValidationError("variant does not belong to product", "variant_id")
	}
	if variant.Product == nil || !variant.Product.IsAvailable {
		return nil, ErrProductNotFound
	}
	if variant.InventoryCount < req.Quantity {
		return nil, &InsufficientStockError{Remaining: variant.InventoryCount}
	}
	if unit := variant.UnitPrice(variant.Product); unit != req.Price {
		return nil, NewValidationError("price has changed, refresh your cart", "price")
	}

	// 5. Payment
	total := req.Price*int64(req.Quantity) + s.opts.ShippingFee
	charge, err := s.gateway.Charge(ctx, payment.Request{
		Amount:      total,
		Currency:    s.opts.Currency,
		Method:      payment.Method(req.PaymentMethod),
		CardNumber:  req.CardNumber,
		CardExpiry:  req.CardExpiry,
		CardCVC:     req.CardCVC,
		Description: fmt.Sprintf("%s x%d", variant.Product.Name, req.Quantity),
	})
	if err != nil {
		return nil, unexpected(err)
	}
	if !charge.Success {
		log.WithField("code", charge.Code).Info("payment declined")
		return nil, &PaymentError{Code: charge.Code, Message: charge.Message}
	}

	// 6+7. Order, conditional decrement and purchase log commit together
	order := &model.Transaction{
		ProductID:        req.ProductID,
		VariantID:        req.VariantID,
		Price:            req.Price,
		Quantity:         req.Quantity,
		BuyerID:          actor.ID,
		BuyerName:        req.BuyerName,
		BuyerEmail:       req.BuyerEmail,
		Department:       req.Department,
		Province:         req.Province,
		Address:          req.Address,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    model.PaymentStatus(charge.Status),
		PaymentReference: charge.Reference,
		Status:           model.StatusPending,
	}
	entry, err := s.transactionRepo.Place(ctx, order, actor.AuditName())
	if err != nil {
		s.refund(ctx, log, charge.Reference)
		switch {
		case errors.Is(err, repository.ErrStockConflict):
			return nil, &InsufficientStockError{Remaining: s.remaining(ctx, req.VariantID)}
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrVariantNotFound
		}
		return nil, unexpected(err)
	}

	s.publisher.Publish(ws.StockEvent{
		VariantID:      entry.VariantID,
		ProductID:      order.ProductID,
		InventoryCount: entry.NewCount,
		Reason:         entry.Reason,
	})

	// 8. Clear the cart
	if cart != nil {
		cart.Clear()
	}

	log.WithField("transaction_id", order.ID).Info("order placed")
	return &CheckoutResult{
		Success:          true,
		TransactionID:    order.ID,
		PaymentReference: charge.Reference,
		PaymentStatus:    charge.Status,
		Total:            total,
	}, nil
}

func (s *checkoutService) refund(ctx context.Context, log logrus.FieldLogger, reference string) {
	if err := s.gateway.Refund(ctx, reference); err != nil {
		log.WithError(err).WithField("payment_reference", reference).Error("refund after failed order")
	}
}

func (s *checkoutService) remaining(ctx context.Context, variantID uuid.UUID) int {
	variant, err := s.productRepo.FindVariant(ctx, variantID)
	if err != nil {
		return 0
	}
	return variant.InventoryCount
}

// fillFromCart takes the purchased line from the first cart line when the request did not name one.
func fillFromCart(req *CheckoutRequest, cart *model.Cart) {
	if req.ProductID != uuid.Nil || cart == nil || cart.IsEmpty() {
		return
	}
	line := cart.Items[0]
	req.ProductID = line.ProductID
	if line.VariantID != nil {
		req.VariantID = *line.VariantID
	}
	req.Price = line.Price
	req.Quantity = line.Quantity
}

func validateCheckout(req *CheckoutRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		if missing := validator.Missing(errs); len(missing) > 0 {
			return NewValidationError("", missing...)
		}
		return NewValidationError("", validator.Fields(errs)...)
	}

	department, ok := region.CanonicalDepartment(req.Department)
	if !ok {
		return ErrUnsupportedRegion
	}
	province, ok := region.CanonicalProvince(department, req.Province)
	if !ok {
		return NewValidationError("province does not belong to department", "province")
	}
	req.Department = department
	req.Province = province
	return nil
}
