package service

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/payment"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/ws"
)

type TransactionQuery = repository.TransactionFilter

type OrderService interface {
	GetUserTransactions(ctx context.Context, actor *Actor) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, actor *Actor, id uuid.UUID) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context, actor *Actor, query TransactionQuery) ([]model.Transaction, error)
	UpdateStatus(ctx context.Context, actor *Actor, id uuid.UUID, status string) (*model.Transaction, error)
}

type orderService struct {
	transactionRepo repository.TransactionRepository
	gateway         payment.Gateway
	publisher       StockPublisher
	log             logrus.FieldLogger
}

func NewOrderService(transactionRepo repository.TransactionRepository, gateway payment.Gateway, publisher StockPublisher, log logrus.FieldLogger) OrderService {
	return &orderService{
		transactionRepo: transactionRepo,
		gateway:         gateway,
		publisher:       publisher,
		log:             log.WithField("component", "orders"),
	}
}

func (s *orderService) GetUserTransactions(ctx context.Context, actor *Actor) ([]model.Transaction, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	buyer := actor.ID
	transactions, err := s.transactionRepo.FindAll(ctx, repository.TransactionFilter{BuyerID: &buyer})
	if err != nil {
		return nil, unexpected(err)
	}
	return transactions, nil
}

// GetTransaction is visible to its buyer and to administrators.
func (s *orderService) GetTransaction(ctx context.Context, actor *Actor, id uuid.UUID) (*model.Transaction, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && t.BuyerID != actor.ID {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *orderService) GetAllTransactions(ctx context.Context, actor *Actor, query TransactionQuery) ([]model.Transaction, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	query.BuyerID = nil
	transactions, err := s.transactionRepo.FindAll(ctx, query)
	if err != nil {
		return nil, unexpected(err)
	}
	return transactions, nil
}

// UpdateStatus lets administrators walk the fulfilment flow. A buyer may only cancel their own pending order.
func (s *orderService) UpdateStatus(ctx context.Context, actor *Actor, id uuid.UUID, status string) (*model.Transaction, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	to, ok := model.ParseTransactionStatus(status)
	if !ok {
		return nil, NewValidationError("unknown status", "status")
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var allowedFrom []model.TransactionStatus
	if actor.IsAdmin {
		allowedFrom = model.StatusesLeadingTo(to)
	} else {
		if current.BuyerID != actor.ID || to != model.StatusCancelled {
			return nil, ErrForbidden
		}
		allowedFrom = []model.TransactionStatus{model.StatusPending}
	}
	if !slices.Contains(allowedFrom, current.Status) {
		return nil, &TransitionError{From: string(current.Status), To: string(to)}
	}

	updated, change, err := s.transactionRepo.UpdateStatus(ctx, id, to, allowedFrom, actor.AuditName())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, &TransitionError{From: string(current.Status), To: string(to)}
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTransactionNotFound
		}
		return nil, unexpected(err)
	}

	if change != nil {
		s.publisher.Publish(ws.StockEvent{
			VariantID:      change.Log.VariantID,
			ProductID:      change.ProductID,
			InventoryCount: change.Log.NewCount,
			Reason:         change.Log.Reason,
		})
	}
	if to == model.StatusCancelled {
		s.refund(ctx, updated, actor.AuditName())
	}
	return updated, nil
}

// refund voids the charge of a cancelled paid order. The order only reads refunded once the gateway
// accepted the refund; a failure leaves it paid and is logged for follow-up.
func (s *orderService) refund(ctx context.Context, t *model.Transaction, actor string) {
	if t.PaymentStatus != model.PaymentPaid || t.PaymentReference == "" {
		return
	}
	log := s.log.WithFields(logrus.Fields{
		"transaction_id":    t.ID,
		"payment_reference": t.PaymentReference,
	})
	if err := s.gateway.Refund(ctx, t.PaymentReference); err != nil {
		log.WithError(err).Error("refund for cancelled order failed")
		return
	}
	if err := s.transactionRepo.SetPaymentStatus(ctx, t.ID, model.PaymentRefunded, actor); err != nil {
		log.WithError(err).Error("refund issued but payment status not recorded")
		return
	}
	t.PaymentStatus = model.PaymentRefunded
}

func (s *orderService) find(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, unexpected(err)
	}
	return t, nil
}
