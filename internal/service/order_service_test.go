package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/pkg/logger"
)

func placeOrder(t *testing.T, f *checkoutFixture, qty int) uuid.UUID {
	t.Helper()
	res, err := f.svc.Checkout(context.Background(), buyer(f.buyer), f.cart(qty), f.request(qty))
	require.NoError(t, err)
	return res.TransactionID
}

func TestOrderQueries(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	first := placeOrder(t, f, 1)
	second := placeOrder(t, f, 2)
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())
	ctx := context.Background()

	mine, err := svc.GetUserTransactions(ctx, buyer(f.buyer))
	require.NoError(t, err)
	require.Len(t, mine, 2)

	other := f.store.addProfile("luis@example.pe")
	theirs, err := svc.GetUserTransactions(ctx, buyer(other))
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.GetTransaction(ctx, buyer(other), first)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetTransaction(ctx, buyer(f.buyer), second)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	_, err = svc.GetTransaction(ctx, admin(), uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetUserTransactions(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetAllTransactionsIsAdminOnly(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	placeOrder(t, f, 1)
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())
	ctx := context.Background()

	_, err := svc.GetAllTransactions(ctx, buyer(f.buyer), TransactionQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetAllTransactions(ctx, nil, TransactionQuery{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	all, err := svc.GetAllTransactions(ctx, admin(), TransactionQuery{Department: "Lima"})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := svc.GetAllTransactions(ctx, admin(), TransactionQuery{Status: model.StatusShipped})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAdminWalksFulfilmentFlow(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	id := placeOrder(t, f, 1)
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())
	ctx := context.Background()

	for _, next := range []string{"processing", "shipped", "delivered"} {
		updated, err := svc.UpdateStatus(ctx, admin(), id, next)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatus(next), updated.Status)
	}

	_, err := svc.UpdateStatus(ctx, admin(), id, "cancelled")
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "delivered", terr.From)
	assert.Equal(t, 9, f.store.inventory(f.variant.ID))
}

func TestCancelRestocksAndLogs(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	id := placeOrder(t, f, 3)
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())
	events := f.publisher.count()

	ref := f.store.transactions[id].PaymentReference
	require.NotEmpty(t, ref)

	updated, err := svc.UpdateStatus(context.Background(), buyer(f.buyer), id, "cancelled")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, updated.Status)
	assert.Equal(t, model.PaymentRefunded, updated.PaymentStatus)
	assert.True(t, f.gateway.Refunded(ref))
	assert.Equal(t, model.PaymentRefunded, f.store.transactions[id].PaymentStatus)
	assert.Equal(t, 10, f.store.inventory(f.variant.ID))
	require.Equal(t, 2, f.store.logCount())
	entry := f.store.logs[1]
	assert.Equal(t, 7, entry.PreviousCount)
	assert.Equal(t, 10, entry.NewCount)
	assert.Equal(t, model.CancellationReason(id), entry.Reason)
	assert.Equal(t, events+1, f.publisher.count())
}

func TestCancelKeepsPaidWhenRefundFails(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	id := placeOrder(t, f, 1)
	f.store.transactions[id].PaymentReference = "PAY-UNKNOWN"
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())

	updated, err := svc.UpdateStatus(context.Background(), admin(), id, "cancelled")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, updated.Status)
	assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, model.PaymentPaid, f.store.transactions[id].PaymentStatus)
	assert.Equal(t, 10, f.store.inventory(f.variant.ID))
}

func TestBuyerStatusRules(t *testing.T) {
	f := newCheckoutFixture(t, 10)
	id := placeOrder(t, f, 1)
	svc := NewOrderService(fakeTransactionRepo{f.store}, f.gateway, f.publisher, logger.Discard())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, buyer(f.buyer), id, "shipped")
	assert.ErrorIs(t, err, ErrForbidden)

	stranger := f.store.addProfile("eva@example.pe")
	_, err = svc.UpdateStatus(ctx, buyer(stranger), id, "cancelled")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ctx, buyer(f.buyer), id, "lost")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, admin(), id, "processing")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, buyer(f.buyer), id, "cancelled")
	assert.ErrorIs(t, err, ErrValidation)
}
