package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-ws/internal/model"
)

func TestInventoryAdjustAppendsLog(t *testing.T) {
	s := newStore()
	p, v := s.addProduct(1000, 4)
	pub := &recordingPublisher{}
	svc := NewInventoryService(fakeProductRepo{s}, fakeInventoryRepo{s}, pub)
	ctx := context.Background()

	entry, err := svc.Adjust(ctx, admin(), v.ID, 12, "")
	require.NoError(t, err)
	assert.Equal(t, 4, entry.PreviousCount)
	assert.Equal(t, 12, entry.NewCount)
	assert.Equal(t, model.ManualAdjustmentReason, entry.Reason)
	assert.Equal(t, "admin@store.pe", entry.Actor)

	// Unchanged counts are still audited.
	entry, err = svc.Adjust(ctx, admin(), v.ID, 12, "stock take")
	require.NoError(t, err)
	assert.Equal(t, 12, entry.PreviousCount)
	assert.Equal(t, "stock take", entry.Reason)

	logs, err := svc.Logs(ctx, admin(), v.ID, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	require.Len(t, pub.events, 2)
	assert.Equal(t, p.ID, pub.events[0].ProductID)
	assert.Equal(t, 12, pub.events[0].InventoryCount)
}

func TestInventoryAdjustRejects(t *testing.T) {
	s := newStore()
	_, v := s.addProduct(1000, 4)
	svc := NewInventoryService(fakeProductRepo{s}, fakeInventoryRepo{s}, &recordingPublisher{})
	ctx := context.Background()

	_, err := svc.Adjust(ctx, &Actor{ID: uuid.New(), Email: "shopper@example.pe"}, v.ID, 1, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Adjust(ctx, admin(), v.ID, -1, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Adjust(ctx, admin(), uuid.New(), 1, "")
	assert.ErrorIs(t, err, ErrVariantNotFound)

	assert.Equal(t, 4, s.inventory(v.ID))
	assert.Zero(t, s.logCount())
}
