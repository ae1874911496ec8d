package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront-ws/pkg/logger"
)

func TestPublishQueuesStockUpdate(t *testing.T) {
	h := NewHub(logger.Discard())
	variant := uuid.New()

	h.Publish(StockEvent{VariantID: variant, InventoryCount: 7, Reason: "restock"})

	require.Len(t, h.Broadcast, 1)
	var got StockEvent
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
	assert.Equal(t, StockUpdate, got.Type)
	assert.Equal(t, variant, got.VariantID)
	assert.Equal(t, 7, got.InventoryCount)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub(logger.Discard())
	for i := 0; i < broadcastBuffer+5; i++ {
		h.Publish(StockEvent{VariantID: uuid.New()})
	}
	assert.Len(t, h.Broadcast, broadcastBuffer)
}

func TestRunStopsAndClearsClients(t *testing.T) {
	h := NewHub(logger.Discard())
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		h.Run(done)
		close(finished)
	}()
	close(done)
	<-finished
	assert.Zero(t, h.Count())
}

func TestJoinAndLeaveDoNotBlockAfterStop(t *testing.T) {
	h := NewHub(logger.Discard())
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		h.Run(done)
		close(finished)
	}()
	close(done)
	<-finished

	returned := make(chan bool)
	go func() {
		joined := h.Join(nil)
		h.Leave(nil)
		returned <- joined
	}()

	select {
	case joined := <-returned:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("Join/Leave blocked on a stopped hub")
	}
}
