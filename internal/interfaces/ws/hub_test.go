package ws_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/interfaces/ws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishEncolaEventoSerializado(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	hub.Publish(event.New(event.TypeOrderCreated, event.OrderChanged{OrderID: 7, ProductCode: "P1", Status: "Pendiente"}))

	require.Len(t, hub.Broadcast, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &got))
	assert.Equal(t, event.TypeOrderCreated, got["type"])
	data := got["data"].(map[string]any)
	assert.Equal(t, float64(7), data["order_id"])
	assert.Equal(t, "P1", data["product_code"])
}

func TestHub_PublishNoBloqueaConBufferLleno(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	for i := 0; i < cap(hub.Broadcast)+10; i++ {
		hub.Publish(event.New(event.TypeStockChanged, event.StockChanged{ItemCode: "M1"}))
	}
	assert.Equal(t, cap(hub.Broadcast), len(hub.Broadcast))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_TrasApagadoJoinYLeaveNoBloquean(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}

	joined := make(chan bool, 1)
	go func() { joined <- hub.Join(nil) }()
	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Join bloqueado con el hub detenido")
	}

	left := make(chan struct{})
	go func() {
		hub.Leave(nil)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave bloqueado con el hub detenido")
	}
	assert.Equal(t, 0, hub.ClientCount())
}
