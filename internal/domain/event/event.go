// Package event define los eventos de dominio que emite el ciclo de vida de producción después de
// cada commit. La difusión a clientes (websocket) vive fuera del núcleo.
package event

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento.
const (
	TypeOrderCreated   = "order.created"
	TypeOrderCompleted = "order.completed"
	TypeOrderReopened  = "order.reopened"
	TypeOrderDeleted   = "order.deleted"
	TypeValeApplied    = "vale.applied"
	TypeStockChanged   = "stock.changed"
)

// Event evento de dominio con su carga útil.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// New crea un evento con marca de tiempo actual.
func New(eventType string, data any) Event {
	return Event{Type: eventType, Data: data, At: time.Now()}
}

// OrderChanged carga útil de los eventos de orden.
type OrderChanged struct {
	OrderID          int64            `json:"order_id"`
	ProductCode      string           `json:"product_code"`
	Status           string           `json:"status"`
	WarehouseID      string           `json:"warehouse_id,omitempty"`
	QuantityProduced *decimal.Decimal `json:"quantity_produced,omitempty"`
}

// ValeApplied carga útil de un vale aplicado.
type ValeApplied struct {
	ValeID    string          `json:"vale_id"`
	OrderID   int64           `json:"order_id"`
	Type      string          `json:"type"`
	AlmacenID string          `json:"almacen_id"`
	Cost      decimal.Decimal `json:"cost"`
}

// StockChanged carga útil de un cambio de stock en una celda ítem+almacén.
type StockChanged struct {
	ItemCode    string          `json:"item_code"`
	WarehouseID string          `json:"warehouse_id"`
	Delta       decimal.Decimal `json:"delta"`
	Balance     decimal.Decimal `json:"balance"`
}

// Publisher recibe eventos ya confirmados. No debe bloquear ni fallar la operación que los emitió.
type Publisher interface {
	Publish(events ...Event)
}

// Nop descarta los eventos.
type Nop struct{}

// Publish no hace nada.
func (Nop) Publish(...Event) {}

// Recorder guarda los eventos publicados; útil en tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish agrega los eventos.
func (r *Recorder) Publish(events ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Events devuelve una copia de lo publicado.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType filtra por tipo.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
