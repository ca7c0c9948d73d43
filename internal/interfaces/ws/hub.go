// Package ws difunde los eventos de producción a clientes WebSocket (tableros de planta).
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/rs/zerolog"
)

var _ event.Publisher = (*Hub)(nil)

const (
	// broadcastBuffer mensajes pendientes antes de empezar a descartar.
	broadcastBuffer = 256
	// writeWait tiempo máximo de escritura por cliente; el que no alcanza se desconecta.
	writeWait = 5 * time.Second
)

// Hub registra conexiones y reenvía cada evento publicado a todas ellas.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	done       chan struct{}
	log        zerolog.Logger
}

// NewHub construye el hub; Run debe correr en su propia goroutine.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run atiende altas, bajas y difusión hasta que ctx se cancela. Se llama una sola vez.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.log.Debug().Int("clients", n).Msg("cliente ws conectado")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.broadcast(message)
		}
	}
}

// broadcast escribe fuera del mutex; solo Run escribe en las conexiones.
func (h *Hub) broadcast(message []byte) {
	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.Clients))
	for conn := range h.Clients {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debug().Err(err).Msg("cliente ws descartado")
			h.mutex.Lock()
			delete(h.Clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}
	}
}

// Done se cierra cuando Run termina.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Join registra la conexión; devuelve false si el hub ya se detuvo.
func (h *Hub) Join(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Leave da de baja la conexión. Tras el apagado no hace nada: Run ya cerró todas.
func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Publish serializa los eventos y los encola para difusión. Nunca bloquea al caso de uso:
// si el buffer está lleno el evento se descarta.
func (h *Hub) Publish(events ...event.Event) {
	for _, ev := range events {
		msg, err := json.Marshal(ev)
		if err != nil {
			h.log.Error().Err(err).Str("type", ev.Type).Msg("serializar evento")
			continue
		}
		select {
		case h.Broadcast <- msg:
		default:
			h.log.Warn().Str("type", ev.Type).Msg("buffer ws lleno, evento descartado")
		}
	}
}

// ClientCount cantidad de clientes conectados.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// UpgradeOnly rechaza con 426 lo que no sea un upgrade a WebSocket.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler atiende una conexión: la registra y la mantiene hasta que el cliente cierra.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.Join(c) {
			return
		}
		defer h.Leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
