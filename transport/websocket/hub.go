package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/ui"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	defaultClientBuffer = 16
)

// console is the part of the UI context the hub drives. Every call only queues input.
type console interface {
	SubmitHumanMove(row, col int)
	RequestRestart()
	RequestShutdown()
	SelectProvider(id string)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams every rendered frame to connected clients and turns their
// actions into console input. It is registered as a ui.Renderer.
type Hub struct {
	logger   *slog.Logger
	console  console
	upgrader websocket.Upgrader
	buffer   int
	handlers map[string]func(msg *Message) error

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
}

func NewHub(logger *slog.Logger, console console, buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}

	hub := &Hub{
		logger:  logger.With("component", "ws_hub"),
		console: console,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		buffer:   buffer,
		handlers: make(map[string]func(*Message) error),
		clients:  make(map[*client]struct{}),
	}

	hub.handlers[actionGameTurn] = hub.handleTurn
	hub.handlers[actionGameRestart] = hub.handleRestart
	hub.handlers[actionGameClose] = hub.handleClose
	hub.handlers[actionProviderSelect] = hub.handleProviderSelect

	return hub
}

// Render fans a frame out to every client. Clients whose buffer is full are dropped.
func (that *Hub) Render(view ui.View) {
	data, err := encode(actionGameState, view)
	if err != nil {
		that.logger.Error("failed to encode view", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.last = data
	for c := range that.clients {
		that.enqueueLocked(c, data)
	}
}

// ServeHTTP upgrades the request and replays the latest frame to the new client.
func (that *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, that.buffer)}

	that.mu.Lock()
	that.clients[c] = struct{}{}
	if that.last != nil {
		that.enqueueLocked(c, that.last)
	}
	count := len(that.clients)
	that.mu.Unlock()

	log.Info("client connected", "remote", conn.RemoteAddr().String(), "clients", count)

	go that.writePump(c)
	go that.readPump(c)
}

func (that *Hub) ClientCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.clients)
}

// Close disconnects every client.
func (that *Hub) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for c := range that.clients {
		that.removeLocked(c)
	}
}

func (that *Hub) enqueueLocked(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		that.logger.Warn("client is too slow, dropping it")
		that.removeLocked(c)
	}
}

func (that *Hub) removeLocked(c *client) {
	if _, ok := that.clients[c]; !ok {
		return
	}

	delete(that.clients, c)
	close(c.send)
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeLocked(c)
}

func (that *Hub) reply(c *client, action string, cause error) {
	data, err := encode(actionError, ErrorPayload{Action: action, Error: cause.Error()})
	if err != nil {
		that.logger.Error("failed to encode error", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[c]; ok {
		that.enqueueLocked(c, data)
	}
}

func (that *Hub) dispatch(c *client, raw []byte) {
	log := that.logger.With("method", "dispatch")

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		that.reply(c, "", err)
		return
	}

	handler, ok := that.handlers[msg.Action]
	if !ok {
		log.Warn("unknown action", "action", msg.Action)
		that.reply(c, msg.Action, errUnknownAction)
		return
	}

	if err := handler(&msg); err != nil {
		log.Warn("error processing message", "action", msg.Action, "error", err)
		that.reply(c, msg.Action, err)
	}
}

func (that *Hub) readPump(c *client) {
	defer func() {
		that.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				that.logger.Warn("websocket read failed", "error", err)
			}

			return
		}

		that.dispatch(c, raw)
	}
}

func (that *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					that.logger.Debug("websocket write failed", "error", err)
				}

				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
