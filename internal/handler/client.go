package handler

import (
	"encoding/json"
	"sync"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client - одно WebSocket подключение. Реализует gateway.Conn.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan domain.OutboundEvent
	mu     sync.RWMutex
	closed bool
	log    logger.Logger
}

func NewClient(conn *websocket.Conn, userID string, bufferSize int, log logger.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan domain.OutboundEvent, bufferSize),
		log:    log.With("conn_id", id, "user_id", userID),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) UserID() string { return c.userID }

// Send не блокирует: при полном буфере событие теряется, после Close ничего не делает
func (c *Client) Send(event domain.OutboundEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return
	}
	select {
	case c.send <- event:
	default:
		c.log.Warn("Send buffer is full, event dropped", "event", event.Kind, "room_id", event.RoomID)
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump читает кадры до ошибки соединения и передает их в handle
func (c *Client) readPump(maxFrameSize int64, pongWait time.Duration, handle func(domain.InboundFrame)) {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Connection closed unexpectedly", "error", err)
			}
			return
		}

		var frame domain.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.Send(domain.NewErrorEvent("validation error: malformed frame"))
			continue
		}
		handle(frame)
	}
}

// writePump - единственный писатель в соединение
func (c *Client) writePump(pingPeriod, writeWait time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.log.Warn("Failed to write event", "error", err, "event", event.Kind)
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
