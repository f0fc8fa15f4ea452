package gateway

import (
	"sync"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/samber/lo"
)

type set map[string]struct{}

// Hub - реестр подключений этого процесса и их комнат.
// Рассылка берет снимок получателей под RLock и отправляет вне блокировки.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn // connection id -> подключение
	rooms map[string]set  // room id -> connection ids
	joins map[string]set  // connection id -> room ids
	log   logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		conns: make(map[string]Conn),
		rooms: make(map[string]set),
		joins: make(map[string]set),
		log:   log,
	}
}

func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn.ID()] = conn
	if _, ok := h.joins[conn.ID()]; !ok {
		h.joins[conn.ID()] = make(set)
	}
}

// Unregister удаляет подключение и его членство во всех комнатах
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.joins[connID] {
		h.removeFromRoom(roomID, connID)
	}
	delete(h.joins, connID)
	delete(h.conns, connID)
}

// Join добавляет зарегистрированное подключение в рассылку комнаты. Повторный вызов ничего не меняет.
func (h *Hub) Join(connID, roomID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return false
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(set)
	}
	h.rooms[roomID][connID] = struct{}{}
	h.joins[connID][roomID] = struct{}{}
	return true
}

func (h *Hub) Leave(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(roomID, connID)
	if rooms, ok := h.joins[connID]; ok {
		delete(rooms, roomID)
	}
}

func (h *Hub) removeFromRoom(roomID, connID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// Deliver отправляет событие всем локальным подключениям комнаты и возвращает их число
func (h *Hub) Deliver(event domain.OutboundEvent) int {
	recipients := h.snapshot(event.RoomID)
	for _, conn := range recipients {
		conn.Send(event)
	}
	h.log.Debug("Event delivered locally", "event", event.Kind, "room_id", event.RoomID, "recipients", len(recipients))
	return len(recipients)
}

func (h *Hub) snapshot(roomID string) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.FilterMap(lo.Keys(h.rooms[roomID]), func(connID string, _ int) (Conn, bool) {
		conn, ok := h.conns[connID]
		return conn, ok
	})
}

// Rooms возвращает комнаты, в которые вступило подключение
func (h *Hub) Rooms(connID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.Keys(h.joins[connID])
}

// Len - число зарегистрированных подключений
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.conns)
}
