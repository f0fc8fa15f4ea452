package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Gateway - точка входа для каждого входящего события.
// Каждое событие обрабатывается своей горутиной: decode -> room lookup -> authorize -> act -> emit.
// Порядок завершения событий одного подключения не гарантируется.
type Gateway struct {
	rooms    RoomDirectory
	store    MessageStore
	out      Broadcaster
	hub      *Hub
	routes   map[domain.InboundKind]route
	validate *validator.Validate
	timeout  time.Duration
	log      logger.Logger

	mu       sync.RWMutex
	draining bool
	inflight sync.WaitGroup
}

func New(rooms RoomDirectory, store MessageStore, out Broadcaster, hub *Hub, timeout time.Duration, log logger.Logger) *Gateway {
	g := &Gateway{
		rooms:    rooms,
		store:    store,
		out:      out,
		hub:      hub,
		validate: validator.New(),
		timeout:  timeout,
		log:      log,
	}
	g.routes = g.buildRoutes()
	return g
}

// Dispatch запускает конвейер события в отдельной горутине и сразу возвращается.
// После начала Drain новые события отклоняются.
func (g *Gateway) Dispatch(ctx context.Context, conn Conn, frame domain.InboundFrame) {
	g.mu.RLock()
	if g.draining {
		g.mu.RUnlock()
		g.fail(conn, frame.Event, errors.ErrShuttingDown)
		return
	}
	g.inflight.Add(1)
	g.mu.RUnlock()

	go func() {
		defer g.inflight.Done()
		g.Handle(ctx, conn, frame)
	}()
}

// Handle выполняет конвейер синхронно. Любая ошибка превращается в уведомление
// только для conn, другие события и само подключение не затрагиваются.
func (g *Gateway) Handle(ctx context.Context, conn Conn, frame domain.InboundFrame) {
	// Отключение клиента не отменяет начатые вызовы
	ctx = context.WithoutCancel(ctx)

	event, err := g.run(ctx, conn, frame)
	if err != nil {
		g.fail(conn, frame.Event, err)
		return
	}

	g.hub.Join(conn.ID(), event.RoomID)
	g.out.Broadcast(event)
}

func (g *Gateway) run(ctx context.Context, conn Conn, frame domain.InboundFrame) (domain.OutboundEvent, error) {
	r, ok := g.routes[frame.Event]
	if !ok {
		return domain.OutboundEvent{}, fmt.Errorf("%w %q", errors.ErrUnknownEvent, frame.Event)
	}

	req, err := g.decode(conn, r, frame.Data)
	if err != nil {
		return domain.OutboundEvent{}, err
	}
	base := req.Base()

	room, err := g.authorize(ctx, conn, base.RoomID, base.UserID)
	if err != nil {
		return domain.OutboundEvent{}, err
	}

	data, err := r.act(ctx, &pipeline{conn: conn, kind: frame.Event, room: room, req: req})
	if err != nil {
		return domain.OutboundEvent{}, err
	}

	return Build(r.kind, data, base.UserID, base.RoomID), nil
}

func (g *Gateway) decode(conn Conn, r route, data json.RawMessage) (domain.Request, error) {
	if len(data) == 0 {
		return nil, errors.Validation(fmt.Errorf("payload is required"))
	}

	req := r.newRequest()
	if err := json.Unmarshal(data, req); err != nil {
		return nil, errors.Validation(err)
	}

	// userId по умолчанию берется из аутентифицированного подключения
	base := req.Base()
	switch {
	case base.UserID == "":
		base.UserID = conn.UserID()
	case conn.UserID() != "" && base.UserID != conn.UserID():
		return nil, errors.ErrUnauthorized
	}

	if err := g.validate.Struct(req); err != nil {
		return nil, errors.Validation(err)
	}
	return req, nil
}

func (g *Gateway) lookup(ctx context.Context, roomID string) (*domain.Room, error) {
	return withTimeout(ctx, g.timeout, func(ctx context.Context) (*domain.Room, error) {
		return g.rooms.GetParticipantsByRoom(ctx, roomID)
	})
}

// authorize проверяет участие userID в комнате. Если комнаты нет или пользователь
// в ней больше не участвует, подключение перестает получать рассылку комнаты.
func (g *Gateway) authorize(ctx context.Context, conn Conn, roomID, userID string) (*domain.Room, error) {
	room, err := g.lookup(ctx, roomID)
	if err == nil {
		err = Authorize(room, userID)
	}
	if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrUnauthorized) {
		g.hub.Leave(conn.ID(), roomID)
	}
	return room, err
}

// Join авторизует подключение в комнате и подписывает его на рассылку комнаты
func (g *Gateway) Join(ctx context.Context, conn Conn, roomID string) error {
	if _, err := g.authorize(ctx, conn, roomID, conn.UserID()); err != nil {
		err = errors.Classify(err)
		g.log.Warn("Failed to join room", "error", err, "room_id", roomID, "user_id", conn.UserID())
		return err
	}

	g.hub.Join(conn.ID(), roomID)
	return nil
}

// detach запускает вызов без ожидания результата.
// Ошибка логируется и отправляется только исходному подключению.
func (g *Gateway) detach(ctx context.Context, p *pipeline, call func(ctx context.Context) error) {
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		_, err := withTimeout(ctx, g.timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, call(ctx)
		})
		if err != nil {
			g.fail(p.conn, p.kind, err)
		}
	}()
}

func (g *Gateway) fail(conn Conn, kind domain.InboundKind, err error) {
	err = errors.Classify(err)

	switch {
	case errors.IsClientError(err):
		g.log.Warn("Event rejected", "error", err, "event", kind, "conn_id", conn.ID(), "user_id", conn.UserID())
	default:
		g.log.Error("Failed to handle event", "error", err, "event", kind, "conn_id", conn.ID(), "user_id", conn.UserID())
	}

	conn.Send(domain.NewErrorEvent(errors.Message(err)))
}

// Wait блокируется до завершения всех начатых конвейеров и отложенных вызовов
func (g *Gateway) Wait() {
	g.inflight.Wait()
}

// Drain перестает принимать события и ждет начатые не дольше ctx.
// Используется при остановке сервера.
func (g *Gateway) Drain(ctx context.Context) error {
	g.mu.Lock()
	g.draining = true
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withTimeout ограничивает вызов сверху, даже если вызываемый игнорирует ctx.
// Сам вызов может завершиться позже, его результат тогда отбрасывается.
func withTimeout[T any](ctx context.Context, d time.Duration, call func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, errors.ErrTimeout
	}
}
