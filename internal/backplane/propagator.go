package backplane

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"
)

// Transport - канал публикации между процессами
type Transport interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe подписывается до возврата. Канал сообщений закрывается после вызова close.
	Subscribe(ctx context.Context, channel string) (msgs <-chan []byte, close func() error, err error)
}

// Deliverer - локальная доставка подключениям этого процесса
type Deliverer interface {
	Deliver(event domain.OutboundEvent) int
}

// envelope - то, что уходит в канал: событие с пометкой процесса-отправителя
type envelope struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// wireEvent совпадает с domain.OutboundEvent, но data остается сырой
type wireEvent struct {
	Kind   domain.OutboundKind `json:"event"`
	Data   json.RawMessage     `json:"data"`
	UserID string              `json:"userId,omitempty"`
	RoomID string              `json:"roomId,omitempty"`
}

type Config struct {
	NodeID         string
	Channel        string
	QueueSize      int
	PublishTimeout time.Duration
}

// Propagator рассылает события локально и во все остальные процессы.
// Публикация асинхронная: Broadcast никогда не ждет транспорт.
type Propagator struct {
	cfg       Config
	local     Deliverer
	transport Transport
	queue     chan envelope
	wg        sync.WaitGroup
	log       logger.Logger
}

func NewPropagator(cfg Config, local Deliverer, transport Transport, log logger.Logger) *Propagator {
	return &Propagator{
		cfg:       cfg,
		local:     local,
		transport: transport,
		queue:     make(chan envelope, cfg.QueueSize),
		log:       log.With("node_id", cfg.NodeID),
	}
}

func (p *Propagator) NodeID() string {
	return p.cfg.NodeID
}

// Start подписывается на канал и запускает циклы публикации и приема.
// Циклы работают до отмены ctx.
func (p *Propagator) Start(ctx context.Context) error {
	msgs, closeSub, err := p.transport.Subscribe(ctx, p.cfg.Channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", p.cfg.Channel, err)
	}

	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		p.publishLoop(ctx)
	}()
	go func() {
		defer p.wg.Done()
		p.receiveLoop(ctx, msgs, closeSub)
	}()

	p.log.Info("Backplane started", "channel", p.cfg.Channel)
	return nil
}

// Wait ждет остановки циклов после отмены контекста Start
func (p *Propagator) Wait() {
	p.wg.Wait()
}

// Broadcast доставляет событие локально и ставит его в очередь на публикацию.
// При переполненной очереди событие для других процессов отбрасывается.
func (p *Propagator) Broadcast(event domain.OutboundEvent) {
	p.local.Deliver(event)

	raw, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode event", "error", err, "event", event.Kind, "room_id", event.RoomID)
		return
	}

	select {
	case p.queue <- envelope{Origin: p.cfg.NodeID, Event: raw}:
	default:
		p.log.Warn("Backplane queue is full, event dropped", "event", event.Kind, "room_id", event.RoomID)
	}
}

func (p *Propagator) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-p.queue:
			p.publish(ctx, env)
		}
	}
}

func (p *Propagator) publish(ctx context.Context, env envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		p.log.Error("Failed to encode envelope", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	if err := p.transport.Publish(ctx, p.cfg.Channel, payload); err != nil {
		p.log.Error("Failed to publish event", "error", err, "channel", p.cfg.Channel)
	}
}

func (p *Propagator) receiveLoop(ctx context.Context, msgs <-chan []byte, closeSub func() error) {
	defer func() {
		if err := closeSub(); err != nil {
			p.log.Warn("Failed to close subscription", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				p.log.Warn("Backplane subscription closed")
				return
			}
			p.receive(payload)
		}
	}
}

// receive доставляет чужое событие только локально, повторно оно не публикуется
func (p *Propagator) receive(payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		p.log.Warn("Failed to decode envelope", "error", err)
		return
	}
	if env.Origin == p.cfg.NodeID {
		return
	}

	var evt wireEvent
	if err := json.Unmarshal(env.Event, &evt); err != nil {
		p.log.Warn("Failed to decode event", "error", err, "origin", env.Origin)
		return
	}

	p.local.Deliver(domain.OutboundEvent{
		Kind:   evt.Kind,
		Data:   evt.Data,
		UserID: evt.UserID,
		RoomID: evt.RoomID,
	})
}
