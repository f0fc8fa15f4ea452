package gateway

import (
	"context"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/errors"
)

// pipeline - состояние одного события после авторизации
type pipeline struct {
	conn Conn
	kind domain.InboundKind
	room *domain.Room
	req  domain.Request
}

type action func(ctx context.Context, p *pipeline) (any, error)

type route struct {
	kind       domain.OutboundKind
	newRequest func() domain.Request
	act        action
}

// buildRoutes - таблица диспетчеризации, строится один раз при создании шлюза.
// Каждому входящему типу соответствует ровно один исходящий.
func (g *Gateway) buildRoutes() map[domain.InboundKind]route {
	base := func() domain.Request { return &domain.BaseRequest{} }

	return map[domain.InboundKind]route{
		domain.InboundSendMessage: {
			kind:       domain.OutboundMessageSent,
			newRequest: func() domain.Request { return &domain.TextRequest{} },
			act:        g.sendMessage,
		},
		domain.InboundStartTyping: {
			kind:       domain.OutboundTypingStarted,
			newRequest: base,
			act:        typing(true),
		},
		domain.InboundStopTyping: {
			kind:       domain.OutboundTypingStopped,
			newRequest: base,
			act:        typing(false),
		},
		domain.InboundRemoveMessage: {
			kind:       domain.OutboundMessageRemoved,
			newRequest: func() domain.Request { return &domain.RemoveMessageRequest{} },
			act:        g.removeMessage,
		},
		domain.InboundReadLastMessage: {
			kind:       domain.OutboundLastMessageRead,
			newRequest: base,
			act:        g.readLastMessage,
		},
		domain.InboundUploadFile: {
			kind:       domain.OutboundFileUploaded,
			newRequest: func() domain.Request { return &domain.UploadFileRequest{} },
			act:        g.uploadFile,
		},
		domain.InboundMakeAction: {
			kind:       domain.OutboundActionMade,
			newRequest: func() domain.Request { return &domain.MakeActionRequest{} },
			act:        g.makeAction,
		},
	}
}

func (g *Gateway) sendMessage(ctx context.Context, p *pipeline) (any, error) {
	req := p.req.(*domain.TextRequest)

	message, err := withTimeout(ctx, g.timeout, func(ctx context.Context) (*domain.ChatMessage, error) {
		return g.store.OnMessage(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func typing(isTyping bool) action {
	return func(_ context.Context, p *pipeline) (any, error) {
		base := p.req.Base()

		participant, ok := p.room.Participant(base.UserID)
		if !ok {
			return nil, errors.ErrParticipantNotFound
		}
		return domain.TypingEvent{
			Participant: participant,
			UserID:      base.UserID,
			RoomID:      base.RoomID,
			IsTyping:    isTyping,
		}, nil
	}
}

func (g *Gateway) removeMessage(ctx context.Context, p *pipeline) (any, error) {
	req := p.req.(*domain.RemoveMessageRequest)
	echo := *req

	g.detach(ctx, p, func(ctx context.Context) error {
		return g.store.OnRemoveMessage(ctx, req)
	})
	return echo, nil
}

func (g *Gateway) readLastMessage(ctx context.Context, p *pipeline) (any, error) {
	req := p.req.(*domain.BaseRequest)
	echo := *req

	g.detach(ctx, p, func(ctx context.Context) error {
		return g.store.OnReadLastMessage(ctx, req)
	})
	return echo, nil
}

// uploadFile ждет сохранения файла: рассылка идет только после него
func (g *Gateway) uploadFile(ctx context.Context, p *pipeline) (any, error) {
	req := p.req.(*domain.UploadFileRequest)

	_, err := withTimeout(ctx, g.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.store.OnUploadFile(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	echo := *req
	echo.File.Content = nil
	return echo, nil
}

func (g *Gateway) makeAction(ctx context.Context, p *pipeline) (any, error) {
	req := p.req.(*domain.MakeActionRequest)
	echo := *req

	g.detach(ctx, p, func(ctx context.Context) error {
		return g.store.OnMakeAction(ctx, req)
	})
	return echo, nil
}
