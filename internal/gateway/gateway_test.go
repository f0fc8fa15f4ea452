package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/internal/mocks"
	apperrors "chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeConn struct {
	id       string
	userID   string
	mu       sync.Mutex
	events   []domain.OutboundEvent
	received chan domain.OutboundEvent
}

func newFakeConn(id, userID string) *fakeConn {
	return &fakeConn{id: id, userID: userID, received: make(chan domain.OutboundEvent, 64)}
}

func (c *fakeConn) ID() string     { return c.id }
func (c *fakeConn) UserID() string { return c.userID }

func (c *fakeConn) Send(event domain.OutboundEvent) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	select {
	case c.received <- event:
	default:
	}
}

func (c *fakeConn) Events() []domain.OutboundEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.OutboundEvent(nil), c.events...)
}

func (c *fakeConn) next(t *testing.T) domain.OutboundEvent {
	t.Helper()
	select {
	case evt := <-c.received:
		return evt
	case <-time.After(time.Second):
		t.Fatalf("connection %s received nothing", c.id)
		return domain.OutboundEvent{}
	}
}

// hubBroadcaster доставляет события только локально, без бэкплейна
type hubBroadcaster struct{ hub *Hub }

func (b hubBroadcaster) Broadcast(event domain.OutboundEvent) { b.hub.Deliver(event) }

type fixture struct {
	gw    *Gateway
	hub   *Hub
	rooms *mocks.MockRoomDirectory
	store *mocks.MockMessageStore
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		hub:   NewHub(logger.NewNop()),
		rooms: mocks.NewMockRoomDirectory(ctrl),
		store: mocks.NewMockMessageStore(ctrl),
	}
	f.gw = New(f.rooms, f.store, hubBroadcaster{f.hub}, f.hub, timeout, logger.NewNop())
	t.Cleanup(f.gw.Wait)
	return f
}

func (f *fixture) connect(id, userID string) *fakeConn {
	conn := newFakeConn(id, userID)
	f.hub.Register(conn)
	return conn
}

func frame(t *testing.T, kind domain.InboundKind, data any) domain.InboundFrame {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return domain.InboundFrame{Event: kind, Data: raw}
}

var roomR1 = &domain.Room{ID: "r1", Participants: []domain.Participant{
	{ID: "u1", DisplayName: "Alice"},
	{ID: "u2", DisplayName: "Bob"},
}}

func TestGateway_SendMessageReachesEveryRoomMember(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")
	u2 := f.connect("c2", "u2")
	m1 := &domain.ChatMessage{ID: "m1", RoomID: "r1", SenderID: "u1", Type: domain.MessageTypeText, Body: "hi"}

	// Given u2 is listening on r1 and the store persists the message as m1
	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)
	f.store.EXPECT().OnMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *domain.TextRequest) (*domain.ChatMessage, error) {
			req.Equal("hi", r.Body)
			req.Equal("u1", r.UserID)
			return m1, nil
		})
	req.NoError(f.gw.Join(context.Background(), u2, "r1"))

	// When u1 sends a message
	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundSendMessage, map[string]any{
		"roomId": "r1", "userId": "u1", "body": "hi",
	}))

	// Then both connections receive the same event
	want := domain.OutboundEvent{Kind: domain.OutboundMessageSent, Data: m1, UserID: "u1", RoomID: "r1"}
	req.Equal(want, u1.next(t))
	req.Equal(want, u2.next(t))
}

func TestGateway_NonParticipantGetsErrorNoticeOnly(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := mocks.NewMockRoomDirectory(ctrl)
	out := mocks.NewMockBroadcaster(ctrl)
	hub := NewHub(logger.NewNop())
	gw := New(rooms, mocks.NewMockMessageStore(ctrl), out, hub, time.Second, logger.NewNop())
	u3 := newFakeConn("c3", "u3")

	// Given u3 is not a participant of r1
	rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)

	// When u3 starts typing
	gw.Handle(context.Background(), u3, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u3"}))

	// Then only u3 is notified and nothing is broadcast
	req.Equal([]domain.OutboundEvent{domain.NewErrorEvent("unauthorized")}, u3.Events())
	req.Empty(hub.Rooms("c3"))
}

func TestGateway_UnknownRoomIsNotFound(t *testing.T) {
	f := newFixture(t, time.Second)
	conn := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "ghost").Return(nil, nil).Times(len(f.gw.routes))

	for kind := range f.gw.routes {
		f.gw.Handle(context.Background(), conn, frame(t, kind, map[string]any{
			"roomId": "ghost", "userId": "u1", "body": "hi", "messageId": "m1",
			"file":   map[string]any{"name": "a.txt", "content": []byte("abc")},
			"action": map[string]any{"type": "Reaction"},
		}))
		require.Equal(t, domain.NewErrorEvent("room was not found"), conn.next(t), kind)
	}
}

func TestGateway_EveryKindMapsToItsOutboundKind(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := mocks.NewMockRoomDirectory(ctrl)
	store := mocks.NewMockMessageStore(ctrl)
	out := mocks.NewMockBroadcaster(ctrl)
	hub := NewHub(logger.NewNop())
	gw := New(rooms, store, out, hub, time.Second, logger.NewNop())
	conn := newFakeConn("c1", "u1")
	hub.Register(conn)

	rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).AnyTimes()
	store.EXPECT().OnMessage(gomock.Any(), gomock.Any()).Return(&domain.ChatMessage{ID: "m1"}, nil)
	store.EXPECT().OnRemoveMessage(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().OnReadLastMessage(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().OnUploadFile(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().OnMakeAction(gomock.Any(), gomock.Any()).Return(nil)

	mapping := map[domain.InboundKind]domain.OutboundKind{
		domain.InboundSendMessage:     domain.OutboundMessageSent,
		domain.InboundStartTyping:     domain.OutboundTypingStarted,
		domain.InboundStopTyping:      domain.OutboundTypingStopped,
		domain.InboundRemoveMessage:   domain.OutboundMessageRemoved,
		domain.InboundReadLastMessage: domain.OutboundLastMessageRead,
		domain.InboundUploadFile:      domain.OutboundFileUploaded,
		domain.InboundMakeAction:      domain.OutboundActionMade,
	}
	req.Len(gw.routes, len(mapping))

	payload := map[string]any{
		"roomId": "r1", "userId": "u1", "body": "hi", "messageId": "m1",
		"file":   map[string]any{"name": "a.txt", "content": []byte("abc")},
		"action": map[string]any{"type": "Reaction"},
	}
	for in, want := range mapping {
		var got []domain.OutboundKind
		out.EXPECT().Broadcast(gomock.Any()).Do(func(evt domain.OutboundEvent) {
			got = append(got, evt.Kind)
		}).Times(1)

		gw.Handle(context.Background(), conn, frame(t, in, payload))
		gw.Wait()

		req.Equal([]domain.OutboundKind{want}, got, in)
	}
	req.Empty(conn.Events())
}

func TestGateway_TypingStartAndStopAreDistinct(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)

	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u1"}))
	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundStopTyping, map[string]any{"roomId": "r1", "userId": "u1"}))

	started, stopped := u1.next(t), u1.next(t)
	req.Equal(domain.OutboundTypingStarted, started.Kind)
	req.Equal(domain.TypingEvent{Participant: roomR1.Participants[0], UserID: "u1", RoomID: "r1", IsTyping: true}, started.Data)
	req.Equal(domain.OutboundTypingStopped, stopped.Kind)
	req.Equal(domain.TypingEvent{Participant: roomR1.Participants[0], UserID: "u1", RoomID: "r1", IsTyping: false}, stopped.Data)
}

func TestGateway_ReadLastMessageEchoesIdenticalData(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)
	f.store.EXPECT().OnReadLastMessage(gomock.Any(), &domain.BaseRequest{UserID: "u1", RoomID: "r1"}).Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		f.gw.Handle(context.Background(), u1, frame(t, domain.InboundReadLastMessage, map[string]any{"roomId": "r1", "userId": "u1"}))
	}
	f.gw.Wait()

	first, second := u1.next(t), u1.next(t)
	req.Equal(domain.OutboundLastMessageRead, first.Kind)
	req.Equal(domain.BaseRequest{UserID: "u1", RoomID: "r1"}, first.Data)
	req.Equal(first, second)
}

func TestGateway_FailingRemoveDoesNotAffectConcurrentSend(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)
	f.store.EXPECT().OnRemoveMessage(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	f.store.EXPECT().OnMessage(gomock.Any(), gomock.Any()).Return(&domain.ChatMessage{ID: "m2", Body: "still here"}, nil)

	// When both events are in flight on the same connection
	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundRemoveMessage, map[string]any{"roomId": "r1", "userId": "u1", "messageId": "m1"}))
	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundSendMessage, map[string]any{"roomId": "r1", "userId": "u1", "body": "still here"}))
	f.gw.Wait()

	// Then send-message completes and only the remove failure is reported
	byKind := map[domain.OutboundKind][]domain.OutboundEvent{}
	for _, evt := range u1.Events() {
		byKind[evt.Kind] = append(byKind[evt.Kind], evt)
	}
	req.Len(byKind[domain.OutboundMessageSent], 1)
	req.Equal(&domain.ChatMessage{ID: "m2", Body: "still here"}, byKind[domain.OutboundMessageSent][0].Data)
	req.Len(byKind[domain.OutboundMessageRemoved], 1)
	req.Equal([]domain.OutboundEvent{domain.NewErrorEvent("collaborator error")}, byKind[domain.OutboundError])
}

func TestGateway_CollaboratorTimeout(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)
	f.store.EXPECT().OnUploadFile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.UploadFileRequest) error {
			<-ctx.Done()
			return ctx.Err()
		})

	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundUploadFile, map[string]any{
		"roomId": "r1", "userId": "u1", "file": map[string]any{"name": "a.txt", "content": []byte("abc")},
	}))

	require.Equal(t, []domain.OutboundEvent{domain.NewErrorEvent("operation timed out")}, u1.Events())
}

func TestGateway_UploadEchoStripsContent(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)
	f.store.EXPECT().OnUploadFile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *domain.UploadFileRequest) error {
			req.Equal([]byte("abc"), r.File.Content)
			r.File.URL = "/files/r1/f1.txt"
			return nil
		})

	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundUploadFile, map[string]any{
		"roomId": "r1", "userId": "u1", "file": map[string]any{"name": "a.txt", "content": []byte("abc")},
	}))

	evt := u1.next(t)
	req.Equal(domain.OutboundFileUploaded, evt.Kind)
	data := evt.Data.(domain.UploadFileRequest)
	req.Nil(data.File.Content)
	req.Equal("/files/r1/f1.txt", data.File.URL)
}

func TestGateway_RejectsBeforeRoomLookup(t *testing.T) {
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	cases := []struct {
		name  string
		frame domain.InboundFrame
		want  string
	}{
		{"unknown kind", frame(t, "join-room", map[string]any{"roomId": "r1"}), `unknown event "join-room"`},
		{"empty body", frame(t, domain.InboundSendMessage, map[string]any{"roomId": "r1"}), "validation error: TextRequest.Body failed on 'required_without'"},
		{"missing message id", frame(t, domain.InboundRemoveMessage, map[string]any{"roomId": "r1"}), "validation error: RemoveMessageRequest.MessageID failed on 'required'"},
		{"malformed json", domain.InboundFrame{Event: domain.InboundStartTyping, Data: json.RawMessage(`{"roomId":`)}, ""},
		{"impersonation", frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u2"}), "unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.gw.Handle(context.Background(), u1, tc.frame)

			evt := u1.next(t)
			require.Equal(t, domain.OutboundError, evt.Kind)
			if tc.want != "" {
				require.Equal(t, domain.ErrorNotice{Message: tc.want}, evt.Data)
			}
		})
	}
}

func TestGateway_UserIDDefaultsToConnection(t *testing.T) {
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)

	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1"}))

	evt := u1.next(t)
	require.Equal(t, domain.OutboundTypingStarted, evt.Kind)
	require.Equal(t, "u1", evt.UserID)
}

// Конвейеры одного подключения независимы: событие, отправленное вторым,
// может быть разослано раньше первого.
func TestGateway_EventsFromOneConnectionMayCompleteOutOfOrder(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")
	release := make(chan struct{})

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)
	f.store.EXPECT().OnMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.TextRequest) (*domain.ChatMessage, error) {
			<-release
			return &domain.ChatMessage{ID: "m1"}, nil
		})

	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundSendMessage, map[string]any{"roomId": "r1", "userId": "u1", "body": "first"}))
	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u1"}))

	req.Equal(domain.OutboundTypingStarted, u1.next(t).Kind)
	close(release)
	req.Equal(domain.OutboundMessageSent, u1.next(t).Kind)
}

func TestGateway_Join(t *testing.T) {
	f := newFixture(t, time.Second)
	u3 := f.connect("c3", "u3")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)
	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "down").Return(nil, errors.New("connection refused"))

	require.ErrorIs(t, f.gw.Join(context.Background(), u3, "r1"), apperrors.ErrUnauthorized)
	require.ErrorIs(t, f.gw.Join(context.Background(), u3, "down"), apperrors.ErrCollaborator)
	require.Empty(t, f.hub.Rooms("c3"))
}

func TestGateway_DrainHonoursContext(t *testing.T) {
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")
	release := make(chan struct{})

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil)
	f.store.EXPECT().OnMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.TextRequest) (*domain.ChatMessage, error) {
			<-release
			return &domain.ChatMessage{ID: "m1"}, nil
		})

	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundSendMessage, map[string]any{"roomId": "r1", "userId": "u1", "body": "hi"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.gw.Drain(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, f.gw.Drain(context.Background()))
}

func TestGateway_DispatchAfterDrainIsRejected(t *testing.T) {
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	require.NoError(t, f.gw.Drain(context.Background()))

	// The read loop of a still open connection keeps dispatching
	f.gw.Dispatch(context.Background(), u1, frame(t, domain.InboundSendMessage, map[string]any{"roomId": "r1", "userId": "u1", "body": "hi"}))

	require.Equal(t, domain.NewErrorEvent("server is shutting down"), u1.next(t))
	require.NoError(t, f.gw.Drain(context.Background()))
}

func TestGateway_RemovedParticipantStopsReceiving(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")
	u2 := f.connect("c2", "u2")
	withoutBob := &domain.Room{ID: "r1", Participants: []domain.Participant{{ID: "u1", DisplayName: "Alice"}}}

	// Given both users joined r1, and u2 was then removed from the room
	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(roomR1, nil).Times(2)
	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").Return(withoutBob, nil).Times(2)
	req.NoError(f.gw.Join(context.Background(), u1, "r1"))
	req.NoError(f.gw.Join(context.Background(), u2, "r1"))

	// When u2 sends into r1 it is rejected and loses the room scope
	f.gw.Handle(context.Background(), u2, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u2"}))
	req.Empty(f.hub.Rooms("c2"))

	// Then later events of r1 no longer reach u2
	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u1"}))
	req.Equal(domain.OutboundTypingStarted, u1.next(t).Kind)
	req.Equal([]domain.OutboundEvent{domain.NewErrorEvent("unauthorized")}, u2.Events())
}

func TestGateway_CollaboratorDetailsStayInLogs(t *testing.T) {
	f := newFixture(t, time.Second)
	u1 := f.connect("c1", "u1")

	f.rooms.EXPECT().GetParticipantsByRoom(gomock.Any(), "r1").
		Return(nil, errors.New(`failed to get room: ERROR: relation "rooms" does not exist (SQLSTATE 42P01)`))

	f.gw.Handle(context.Background(), u1, frame(t, domain.InboundStartTyping, map[string]any{"roomId": "r1", "userId": "u1"}))

	require.Equal(t, []domain.OutboundEvent{domain.NewErrorEvent("collaborator error")}, u1.Events())
}
