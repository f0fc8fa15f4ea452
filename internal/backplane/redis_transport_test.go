package backplane

import (
	"context"
	"testing"
	"time"

	"chat_gateway/internal/domain"
	"chat_gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisTransport_PublishSubscribe(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	transport := NewRedisTransport(newRedis(t))

	msgs, closeSub, err := transport.Subscribe(ctx, "chat:events")
	req.NoError(err)

	req.NoError(transport.Publish(ctx, "chat:events", []byte(`{"origin":"n1"}`)))

	select {
	case payload := <-msgs:
		req.JSONEq(`{"origin":"n1"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	req.NoError(closeSub())
}

func TestRedisTransport_TwoNodes(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	rdb := newRedis(t)

	a, localA := startNode(t, ctx, "node-a", NewRedisTransport(rdb))
	b, localB := startNode(t, ctx, "node-b", NewRedisTransport(rdb))
	defer func() {
		cancel()
		a.Wait()
		b.Wait()
	}()

	b.Broadcast(domain.OutboundEvent{Kind: domain.OutboundLastMessageRead, Data: domain.BaseRequest{UserID: "u2", RoomID: "r1"}, UserID: "u2", RoomID: "r1"})

	req.Eventually(func() bool { return len(localA.Events()) == 1 }, 2*time.Second, 10*time.Millisecond)
	req.Len(localB.Events(), 1)
	req.Equal("r1", localA.Events()[0].RoomID)
}

func TestPropagator_StartFailsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	p := NewPropagator(Config{NodeID: "n1", Channel: "chat:events", QueueSize: 1, PublishTimeout: time.Second},
		&recorder{}, NewRedisTransport(rdb), logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.Error(t, p.Start(ctx))
}
