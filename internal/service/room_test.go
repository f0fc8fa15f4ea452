package service

import (
	"context"
	"testing"
	"time"

	"chat_gateway/internal/config"
	"chat_gateway/internal/domain"
	"chat_gateway/internal/repository"
	"chat_gateway/pkg/errors"
	"chat_gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRooms map[string]*domain.Room

func (f fakeRooms) GetParticipantsByRoom(_ context.Context, roomID string) (*domain.Room, error) {
	return f[roomID], nil
}

func TestRoomService_Authorize(t *testing.T) {
	svc := NewRoomService(fakeRooms{
		"r1": {ID: "r1", Participants: []domain.Participant{{ID: "u1"}, {ID: "u2"}}},
	}, logger.NewNop())
	ctx := context.Background()

	room, err := svc.Authorize(ctx, "r1", "u2")
	require.NoError(t, err)
	require.Equal(t, "r1", room.ID)

	_, err = svc.Authorize(ctx, "r1", "u3")
	require.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = svc.Authorize(ctx, "ghost", "u1")
	require.ErrorIs(t, err, errors.ErrRoomNotFound)

	room, err = svc.GetParticipantsByRoom(ctx, "")
	require.NoError(t, err)
	require.Nil(t, room)
}

func TestRateLimitService_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc := NewRateLimitService(
		repository.NewRateLimitRepository(rdb, logger.NewNop()),
		config.RateLimitConfig{Limit: 2, Window: time.Minute},
		logger.NewNop(),
	)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := svc.Allow(ctx, "u1")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := svc.Allow(ctx, "u1")
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = svc.Allow(ctx, "u2")
	require.NoError(t, err)
	require.True(t, allowed)
}
