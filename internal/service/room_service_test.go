package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/TR404/video-call-app/internal/relay"
	"github.com/TR404/video-call-app/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*RoomService, *relay.Registry, *repository.InMemoryRoomRepository) {
	repo := repository.NewInMemoryRoomRepository()
	registry := relay.NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRoomService(repo, registry, log), registry, repo
}

func TestCreateRoomMintsIdentifierAndLink(t *testing.T) {
	svc, _, _ := newTestService()

	room, err := svc.CreateRoom(context.Background(), "daily", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Len(t, room.Link, 12)
	assert.True(t, room.ExpiresAt.IsZero())

	got, err := svc.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)

	got, err = svc.GetRoomByLink(context.Background(), room.Link)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
}

func TestCreateRoomRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRoom(context.Background(), "", 0)
	assert.Error(t, err)
}

// Creating a room must not register any membership: the registry only learns
// about a room on the first websocket join.
func TestCreateRoomDoesNotTouchRegistry(t *testing.T) {
	svc, registry, _ := newTestService()

	room, err := svc.CreateRoom(context.Background(), "daily", time.Hour)
	require.NoError(t, err)

	assert.Empty(t, registry.Rooms())
	assert.Empty(t, svc.ListParticipants(room.ID.String()))
}

func TestGetRoomExpired(t *testing.T) {
	svc, _, repo := newTestService()

	room, err := svc.CreateRoom(context.Background(), "old", time.Minute)
	require.NoError(t, err)
	room.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	_, err = svc.GetRoom(context.Background(), room.ID)
	assert.ErrorIs(t, err, ErrRoomExpired)

	// Expired rooms are dropped on lookup.
	_, err = repo.GetByID(context.Background(), room.ID)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestListParticipantsReflectsRegistry(t *testing.T) {
	svc, registry, _ := newTestService()

	registry.Join("standup", "a")
	registry.Join("standup", "b")

	assert.Equal(t, []domain.ConnID{"a", "b"}, svc.ListParticipants("standup"))
	assert.Empty(t, svc.ListParticipants("unknown"))
}
