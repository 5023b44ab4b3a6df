package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/TR404/video-call-app/internal/relay"
	"github.com/TR404/video-call-app/internal/repository"
	"github.com/TR404/video-call-app/lib/logger/sl"
	"github.com/google/uuid"
)

var ErrRoomExpired = errors.New("room expired")

// RoomService mints room identifiers and answers metadata lookups. It is only
// a name generator plus an address book: membership is owned by the relay
// registry and created lazily on first join, so a room created here is not
// "open" in any enforced sense.
type RoomService struct {
	rooms    repository.RoomRepository
	registry *relay.Registry
	log      *slog.Logger
}

func NewRoomService(rooms repository.RoomRepository, registry *relay.Registry, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{rooms: rooms, registry: registry, log: log}
}

func (s *RoomService) CreateRoom(ctx context.Context, name string, lifetime time.Duration) (*domain.Room, error) {
	const op = "service.room.create"
	if name == "" {
		return nil, errors.New("room name is required")
	}

	// Retry on the astronomically unlikely link collision.
	for {
		room := domain.NewRoom(name, lifetime)
		if err := s.rooms.Create(ctx, room); err != nil {
			if errors.Is(err, repository.ErrRoomLinkExists) {
				continue
			}
			s.log.Error("failed to store room", slog.String("op", op), sl.Err(err))
			return nil, err
		}
		s.log.Info("room created",
			slog.String("op", op),
			slog.String("room_id", room.ID.String()),
			slog.String("link", room.Link),
		)
		return room, nil
	}
}

func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checkExpiry(ctx, room)
}

func (s *RoomService) GetRoomByLink(ctx context.Context, link string) (*domain.Room, error) {
	room, err := s.rooms.GetByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return s.checkExpiry(ctx, room)
}

// ListParticipants reports the live signaling membership of a room, in join
// order. Rooms unknown to the registry simply have no participants.
func (s *RoomService) ListParticipants(room string) []domain.ConnID {
	return s.registry.MembersOf(room)
}

func (s *RoomService) checkExpiry(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if room.IsExpired() {
		if err := s.rooms.Delete(ctx, room.ID); err != nil && !errors.Is(err, repository.ErrRoomNotFound) {
			s.log.Warn("failed to drop expired room", slog.String("room_id", room.ID.String()), sl.Err(err))
		}
		return nil, ErrRoomExpired
	}
	return room, nil
}
