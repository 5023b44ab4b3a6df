package service

import (
	"context"
	"time"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/google/uuid"
)

type RoomInteractor interface {
	CreateRoom(ctx context.Context, name string, lifetime time.Duration) (*domain.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetRoomByLink(ctx context.Context, link string) (*domain.Room, error)
	ListParticipants(room string) []domain.ConnID
}
