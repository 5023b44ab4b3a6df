package repository

import (
	"context"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByLink(ctx context.Context, link string) (*domain.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Room, error)
}
