package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomLinkExists = errors.New("room link already exists")
)

// InMemoryRoomRepository keeps room metadata for the process lifetime only.
type InMemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*domain.Room
	links map[string]uuid.UUID
}

func NewInMemoryRoomRepository() *InMemoryRoomRepository {
	return &InMemoryRoomRepository{
		rooms: make(map[uuid.UUID]*domain.Room),
		links: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[room.Link]; ok {
		return ErrRoomLinkExists
	}

	r.rooms[room.ID] = room
	r.links[room.Link] = room.ID
	return nil
}

func (r *InMemoryRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

func (r *InMemoryRoomRepository) GetByLink(ctx context.Context, link string) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.links[link]
	if !ok {
		return nil, ErrRoomNotFound
	}

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

func (r *InMemoryRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}

	delete(r.links, room.Link)
	delete(r.rooms, id)
	return nil
}

func (r *InMemoryRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}
