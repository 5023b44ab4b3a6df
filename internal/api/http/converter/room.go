package converter

import (
	"time"

	"github.com/TR404/video-call-app/internal/domain"
	"github.com/google/uuid"
)

type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsExpired bool      `json:"is_expired"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Link:      r.Link,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
		IsExpired: r.IsExpired(),
	}
}
