package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const linkLength = 12

// Room holds the metadata minted by the create endpoint. It is advisory:
// signaling membership is created lazily on the first join, so a Room may
// exist here with no members, and a room name that was never created here is
// still legal to join.
type Room struct {
	ID        uuid.UUID
	Name      string
	Link      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewRoom constructs a room with generated identifiers and lifetime options.
func NewRoom(name string, lifetime time.Duration) *Room {
	now := time.Now().UTC()
	room := &Room{
		ID:        uuid.New(),
		Name:      name,
		Link:      generateLink(),
		CreatedAt: now,
	}

	if lifetime > 0 {
		room.ExpiresAt = now.Add(lifetime)
	}

	return room
}

// IsExpired reports whether the room is no longer valid.
func (r *Room) IsExpired() bool {
	if r == nil {
		return true
	}
	if r.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().UTC().After(r.ExpiresAt)
}

func generateLink() string {
	link := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(link) <= linkLength {
		return link
	}
	return link[:linkLength]
}
