package relay

import (
	"sync"

	"github.com/TR404/video-call-app/internal/domain"
)

// Registry maps room names to their current members. Members are kept in join
// order so fan-out and snapshots are deterministic. A room exists exactly as
// long as it has members: the first join creates it, removing the last member
// deletes it.
//
// All methods are safe for concurrent use and never fail; unknown rooms and
// absent members are normal transient states, not errors.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string][]domain.ConnID
	// joined is the reverse index: which rooms a connection is in.
	joined map[domain.ConnID]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string][]domain.ConnID),
		joined: make(map[domain.ConnID]map[string]struct{}),
	}
}

// Join inserts conn into room, creating the room if needed, and returns the
// members that were already present. Re-joining is a no-op beyond returning
// the current membership.
func (r *Registry) Join(room string, conn domain.ConnID) []domain.ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	existing := make([]domain.ConnID, 0, len(members))
	for _, m := range members {
		if m != conn {
			existing = append(existing, m)
		}
	}

	if rooms, ok := r.joined[conn]; ok {
		if _, already := rooms[room]; already {
			return existing
		}
	} else {
		r.joined[conn] = make(map[string]struct{})
	}

	r.rooms[room] = append(members, conn)
	r.joined[conn][room] = struct{}{}
	return existing
}

// Leave removes conn from room and returns the members left behind. The room
// entry is deleted once it is empty. Leaving a room the connection never
// joined is a no-op.
func (r *Registry) Leave(room string, conn domain.ConnID) []domain.ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(room, conn)
}

// LeaveAll removes conn from every room it belongs to in one atomic step and
// returns the remaining members per affected room. Calling it again for the
// same connection returns an empty map.
func (r *Registry) LeaveAll(conn domain.ConnID) map[string][]domain.ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := make(map[string][]domain.ConnID, len(r.joined[conn]))
	for room := range r.joined[conn] {
		affected[room] = r.removeLocked(room, conn)
	}
	return affected
}

// MembersOf returns an ordered snapshot of the room's membership. The result
// is a copy; mutating it does not touch the registry.
func (r *Registry) MembersOf(room string) []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	out := make([]domain.ConnID, len(members))
	copy(out, members)
	return out
}

// Rooms returns the names of all rooms that currently have members.
func (r *Registry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.rooms))
	for room := range r.rooms {
		out = append(out, room)
	}
	return out
}

func (r *Registry) removeLocked(room string, conn domain.ConnID) []domain.ConnID {
	members, ok := r.rooms[room]
	if !ok {
		return nil
	}

	remaining := members[:0]
	for _, m := range members {
		if m != conn {
			remaining = append(remaining, m)
		}
	}

	if len(remaining) == 0 {
		delete(r.rooms, room)
	} else {
		r.rooms[room] = remaining
	}

	if rooms, ok := r.joined[conn]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.joined, conn)
		}
	}

	out := make([]domain.ConnID, len(remaining))
	copy(out, remaining)
	return out
}
