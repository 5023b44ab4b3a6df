package relay

import (
	"log/slog"

	"github.com/TR404/video-call-app/internal/domain"
)

// AddressingMode decides where forwarded signals go.
type AddressingMode string

const (
	// ModeBroadcast delivers a signal to every room member except the sender.
	ModeBroadcast AddressingMode = "broadcast"
	// ModeUnicast delivers a signal to the message's target connection only.
	ModeUnicast AddressingMode = "unicast"
)

// Valid reports whether m is a known addressing mode.
func (m AddressingMode) Valid() bool {
	return m == ModeBroadcast || m == ModeUnicast
}

// Send is one outbound delivery the transport should perform.
type Send struct {
	To    domain.ConnID
	Event domain.Event
}

// Router turns one inbound signal into zero or more outbound sends. It holds
// no per-message state of its own; everything lives in the registry, so the
// same router serves every connection concurrently.
type Router struct {
	registry *Registry
	mode     AddressingMode
	log      *slog.Logger
}

func NewRouter(registry *Registry, mode AddressingMode, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	if !mode.Valid() {
		mode = ModeBroadcast
	}
	return &Router{registry: registry, mode: mode, log: log}
}

// Mode returns the configured addressing mode.
func (r *Router) Mode() AddressingMode { return r.mode }

// Handle processes one message from conn and returns the sends it produced.
// It never returns an error: malformed or unroutable messages are dropped
// with a diagnostic log so one misbehaving client cannot disturb the rest.
func (r *Router) Handle(conn domain.ConnID, msg domain.SignalMessage) []Send {
	switch msg.Type {
	case domain.SignalJoin:
		return r.handleJoin(conn, msg)
	case domain.SignalLeave:
		return r.handleLeave(conn, msg)
	case domain.SignalOffer, domain.SignalAnswer, domain.SignalCandidate,
		domain.SignalStreamStarted, domain.SignalStreamStopped:
		return r.forward(conn, msg)
	default:
		r.log.Warn("dropping unknown signal", slog.String("type", msg.Type), slog.String("conn", string(conn)))
		return nil
	}
}

// Disconnect purges conn from every room and produces the user-left fan-out.
// Safe to call more than once; later calls find nothing to purge.
func (r *Router) Disconnect(conn domain.ConnID) []Send {
	var sends []Send
	for room, remaining := range r.registry.LeaveAll(conn) {
		for _, member := range remaining {
			sends = append(sends, Send{To: member, Event: domain.Event{
				Type: domain.EventUserLeft,
				Room: room,
				Who:  conn,
			}})
		}
	}
	if len(sends) > 0 {
		r.log.Info("connection left all rooms", slog.String("conn", string(conn)))
	}
	return sends
}

func (r *Router) handleJoin(conn domain.ConnID, msg domain.SignalMessage) []Send {
	if msg.Room == "" {
		r.log.Warn("dropping join without room", slog.String("conn", string(conn)))
		return nil
	}

	existing := r.registry.Join(msg.Room, conn)

	sends := make([]Send, 0, len(existing)+1)
	sends = append(sends, Send{To: conn, Event: domain.Event{
		Type:    domain.EventExistingMembers,
		Room:    msg.Room,
		Members: existing,
	}})
	for _, member := range existing {
		sends = append(sends, Send{To: member, Event: domain.Event{
			Type: domain.EventUserJoined,
			Room: msg.Room,
			Who:  conn,
		}})
	}

	r.log.Info("joined room",
		slog.String("conn", string(conn)),
		slog.String("room", msg.Room),
		slog.Int("existing", len(existing)),
	)
	return sends
}

func (r *Router) handleLeave(conn domain.ConnID, msg domain.SignalMessage) []Send {
	if msg.Room == "" {
		r.log.Warn("dropping leave without room", slog.String("conn", string(conn)))
		return nil
	}

	remaining := r.registry.Leave(msg.Room, conn)

	sends := make([]Send, 0, len(remaining))
	for _, member := range remaining {
		sends = append(sends, Send{To: member, Event: domain.Event{
			Type: domain.EventUserLeft,
			Room: msg.Room,
			Who:  conn,
		}})
	}
	return sends
}

// forward relays offer/answer/candidate (and stream notices) without touching
// the payload. Routing is decided by the configured mode alone, never by
// anything inside the payload.
func (r *Router) forward(conn domain.ConnID, msg domain.SignalMessage) []Send {
	event := domain.Event{
		Type:     msg.Type,
		Room:     msg.Room,
		SenderID: conn,
		Payload:  msg.Payload,
	}

	switch r.mode {
	case ModeUnicast:
		if msg.TargetID == "" {
			r.log.Warn("dropping signal without target in unicast mode",
				slog.String("type", msg.Type), slog.String("conn", string(conn)))
			return nil
		}
		return []Send{{To: msg.TargetID, Event: event}}

	default: // ModeBroadcast
		if msg.Room == "" {
			r.log.Warn("dropping signal without room in broadcast mode",
				slog.String("type", msg.Type), slog.String("conn", string(conn)))
			return nil
		}
		members := r.registry.MembersOf(msg.Room)
		sends := make([]Send, 0, len(members))
		for _, member := range members {
			if member == conn {
				continue
			}
			sends = append(sends, Send{To: member, Event: event})
		}
		return sends
	}
}
