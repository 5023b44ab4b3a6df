package domain

import "encoding/json"

// Inbound signal types accepted over the websocket.
const (
	SignalJoin          = "join"
	SignalLeave         = "leave"
	SignalOffer         = "offer"
	SignalAnswer        = "answer"
	SignalCandidate     = "ice-candidate"
	SignalStreamStarted = "stream-started"
	SignalStreamStopped = "stream-stopped"
)

// Event types emitted by the relay itself.
const (
	EventConnected       = "connected"
	EventExistingMembers = "existing-members"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
)

// ConnID identifies one live websocket connection. It is minted by the
// transport on upgrade and never reused.
type ConnID string

// SignalMessage is the envelope for everything a client sends. Payload is an
// opaque blob (SDP, candidate, whatever the peers agreed on); the relay
// forwards it verbatim and never looks inside.
type SignalMessage struct {
	Type     string          `json:"type"`
	Room     string          `json:"room,omitempty"`
	SenderID ConnID          `json:"sender_id,omitempty"`
	TargetID ConnID          `json:"target_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Event is what the relay pushes back to clients: a forwarded signal or a
// membership notification.
type Event struct {
	Type     string          `json:"type"`
	Room     string          `json:"room,omitempty"`
	SenderID ConnID          `json:"sender_id,omitempty"`
	Who      ConnID          `json:"who,omitempty"`
	Members  []ConnID        `json:"members,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
