package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TR404/video-call-app/internal/config"
	"github.com/TR404/video-call-app/internal/domain"
	"github.com/TR404/video-call-app/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSignalServer(t *testing.T, mode relay.AddressingMode) (*httptest.Server, *relay.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := relay.NewRegistry()
	router := relay.NewRouter(registry, mode, log)
	ctl := NewSignalController(router, config.SignalingConfig{
		AddressingMode: string(mode),
		EventBuffer:    32,
		ReadLimit:      64 * 1024,
	}, log)

	srv := httptest.NewServer(SetupRouter(nil, ctl))
	t.Cleanup(srv.Close)
	return srv, registry
}

func dialSignal(t *testing.T, srv *httptest.Server, name string) (*websocket.Conn, domain.ConnID) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/signal/ws?name=" + name
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	hello := readEvent(t, conn)
	require.Equal(t, domain.EventConnected, hello.Type)
	require.NotEmpty(t, hello.Who)
	return conn, hello.Who
}

func readEvent(t *testing.T, conn *websocket.Conn) domain.Event {
	t.Helper()

	var ev domain.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func writeSignal(t *testing.T, conn *websocket.Conn, msg domain.SignalMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

// Two peers meet in a room, exchange an offer, then one hangs up.
func TestSignalingSession(t *testing.T) {
	srv, registry := startSignalServer(t, relay.ModeBroadcast)

	connA, idA := dialSignal(t, srv, "alice")
	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})

	ev := readEvent(t, connA)
	require.Equal(t, domain.EventExistingMembers, ev.Type)
	assert.Empty(t, ev.Members)

	connB, idB := dialSignal(t, srv, "bob")
	writeSignal(t, connB, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})

	ev = readEvent(t, connB)
	require.Equal(t, domain.EventExistingMembers, ev.Type)
	assert.Equal(t, []domain.ConnID{idA}, ev.Members)

	ev = readEvent(t, connA)
	require.Equal(t, domain.EventUserJoined, ev.Type)
	assert.Equal(t, idB, ev.Who)

	payload := json.RawMessage(`{"sdp":"v=0","type":"offer"}`)
	writeSignal(t, connA, domain.SignalMessage{
		Type:    domain.SignalOffer,
		Room:    "room1",
		Payload: payload,
	})

	ev = readEvent(t, connB)
	require.Equal(t, domain.SignalOffer, ev.Type)
	assert.Equal(t, idA, ev.SenderID)
	assert.JSONEq(t, string(payload), string(ev.Payload))

	require.NoError(t, connB.Close())

	ev = readEvent(t, connA)
	require.Equal(t, domain.EventUserLeft, ev.Type)
	assert.Equal(t, idB, ev.Who)

	require.Eventually(t, func() bool {
		members := registry.MembersOf("room1")
		return len(members) == 1 && members[0] == idA
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSignalingCandidateStaysInRoom(t *testing.T) {
	srv, _ := startSignalServer(t, relay.ModeBroadcast)

	connA, idA := dialSignal(t, srv, "a")
	connB, _ := dialSignal(t, srv, "b")
	connOut, _ := dialSignal(t, srv, "outsider")

	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connA)
	writeSignal(t, connB, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connB)
	readEvent(t, connA) // user-joined b
	writeSignal(t, connOut, domain.SignalMessage{Type: domain.SignalJoin, Room: "other"})
	readEvent(t, connOut)

	writeSignal(t, connA, domain.SignalMessage{
		Type:    domain.SignalCandidate,
		Room:    "room1",
		Payload: json.RawMessage(`{"candidate":"host"}`),
	})

	ev := readEvent(t, connB)
	assert.Equal(t, domain.SignalCandidate, ev.Type)
	assert.Equal(t, idA, ev.SenderID)

	// The outsider must see nothing.
	require.NoError(t, connOut.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var stray domain.Event
	err := connOut.ReadJSON(&stray)
	assert.Error(t, err, "candidate leaked outside the room: %+v", stray)
}

func TestSignalingUnicastOffer(t *testing.T) {
	srv, _ := startSignalServer(t, relay.ModeUnicast)

	connA, _ := dialSignal(t, srv, "a")
	connB, idB := dialSignal(t, srv, "b")
	connC, _ := dialSignal(t, srv, "c")

	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connA) // existing-members
	writeSignal(t, connB, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connB) // existing-members
	readEvent(t, connA) // user-joined b
	writeSignal(t, connC, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connC) // existing-members
	readEvent(t, connA) // user-joined c
	readEvent(t, connB) // user-joined c

	writeSignal(t, connA, domain.SignalMessage{
		Type:     domain.SignalOffer,
		Room:     "room1",
		TargetID: idB,
		Payload:  json.RawMessage(`{"sdp":"v=0"}`),
	})

	ev := readEvent(t, connB)
	assert.Equal(t, domain.SignalOffer, ev.Type)

	// c is a room member but not the target.
	require.NoError(t, connC.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var stray domain.Event
	assert.Error(t, connC.ReadJSON(&stray), "unicast offer reached a non-target: %+v", stray)
}

func TestSignalingMalformedMessageIsIgnored(t *testing.T) {
	srv, registry := startSignalServer(t, relay.ModeBroadcast)

	connA, idA := dialSignal(t, srv, "a")
	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalJoin, Room: "room1"})
	readEvent(t, connA)

	// Unknown type; the connection must survive and stay joined.
	writeSignal(t, connA, domain.SignalMessage{Type: "nonsense"})
	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalOffer}) // no room

	writeSignal(t, connA, domain.SignalMessage{Type: domain.SignalJoin, Room: "room2"})
	ev := readEvent(t, connA)
	assert.Equal(t, domain.EventExistingMembers, ev.Type)

	assert.ElementsMatch(t, []string{"room1", "room2"}, registry.Rooms())
	assert.Equal(t, []domain.ConnID{idA}, registry.MembersOf("room1"))
}
