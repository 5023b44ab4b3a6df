package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/TR404/video-call-app/internal/config"
	"github.com/TR404/video-call-app/internal/domain"
	"github.com/TR404/video-call-app/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// peer wraps one websocket connection. The read pump is the only reader and
// the write pump the only writer; everybody else talks to the peer through
// its buffered events channel.
type peer struct {
	id          domain.ConnID
	displayName string
	conn        *websocket.Conn
	events      chan domain.Event
	done        chan struct{}
	once        sync.Once
}

// enqueue queues an event without ever blocking. It reports false once the
// peer is gone or its queue is full.
func (p *peer) enqueue(ev domain.Event) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.events <- ev:
		return true
	default:
		return false
	}
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.done)
		_ = p.conn.Close()
	})
}

// SignalController owns the websocket transport: it upgrades connections,
// assigns connection identities, and shuttles messages between the relay
// router and the live peers.
type SignalController struct {
	router   *relay.Router
	cfg      config.SignalingConfig
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	peers map[domain.ConnID]*peer
}

func NewSignalController(router *relay.Router, cfg config.SignalingConfig, log *slog.Logger) *SignalController {
	if log == nil {
		log = slog.Default()
	}
	return &SignalController{
		router: router,
		cfg:    cfg,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		peers: make(map[domain.ConnID]*peer),
	}
}

// Serve upgrades the request and runs the connection until it closes.
func (c *SignalController) Serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	p := &peer{
		id:          domain.ConnID(uuid.NewString()),
		displayName: ctx.Query("name"),
		conn:        conn,
		events:      make(chan domain.Event, c.cfg.EventBuffer),
		done:        make(chan struct{}),
	}

	c.mu.Lock()
	c.peers[p.id] = p
	c.mu.Unlock()

	c.log.Info("peer connected",
		slog.String("conn", string(p.id)),
		slog.String("name", p.displayName),
	)

	// Tell the client its connection identity before anything else.
	p.enqueue(domain.Event{Type: domain.EventConnected, Who: p.id})

	go c.writePump(p)
	c.readPump(p)
}

// readPump processes inbound messages one at a time, preserving per-
// connection order end to end. It owns disconnect handling: whatever way the
// connection dies, the peer is purged exactly once.
func (c *SignalController) readPump(p *peer) {
	defer c.disconnect(p)

	p.conn.SetReadLimit(c.cfg.ReadLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg domain.SignalMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read error", slog.String("conn", string(p.id)), slog.String("error", err.Error()))
			}
			return
		}
		c.deliver(c.router.Handle(p.id, msg))
	}
}

func (c *SignalController) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.close()
	}()

	for {
		select {
		case <-p.done:
			return
		case ev := <-p.events:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(ev); err != nil {
				c.log.Debug("write error", slog.String("conn", string(p.id)), slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver pushes router output to the addressed peers. A recipient that is
// gone or saturated loses the event; senders are never stalled by it.
func (c *SignalController) deliver(sends []relay.Send) {
	for _, s := range sends {
		c.mu.RLock()
		target, ok := c.peers[s.To]
		c.mu.RUnlock()
		if !ok {
			c.log.Debug("dropping event for closed connection",
				slog.String("to", string(s.To)), slog.String("type", s.Event.Type))
			continue
		}
		if !target.enqueue(s.Event) {
			c.log.Debug("dropping event for saturated connection",
				slog.String("to", string(s.To)), slog.String("type", s.Event.Type))
		}
	}
}

func (c *SignalController) disconnect(p *peer) {
	c.mu.Lock()
	_, present := c.peers[p.id]
	delete(c.peers, p.id)
	c.mu.Unlock()

	p.close()
	if !present {
		return
	}

	c.deliver(c.router.Disconnect(p.id))
	c.log.Info("peer disconnected", slog.String("conn", string(p.id)))
}
