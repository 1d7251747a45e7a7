// Package ws is the websocket adapter: it owns connection upgrade, the
// per-connection read/write pumps, and command dispatch against the lobby
// core. The transport answers keepalive pings itself (gorilla's default
// ping handler) and echoes binary frames back unmodified.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mmm1245/SecretHitler/internal/config"
	"github.com/mmm1245/SecretHitler/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Controller struct {
	Registry *core.Registry
	Limiter  *CommandRateLimiter
	cfg      *config.Config
}

func NewController(cfg *config.Config, reg *core.Registry) *Controller {
	return &Controller{
		Registry: reg,
		Limiter:  NewCommandRateLimiter(cfg.CommandLimit, cfg.CommandWindow),
		cfg:      cfg,
	}
}

type outFrame struct {
	messageType int
	data        []byte
}

// LobbyConn is a connection's outbound endpoint; it implements core.Sink.
type LobbyConn struct {
	conn *websocket.Conn
	send chan outFrame

	mu     sync.RWMutex
	closed bool
}

func (c *LobbyConn) TrySend(f core.Frame) error {
	return c.enqueue(websocket.TextMessage, f)
}

// echoBinary queues a binary frame for echo; such frames carry no lobby
// semantics.
func (c *LobbyConn) echoBinary(data []byte) error {
	return c.enqueue(websocket.BinaryMessage, data)
}

func (c *LobbyConn) enqueue(mt int, data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- outFrame{messageType: mt, data: data}:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *LobbyConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleLobby upgrades the request and starts the connection's pumps. The
// session lives exactly as long as the connection.
func (ctl *Controller) HandleLobby(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("new WS connection")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}
	conn.SetReadLimit(ctl.cfg.ReadLimit)

	lc := &LobbyConn{
		conn: conn,
		send: make(chan outFrame, ctl.cfg.SendBuffer),
	}
	sess := core.NewSession(sid)
	sess.AttachSink(lc)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, lc)
	go ctl.readPump(ctx, cancel, sess, lc)
}

// disconnect runs the connection-close cleanup: leave the current lobby,
// if any, and garbage-collect it once empty.
func (ctl *Controller) disconnect(sess *core.Session) {
	ctl.Limiter.Forget(sess.ID())
	l := sess.Lobby()
	if l == nil {
		return
	}
	if remaining := l.Leave(sess); remaining == 0 {
		ctl.Registry.Remove(l.ID())
	}
}
