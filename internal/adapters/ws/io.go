package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mmm1245/SecretHitler/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *LobbyConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Msg("writePump ctx done")
			return
		case f, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(f.messageType, f.data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump processes one connection's inbound frames sequentially. Pings
// are answered inside ReadMessage by the default ping handler.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sess *core.Session, c *LobbyConn) {
	defer func() {
		log.Info().Str("module", "ws").Str("sid", string(sess.ID())).Msg("readPump closing")
		ctl.disconnect(sess)
		c.Close()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Str("sid", string(sess.ID())).Msg("readPump ctx done")
			return
		default:
			mt, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "ws").Str("sid", string(sess.ID())).Msg("readPump read error")
				return
			}
			switch mt {
			case websocket.TextMessage:
				ctl.dispatch(sess, data)
			case websocket.BinaryMessage:
				if err := c.echoBinary(data); err != nil {
					log.Warn().Err(err).Str("module", "ws").Str("sid", string(sess.ID())).Msg("binary echo dropped")
				}
			}
		}
	}
}
