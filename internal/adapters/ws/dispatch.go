package ws

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mmm1245/SecretHitler/internal/core"
	"github.com/mmm1245/SecretHitler/internal/domain"
	"github.com/mmm1245/SecretHitler/internal/protocol"
)

// Alert texts. CreateRoom/JoinRoom name validation and the lookup/collision
// failures are user errors, surfaced to the sender only; the connection
// stays open for another attempt.
const (
	alertNameEmpty   = "name cannot be empty"
	alertNameTooLong = "name too long"
	alertLobbyGone   = "lobby not found"
	alertNameTaken   = "name taken"
	alertInLobby     = "already in a lobby"
	alertMalformed   = "malformed message"
	alertUnknownType = "unknown message type"
	alertRateLimited = "too many requests"
)

func (ctl *Controller) dispatch(sess *core.Session, data []byte) {
	cmd, err := protocol.DecodeCommand(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("sid", string(sess.ID())).Msg("bad frame")
		if errors.Is(err, protocol.ErrUnknownType) {
			ctl.sendAlert(sess, alertUnknownType)
		} else {
			ctl.sendAlert(sess, alertMalformed)
		}
		return
	}

	if !ctl.Limiter.Allow(sess.ID()) {
		ctl.sendAlert(sess, alertRateLimited)
		return
	}

	switch cmd.Type {
	case protocol.TypeCreateRoom:
		ctl.handleCreateRoom(sess, cmd)
	case protocol.TypeJoinRoom:
		ctl.handleJoinRoom(sess, cmd)
	}
}

func (ctl *Controller) handleCreateRoom(sess *core.Session, cmd protocol.Command) {
	if !ctl.claimName(sess, cmd.Name) {
		return
	}

	lobby := ctl.Registry.Create()
	if !lobby.TryJoin(sess) {
		// A fresh empty lobby only rejects unnamed sessions, which
		// claimName rules out.
		log.Error().Str("module", "ws").Str("sid", string(sess.ID())).Str("lobby", string(lobby.ID())).Msg("join of fresh lobby rejected")
		ctl.Registry.Remove(lobby.ID())
		ctl.sendAlert(sess, alertNameTaken)
		return
	}
	log.Info().Str("module", "ws").Str("sid", string(sess.ID())).Str("lobby", string(lobby.ID())).Str("name", sess.Name()).Msg("lobby created and joined")
}

func (ctl *Controller) handleJoinRoom(sess *core.Session, cmd protocol.Command) {
	if !ctl.claimName(sess, cmd.Name) {
		return
	}

	lobby, ok := ctl.Registry.Lookup(cmd.RoomID)
	if !ok {
		ctl.sendAlert(sess, alertLobbyGone)
		return
	}
	if !lobby.TryJoin(sess) {
		// The session's lobby reference stays unset; it may retry,
		// including under another name.
		ctl.sendAlert(sess, alertNameTaken)
		return
	}
	log.Info().Str("module", "ws").Str("sid", string(sess.ID())).Str("lobby", string(lobby.ID())).Str("name", sess.Name()).Msg("joined lobby")
}

// claimName rejects out-of-sequence commands and invalid names with an
// alert. Returns true when the session now carries the requested name.
func (ctl *Controller) claimName(sess *core.Session, name string) bool {
	if sess.State() == core.StateInLobby {
		ctl.sendAlert(sess, alertInLobby)
		return false
	}
	switch err := sess.SetName(name); {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrNameTooLong):
		ctl.sendAlert(sess, alertNameTooLong)
	case errors.Is(err, core.ErrInLobby):
		ctl.sendAlert(sess, alertInLobby)
	default:
		ctl.sendAlert(sess, alertNameEmpty)
	}
	return false
}

func (ctl *Controller) sendAlert(sess *core.Session, text string) {
	frame, err := protocol.EncodeEvent(protocol.Alert(text))
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("encode alert")
		return
	}
	if err := sess.Send(core.Frame(frame)); err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("sid", string(sess.ID())).Msg("alert dropped")
	}
}
