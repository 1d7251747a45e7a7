// Package core implements the session/lobby concurrency subsystem: session
// state, lobby membership, the registry, and snapshot broadcasts. It never
// touches transport resources beyond the Sink interface.
package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mmm1245/SecretHitler/internal/domain"
	"github.com/mmm1245/SecretHitler/internal/protocol"
)

// Lobby is a named group of sessions awaiting a game start, keyed by
// display name. It shares its members' lifetime with their connections but
// never owns them.
type Lobby struct {
	id domain.LobbyID

	mu      sync.RWMutex
	members map[string]*Session
}

func NewLobby() *Lobby {
	return &Lobby{
		id:      domain.NewLobbyID(),
		members: make(map[string]*Session),
	}
}

func (l *Lobby) ID() domain.LobbyID { return l.id }

func (l *Lobby) MemberCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.members)
}

// MemberNames returns the current member names, sorted.
func (l *Lobby) MemberNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.memberNamesLocked()
}

func (l *Lobby) memberNamesLocked() []string {
	names := make([]string, 0, len(l.members))
	for name := range l.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TryJoin atomically claims the session's name in this lobby. Returns
// false without mutating anything when the name is already taken or the
// session is unnamed. On success the session's lobby reference is set and
// every member gets a fresh snapshot.
func (l *Lobby) TryJoin(s *Session) bool {
	name := s.Name()
	if name == "" {
		return false
	}
	l.mu.Lock()
	if _, taken := l.members[name]; taken {
		l.mu.Unlock()
		return false
	}
	l.members[name] = s
	l.mu.Unlock()
	s.setLobby(l)
	log.Info().Str("module", "core.lobby").Str("lobby", string(l.id)).Str("name", name).Msg("member joined")
	l.broadcast()
	return true
}

// Leave removes the session by name; a no-op when the session is not a
// current member. Returns the number of members left so the caller can
// garbage-collect an empty lobby.
func (l *Lobby) Leave(s *Session) int {
	name := s.Name()
	l.mu.Lock()
	if cur, ok := l.members[name]; ok && cur == s {
		delete(l.members, name)
	}
	remaining := len(l.members)
	l.mu.Unlock()
	s.clearLobby(l)
	log.Info().Str("module", "core.lobby").Str("lobby", string(l.id)).Str("name", name).Int("remaining", remaining).Msg("member left")
	l.broadcast()
	return remaining
}

// broadcast fans a membership snapshot out to every current member. The
// snapshot is taken under the lock; sends happen after it is released. A
// sink that rejects the frame gets closed, which is fatal to that
// connection only; its own read loop runs the leave path.
func (l *Lobby) broadcast() {
	l.mu.RLock()
	names := l.memberNamesLocked()
	recipients := make([]*Session, 0, len(l.members))
	for _, s := range l.members {
		recipients = append(recipients, s)
	}
	l.mu.RUnlock()

	frame, err := protocol.EncodeEvent(protocol.PreGameUI(string(l.id), names))
	if err != nil {
		log.Error().Err(err).Str("module", "core.lobby").Str("lobby", string(l.id)).Msg("encode snapshot")
		return
	}
	for _, s := range recipients {
		if err := s.Send(Frame(frame)); err != nil {
			log.Warn().Err(err).Str("module", "core.lobby").Str("lobby", string(l.id)).Str("sid", string(s.ID())).Msg("dropping member sink")
			s.closeSink()
		}
	}
}
