package core

import (
	"errors"
	"sync"

	"github.com/mmm1245/SecretHitler/internal/domain"
)

var (
	ErrNoSink  = errors.New("no sink attached")
	ErrInLobby = errors.New("session already in a lobby")
)

// State is where a session sits in the command sequence.
type State int

const (
	StateAnonymous State = iota
	StateNamed
	StateInLobby
)

// Session is the server-side state for one connected client. Each field is
// read-mostly; a single small mutex covers them all.
type Session struct {
	id SessionID

	mu    sync.RWMutex
	name  string
	lobby *Lobby
	sink  Sink
}

func NewSession(id SessionID) *Session {
	return &Session{id: id}
}

func (s *Session) ID() SessionID { return s.id }

// AttachSink binds the outbound endpoint. First writer wins; later calls
// are no-ops.
func (s *Session) AttachSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		s.sink = sink
	}
}

// Send enqueues an encoded frame for delivery to this session's client.
func (s *Session) Send(f Frame) error {
	s.mu.RLock()
	sink := s.sink
	s.mu.RUnlock()
	if sink == nil {
		return ErrNoSink
	}
	return sink.TrySend(f)
}

// SetName validates and records the display name. Renaming is allowed up
// until the session joins a lobby; once a member, the name is frozen.
func (s *Session) SetName(name string) error {
	name, err := domain.ValidateName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobby != nil {
		return ErrInLobby
	}
	s.name = name
	return nil
}

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) Lobby() *Lobby {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobby
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.lobby != nil:
		return StateInLobby
	case s.name != "":
		return StateNamed
	default:
		return StateAnonymous
	}
}

func (s *Session) setLobby(l *Lobby) {
	s.mu.Lock()
	s.lobby = l
	s.mu.Unlock()
}

func (s *Session) clearLobby(l *Lobby) {
	s.mu.Lock()
	if s.lobby == l {
		s.lobby = nil
	}
	s.mu.Unlock()
}

// closeSink tears down the outbound endpoint, if any. Used when a send is
// rejected; the connection's read loop notices the close and cleans up.
func (s *Session) closeSink() {
	s.mu.RLock()
	sink := s.sink
	s.mu.RUnlock()
	if sink != nil {
		sink.Close()
	}
}
