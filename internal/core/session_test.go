package core_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmm1245/SecretHitler/internal/core"
	"github.com/mmm1245/SecretHitler/internal/domain"
	"github.com/mmm1245/SecretHitler/internal/protocol"
)

// recordSink captures frames in memory so tests can assert on what a
// session would have received.
type recordSink struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	reject bool
}

func (s *recordSink) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject || s.closed {
		return errors.New("sink rejected frame")
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordSink) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *recordSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *recordSink) events(t *testing.T) []protocol.Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Event, 0, len(s.frames))
	for _, f := range s.frames {
		ev, err := protocol.DecodeEvent(f)
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func (s *recordSink) lastEvent(t *testing.T) protocol.Event {
	t.Helper()
	evs := s.events(t)
	require.NotEmpty(t, evs)
	return evs[len(evs)-1]
}

func newMember(t *testing.T, name string) (*core.Session, *recordSink) {
	t.Helper()
	sess := core.NewSession(core.SessionID("sid-" + name))
	sink := &recordSink{}
	sess.AttachSink(sink)
	require.NoError(t, sess.SetName(name))
	return sess, sink
}

func TestSession_SendWithoutSink(t *testing.T) {
	sess := core.NewSession("s1")
	err := sess.Send(core.Frame("hello"))
	assert.ErrorIs(t, err, core.ErrNoSink)
}

func TestSession_AttachSinkFirstWriterWins(t *testing.T) {
	sess := core.NewSession("s1")
	first := &recordSink{}
	second := &recordSink{}
	sess.AttachSink(first)
	sess.AttachSink(second)

	require.NoError(t, sess.Send(core.Frame("x")))
	assert.Len(t, first.frames, 1)
	assert.Empty(t, second.frames)
}

func TestSession_SetNameTrimsAndValidates(t *testing.T) {
	sess := core.NewSession("s1")
	assert.ErrorIs(t, sess.SetName("   "), domain.ErrNameEmpty)

	require.NoError(t, sess.SetName("  alice "))
	assert.Equal(t, "alice", sess.Name())
}

func TestSession_RenameAllowedUntilJoined(t *testing.T) {
	sess, _ := newMember(t, "alice")
	require.NoError(t, sess.SetName("alice2"))

	lobby := core.NewLobby()
	require.True(t, lobby.TryJoin(sess))
	assert.ErrorIs(t, sess.SetName("alice3"), core.ErrInLobby)
	assert.Equal(t, "alice2", sess.Name())
}

func TestSession_StateMachine(t *testing.T) {
	sess := core.NewSession("s1")
	sess.AttachSink(&recordSink{})
	assert.Equal(t, core.StateAnonymous, sess.State())

	require.NoError(t, sess.SetName("alice"))
	assert.Equal(t, core.StateNamed, sess.State())

	lobby := core.NewLobby()
	require.True(t, lobby.TryJoin(sess))
	assert.Equal(t, core.StateInLobby, sess.State())
	assert.Same(t, lobby, sess.Lobby())

	lobby.Leave(sess)
	assert.Equal(t, core.StateNamed, sess.State())
	assert.Nil(t, sess.Lobby())
}
