package core

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mmm1245/SecretHitler/internal/domain"
)

// LobbyInfo is a read-only registry snapshot entry for the API surface.
type LobbyInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"player_count"`
}

// Registry is the process-wide directory of active lobbies. One instance
// per server process.
type Registry struct {
	mu      sync.RWMutex
	lobbies map[domain.LobbyID]*Lobby
}

func NewRegistry() *Registry {
	return &Registry{lobbies: make(map[domain.LobbyID]*Lobby)}
}

// Create registers a lobby under a fresh ID. A collision on the generated
// ID is practically impossible; regenerate rather than overwrite anyway.
func (r *Registry) Create() *Lobby {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		l := NewLobby()
		if _, exists := r.lobbies[l.ID()]; exists {
			continue
		}
		r.lobbies[l.ID()] = l
		log.Info().Str("module", "core.registry").Str("lobby", string(l.ID())).Msg("lobby created")
		return l
	}
}

// Lookup resolves a lobby by ID, tolerating surrounding whitespace from
// client-side copy/paste.
func (r *Registry) Lookup(id string) (*Lobby, bool) {
	key := domain.LobbyID(strings.TrimSpace(id))
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lobbies[key]
	return l, ok
}

// Remove garbage-collects the lobby if it is still empty. A join racing
// this check keeps the lobby alive.
func (r *Registry) Remove(id domain.LobbyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lobbies[id]
	if !ok || l.MemberCount() > 0 {
		return
	}
	delete(r.lobbies, id)
	log.Info().Str("module", "core.registry").Str("lobby", string(id)).Msg("empty lobby removed")
}

func (r *Registry) List() []LobbyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LobbyInfo, 0, len(r.lobbies))
	for id, l := range r.lobbies {
		out = append(out, LobbyInfo{ID: string(id), PlayerCount: l.MemberCount()})
	}
	return out
}
