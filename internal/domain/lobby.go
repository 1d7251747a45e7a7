package domain

import (
	"crypto/rand"
	"encoding/base64"
)

type LobbyID string

const lobbyIDBytes = 6

// NewLobbyID returns a short, copy-pasteable, effectively unique lobby
// identifier: 6 random bytes, base64 without padding (8 characters).
func NewLobbyID() LobbyID {
	buf := make([]byte, lobbyIDBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// nothing sensible can run in that state.
		panic(err)
	}
	return LobbyID(base64.RawStdEncoding.EncodeToString(buf))
}
