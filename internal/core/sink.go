package core

// Frame is an encoded wire payload.
type Frame []byte

type SessionID string

// Sink abstracts a session's outbound transport endpoint.
// Owned by the adapter; the adapter must Close() it.
type Sink interface {
	TrySend(Frame) error
	Close()
}
