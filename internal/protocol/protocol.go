// Package protocol defines the JSON wire format between lobby clients and
// the server. Every frame is a single type-tagged object; decode failures
// are recoverable errors so a bad frame never takes the connection down.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client to server.
const (
	TypeCreateRoom = "CreateRoom"
	TypeJoinRoom   = "JoinRoom"
)

// Server to client.
const (
	TypeSendAlert = "SendAlert"
	TypePreGameUI = "PreGameUI"
)

var (
	ErrMalformed   = errors.New("malformed frame")
	ErrUnknownType = errors.New("unknown message type")
)

// Command is an inbound client request.
type Command struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}

// Event is an outbound server message.
type Event struct {
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	RoomID  string   `json:"room_id,omitempty"`
	Players []string `json:"players,omitempty"`
}

// Alert builds a user-facing error/notice event.
func Alert(text string) Event {
	return Event{Type: TypeSendAlert, Text: text}
}

// PreGameUI builds a full membership snapshot event.
func PreGameUI(roomID string, players []string) Event {
	return Event{Type: TypePreGameUI, RoomID: roomID, Players: players}
}

// DecodeCommand parses an inbound text frame. Wraps ErrMalformed on JSON
// errors and ErrUnknownType on missing/unrecognized type tags.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	switch cmd.Type {
	case TypeCreateRoom, TypeJoinRoom:
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownType, cmd.Type)
	}
}

func EncodeCommand(cmd Command) ([]byte, error) {
	return json.Marshal(cmd)
}

func EncodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeEvent parses a server frame; used by client-side tooling and tests.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	switch ev.Type {
	case TypeSendAlert, TypePreGameUI:
		return ev, nil
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
}
