package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrUnknownType    = errors.New("unknown message type")
	ErrInvalidMessage = errors.New("invalid message")
)

var registry = map[string]func() Message{
	TypeHandshake:          func() Message { return &Handshake{} },
	TypeGameState:          func() Message { return &GameState{} },
	TypePlayerJoined:       func() Message { return &PlayerJoined{} },
	TypePlayerDisconnected: func() Message { return &PlayerDisconnected{} },
	TypePlayerSwordAttack:  func() Message { return &PlayerSwordAttack{} },
	TypeEnemyDefeated:      func() Message { return &EnemyDefeated{} },
	TypePlayerHit:          func() Message { return &PlayerHit{} },

	TypeConnect:     func() Message { return &Connect{} },
	TypeDisconnect:  func() Message { return &Disconnect{} },
	TypeInput:       func() Message { return &Input{} },
	TypeCollectCoin: func() Message { return &CollectCoin{} },
	TypeSwordAttack: func() Message { return &SwordAttack{} },
	TypeHeartbeat:   func() Message { return &Heartbeat{} },
}

type validator interface {
	validate() error
}

// Encode renders m as a single JSON object with its "type" set.
func Encode(m Message) ([]byte, error) {
	m.setType(m.MessageType())
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.MessageType(), err)
	}
	return data, nil
}

// Decode parses and validates any protocol message.
func Decode(data []byte) (Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if h.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	ctor, ok := registry[h.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}

	m := ctor()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, h.Type, err)
	}
	if v, ok := m.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, h.Type, err)
		}
	}
	return m, nil
}

// DecodeClient decodes a frame received by the server. Server-only types
// are rejected as unknown.
func DecodeClient(data []byte) (ClientMessage, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	cm, ok := m.(ClientMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %q from client", ErrUnknownType, m.MessageType())
	}
	return cm, nil
}

// DecodeServer decodes a frame received by the client.
func DecodeServer(data []byte) (ServerMessage, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sm, ok := m.(ServerMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %q from server", ErrUnknownType, m.MessageType())
	}
	return sm, nil
}
