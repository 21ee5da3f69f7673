package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribe    = "subscribe"
	TypeSlideCommand = "slide_command"
	TypePing         = "ping"

	// Server -> Client
	TypeSlideChanged = "slide_changed"
	TypeCommandAck   = "command_ack"
	TypeError        = "error"
	TypePong         = "pong"
)

// Slide command actions.
const (
	ActionPrev    = "prev"
	ActionNext    = "next"
	ActionShow    = "show"
	ActionPlus    = "plus"
	ActionCurrent = "current"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

// SubscribePayload narrows the stream to the listed containers. Empty means all.
type SubscribePayload struct {
	ContainerIDs []string `json:"container_ids"`
}

// SlideCommandPayload asks the server to navigate a container. Legacy actions
// (plus, current) ignore ContainerID and act on the first container.
type SlideCommandPayload struct {
	ContainerID string `json:"container_id,omitempty"`
	Action      string `json:"action"`
	Index       int    `json:"index,omitempty"`
	N           int    `json:"n,omitempty"`
}

// Server Messages (outgoing)

type SlideChangedPayload struct {
	ContainerID string `json:"container_id"`
	Index       int    `json:"index"`
	Source      string `json:"source"`
}

type CommandAckPayload struct {
	ContainerID string `json:"container_id,omitempty"`
	Action      string `json:"action"`
	Index       int    `json:"index"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
