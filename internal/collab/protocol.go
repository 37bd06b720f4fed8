package collab

import (
	"encoding/json"

	"github.com/b-hayes/room-planner-sub000/internal/engine"
	"github.com/b-hayes/room-planner-sub000/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	// Client to server
	TypeInput       = "input"
	TypeMetrics     = "metrics"
	TypeShapeAdd    = "shape.add"
	TypeShapeRemove = "shape.remove"
	TypeShapeSelect = "shape.select"
	TypeShapeFocus  = "shape.focus"

	// Server to client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeNotify  = "notify"
	TypeError   = "error"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

// ShapeAddPayload carries loosely typed fields, coerced like any host input.
// An empty id gets a generated one.
type ShapeAddPayload struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// ShapeRefPayload names one shape. An empty id on shape.select clears the
// selection.
type ShapeRefPayload struct {
	ID string `json:"id"`
}

type WelcomePayload struct {
	SessionID string       `json:"sessionId"`
	ClientID  string       `json:"clientId"`
	UserID    string       `json:"userId"`
	Frame     engine.Frame `json:"frame"`
}

type ErrorPayload struct {
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}

// PresencePayload is what a participant shares about themselves. Cursor is
// in the sender's viewport pixels; World is filled in by the server.
type PresencePayload struct {
	Cursor      *geom.Point `json:"cursor,omitempty"`
	World       *geom.Point `json:"world,omitempty"`
	Selection   string      `json:"selection,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
