package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin       = "join"
	InboundTypeMessage    = "message"
	InboundTypeMedia      = "media"
	InboundTypeTyping     = "typing"
	InboundTypeStopTyping = "stop-typing"

	OutboundTypeMessage    = "message"
	OutboundTypeMedia      = "media"
	OutboundTypeSystem     = "system"
	OutboundTypeRoomUsers  = "room-users"
	OutboundTypeTyping     = "typing"
	OutboundTypeStopTyping = "stop-typing"
)

// JoinData binds the connection to a username and room.
type JoinData struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Text string `json:"text"`
}

// MediaData announces a previously uploaded file.
type MediaData struct {
	URL      string `json:"url"`
	Mimetype string `json:"mimetype"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// EventMessage is a chat message broadcast to a room.
type EventMessage struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// EventMedia is an uploaded-file announcement broadcast to a room.
type EventMedia struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	URL       string `json:"url"`
	Mimetype  string `json:"mimetype"`
	Timestamp int64  `json:"timestamp"`
}

// EventSystem is a server-generated notice (user joined/left).
type EventSystem struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// EventRoomUsers delivers the current roster of the client's room.
type EventRoomUsers struct {
	Users []string `json:"users"`
}

// EventTyping notifies that a user started or stopped typing.
type EventTyping struct {
	Username string `json:"username"`
}
