package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage carries a chat message to room participants.
	EventMessage EventKind = iota
	// EventMedia carries an uploaded-file announcement to room participants.
	EventMedia
	// EventSystem is a server-generated notice (joined/left).
	EventSystem
	// EventRoomUsers delivers the current roster of a room.
	EventRoomUsers
	// EventTyping notifies that a user started typing.
	EventTyping
	// EventStopTyping notifies that a user stopped typing.
	EventStopTyping
)

// Event is sent to clients to describe what happened in their room.
type Event struct {
	Kind      EventKind
	Message   *Message // message/media events
	System    string   // system events
	Timestamp int64    // system events, milliseconds since epoch
	Users     []string // room-users events
	User      string   // typing events
}
