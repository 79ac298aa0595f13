package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds the connection to a username and room.
	CommandJoin CommandKind = iota
	// CommandSendMessage delivers a text message to room participants.
	CommandSendMessage
	// CommandSendMedia announces an uploaded file to room participants.
	CommandSendMedia
	// CommandTyping signals that the user started typing.
	CommandTyping
	// CommandStopTyping signals that the user stopped typing.
	CommandStopTyping
)

// Command represents an action requested by a client. Only the fields
// relevant to the kind are set.
type Command struct {
	Kind     CommandKind
	Username string
	Room     string
	Text     string
	URL      string
	Mimetype string
}
