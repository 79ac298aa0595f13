package core

// Message is a transient chat or media payload. It is constructed on
// receipt, broadcast once, and discarded; the server keeps no history.
// The ID is a best-effort unique string used by clients as a render key.
type Message struct {
	ID        string
	Username  string
	Text      string
	URL       string // media only
	Mimetype  string // media only
	Timestamp int64  // milliseconds since epoch, server-assigned
}
