package core

const eventBufferSize = 16

// Client is one live connection as seen by the hub. It has no session until
// its first join command.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, eventBufferSize),
	}
}
