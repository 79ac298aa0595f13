package core

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/utils"
)

const (
	// MaxNameLen caps usernames and room names; longer values are
	// truncated, not rejected.
	MaxNameLen = 30
	// MaxTextLen caps message text the same way.
	MaxTextLen = 2000
	// UploadPathPrefix is the only URL prefix accepted in media
	// announcements. Anything else is dropped.
	UploadPathPrefix = "/uploads/"
)

type dispatch struct {
	client *Client
	cmd    Command
}

// Hub drives the session protocol. A single goroutine owns the registry and
// the client set: commands are applied one at a time, so a registry mutation
// plus its broadcasts is atomic with respect to every other event. No locks.
//
// Invalid input is dropped without a reply. The protocol is fire-and-forget
// on purpose; see the tests before "fixing" this into error events.
type Hub struct {
	registry   *Registry
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	commands   chan dispatch
	log        *zerolog.Logger
}

// NewHub creates a hub with an empty registry.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan dispatch, 64),
		log:        logger,
	}
}

// RegisterClient adds a freshly accepted connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection, cleaning up its session and
// notifying the room it was in.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Dispatch queues a command from the given client.
func (h *Hub) Dispatch(c *Client, cmd Command) {
	h.commands <- dispatch{client: c, cmd: cmd}
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			h.log.Debug().Str("conn_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case d := <-h.commands:
			h.handleCommand(d.client, d.cmd)
		}
	}
}

func (h *Hub) handleCommand(c *Client, cmd Command) {
	// Ignore queued traffic from connections that already left.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Username, cmd.Room)
	case CommandSendMessage:
		h.handleMessage(c, cmd.Text)
	case CommandSendMedia:
		h.handleMedia(c, cmd.URL, cmd.Mimetype)
	case CommandTyping:
		h.handleTyping(c, EventTyping)
	case CommandStopTyping:
		h.handleTyping(c, EventStopTyping)
	}
}

func (h *Hub) handleJoin(c *Client, username, room string) {
	username = clampName(username)
	room = clampName(room)
	if username == "" || room == "" {
		h.log.Debug().Str("conn_id", c.ID).Msg("join dropped: empty username or room")
		return
	}

	// A repeat join replaces the session wholesale. The old room gets no
	// farewell; its roster self-corrects on the next membership event.
	h.registry.Set(c.ID, Session{Username: username, Room: room})

	h.broadcastToRoom(room, &Event{
		Kind:      EventSystem,
		System:    username + " joined the room",
		Timestamp: nowMillis(),
	}, c.ID)
	h.broadcastToRoom(room, &Event{
		Kind:  EventRoomUsers,
		Users: h.registry.MembersOf(room),
	}, "")

	h.log.Info().Str("conn_id", c.ID).Str("user", username).Str("room", room).Msg("joined room")
}

func (h *Hub) handleMessage(c *Client, text string) {
	sess, ok := h.registry.Get(c.ID)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if r := []rune(text); len(r) > MaxTextLen {
		text = string(r[:MaxTextLen])
	}

	// Sender receives its own echo; client UIs render from the
	// authoritative broadcast, not an optimistic insert.
	h.broadcastToRoom(sess.Room, &Event{
		Kind: EventMessage,
		Message: &Message{
			ID:        h.nextMessageID(c.ID),
			Username:  sess.Username,
			Text:      text,
			Timestamp: nowMillis(),
		},
	}, "")
}

func (h *Hub) handleMedia(c *Client, url, mimetype string) {
	sess, ok := h.registry.Get(c.ID)
	if !ok {
		return
	}
	if !strings.HasPrefix(url, UploadPathPrefix) {
		// Sole defense against announcing foreign or absolute URLs.
		h.log.Debug().Str("conn_id", c.ID).Str("url", url).Msg("media dropped: url outside upload prefix")
		return
	}

	h.broadcastToRoom(sess.Room, &Event{
		Kind: EventMedia,
		Message: &Message{
			ID:        h.nextMessageID(c.ID),
			Username:  sess.Username,
			URL:       url,
			Mimetype:  mimetype,
			Timestamp: nowMillis(),
		},
	}, "")
}

func (h *Hub) handleTyping(c *Client, kind EventKind) {
	sess, ok := h.registry.Get(c.ID)
	if !ok {
		return
	}
	// The sender never sees its own typing echo.
	h.broadcastToRoom(sess.Room, &Event{Kind: kind, User: sess.Username}, c.ID)
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	sess, joined := h.registry.Get(c.ID)
	h.registry.Delete(c.ID)
	if !joined {
		// Disconnected before joining; nobody to notify.
		return
	}

	h.broadcastToRoom(sess.Room, &Event{
		Kind:      EventSystem,
		System:    sess.Username + " left the room",
		Timestamp: nowMillis(),
	}, "")
	h.broadcastToRoom(sess.Room, &Event{
		Kind:  EventRoomUsers,
		Users: h.registry.MembersOf(sess.Room),
	}, "")

	h.log.Info().Str("conn_id", c.ID).Str("user", sess.Username).Str("room", sess.Room).Msg("left room")
}

// broadcastToRoom fans out an event to every registered member of the room,
// skipping excludeID if non-empty. Delivery is best effort: a slow
// consumer's event is dropped rather than blocking the hub.
func (h *Hub) broadcastToRoom(room string, ev *Event, excludeID string) {
	for id, client := range h.clients {
		if id == excludeID {
			continue
		}
		sess, ok := h.registry.Get(id)
		if !ok || sess.Room != room {
			continue
		}
		select {
		case client.Events <- ev:
		default:
			// Drop if slow consumer.
		}
	}
}

// nextMessageID builds an opaque render key from the connection id, the
// current millisecond clock, and a short random suffix. The suffix keeps
// rapid sends within one millisecond from colliding.
func (h *Hub) nextMessageID(connID string) string {
	return connID + "-" + strconv.FormatInt(nowMillis(), 10) + "-" + utils.NewID(3)
}

func clampName(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxNameLen {
		s = string(r[:MaxNameLen])
	}
	return s
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
