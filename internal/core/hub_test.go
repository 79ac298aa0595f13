package core

import (
	"strings"
	"testing"
)

func TestJoinBroadcastsRosterAndNotice(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(hub, alice, "alice", "lobby")

	wantUsers(t, nextEvent(t, alice.Events), []string{"alice"})

	bob := NewClient("b")
	hub.RegisterClient(bob)
	join(hub, bob, "bob", "lobby")

	// Bob must not see the notice about himself; his first event is the roster.
	wantUsers(t, nextEvent(t, bob.Events), []string{"alice", "bob"})

	sys := nextEvent(t, alice.Events)
	if sys.Kind != EventSystem || sys.System != "bob joined the room" {
		t.Fatalf("unexpected event: %+v", sys)
	}
	if sys.Timestamp <= 0 {
		t.Fatalf("system notice missing timestamp: %+v", sys)
	}
	wantUsers(t, nextEvent(t, alice.Events), []string{"alice", "bob"})
}

func TestMessageEchoedToWholeRoom(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	join(hub, alice, "alice", "lobby")
	join(hub, bob, "bob", "lobby")

	hub.Dispatch(alice, Command{Kind: CommandSendMessage, Text: "hi"})

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventMessage)
		if ev.Message.Username != "alice" || ev.Message.Text != "hi" {
			t.Fatalf("unexpected message: %+v", ev.Message)
		}
		if ev.Message.ID == "" || ev.Message.Timestamp <= 0 {
			t.Fatalf("message missing id or timestamp: %+v", ev.Message)
		}
	}
}

// Messages that trim to empty are dropped silently, no error event. That is
// the documented fire-and-forget contract, not a bug.
func TestEmptyMessageProducesNoBroadcast(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	join(hub, alice, "alice", "lobby")
	join(hub, bob, "bob", "lobby")

	hub.Dispatch(alice, Command{Kind: CommandSendMessage, Text: "   \t\n  "})
	hub.Dispatch(alice, Command{Kind: CommandSendMessage, Text: "real"})

	// Commands are processed in order; if the blank message had produced a
	// broadcast it would arrive before "real".
	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventMessage)
		if ev.Message.Text != "real" {
			t.Fatalf("blank message leaked: %+v", ev.Message)
		}
	}
}

func TestMessageWithoutSessionDropped(t *testing.T) {
	hub := startHub(t)

	c := NewClient("c")
	hub.RegisterClient(c)
	hub.Dispatch(c, Command{Kind: CommandSendMessage, Text: "hello?"})
	join(hub, c, "alice", "lobby")

	// The pre-join message must have produced nothing; the first event is
	// the join roster.
	wantUsers(t, nextEvent(t, c.Events), []string{"alice"})
}

func TestLongInputTruncatedNotRejected(t *testing.T) {
	hub := startHub(t)

	longName := strings.Repeat("n", MaxNameLen+10)
	c := NewClient("c")
	hub.RegisterClient(c)
	join(hub, c, longName, "lobby")

	ev := nextEvent(t, c.Events)
	if ev.Kind != EventRoomUsers || len(ev.Users) != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if got := ev.Users[0]; got != strings.Repeat("n", MaxNameLen) {
		t.Fatalf("username not truncated to %d chars: %q", MaxNameLen, got)
	}

	hub.Dispatch(c, Command{Kind: CommandSendMessage, Text: strings.Repeat("x", MaxTextLen+500)})
	msg := mustEvent(t, c.Events, EventMessage)
	if len([]rune(msg.Message.Text)) != MaxTextLen {
		t.Fatalf("text not truncated: %d chars", len([]rune(msg.Message.Text)))
	}
}

func TestInvalidJoinDroppedSilently(t *testing.T) {
	hub := startHub(t)

	c := NewClient("c")
	hub.RegisterClient(c)
	join(hub, c, "alice", "   ")
	join(hub, c, "", "lobby")
	join(hub, c, "alice", "lobby")

	// The two invalid joins produce no events at all; the first thing the
	// client sees is the roster from the valid one.
	wantUsers(t, nextEvent(t, c.Events), []string{"alice"})
}

func TestMediaURLPrefixEnforced(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	join(hub, alice, "alice", "lobby")
	join(hub, bob, "bob", "lobby")

	hub.Dispatch(alice, Command{Kind: CommandSendMedia, URL: "https://evil.example/x", Mimetype: "image/png"})
	hub.Dispatch(alice, Command{Kind: CommandSendMedia, URL: "/uploads/123-abc.png", Mimetype: "image/png"})

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventMedia)
		if ev.Message.URL != "/uploads/123-abc.png" {
			t.Fatalf("foreign url leaked: %+v", ev.Message)
		}
		if ev.Message.Username != "alice" || ev.Message.Mimetype != "image/png" {
			t.Fatalf("unexpected media payload: %+v", ev.Message)
		}
	}
}

func TestTypingExcludesSender(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	join(hub, alice, "alice", "lobby")
	join(hub, bob, "bob", "lobby")

	hub.Dispatch(alice, Command{Kind: CommandTyping})
	hub.Dispatch(alice, Command{Kind: CommandStopTyping})

	ev := mustEvent(t, bob.Events, EventTyping)
	if ev.User != "alice" {
		t.Fatalf("unexpected typing user: %q", ev.User)
	}
	ev = mustEvent(t, bob.Events, EventStopTyping)
	if ev.User != "alice" {
		t.Fatalf("unexpected stop-typing user: %q", ev.User)
	}

	// Alice must never see her own typing echo: everything she receives up
	// to the next message is join chatter only.
	hub.Dispatch(alice, Command{Kind: CommandSendMessage, Text: "done"})
	for {
		got := nextEvent(t, alice.Events)
		if got.Kind == EventTyping || got.Kind == EventStopTyping {
			t.Fatal("sender received its own typing echo")
		}
		if got.Kind == EventMessage {
			break
		}
	}
}

func TestDisconnectNotifiesRoom(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	join(hub, alice, "alice", "lobby")
	join(hub, bob, "bob", "lobby")

	// Drain alice's join chatter: own roster, bob's notice, updated roster.
	nextEvent(t, alice.Events)
	nextEvent(t, alice.Events)
	nextEvent(t, alice.Events)

	hub.UnregisterClient(bob)

	sys := nextEvent(t, alice.Events)
	if sys.Kind != EventSystem || sys.System != "bob left the room" {
		t.Fatalf("unexpected event: %+v", sys)
	}
	wantUsers(t, nextEvent(t, alice.Events), []string{"alice"})
}

func TestDisconnectBeforeJoinIsSilent(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(hub, alice, "alice", "lobby")
	nextEvent(t, alice.Events) // own roster

	ghost := NewClient("g")
	hub.RegisterClient(ghost)
	hub.UnregisterClient(ghost)

	// If the ghost had triggered a broadcast it would precede bob's notice.
	bob := NewClient("b")
	hub.RegisterClient(bob)
	join(hub, bob, "bob", "lobby")

	sys := nextEvent(t, alice.Events)
	if sys.Kind != EventSystem || sys.System != "bob joined the room" {
		t.Fatalf("unexpected event after silent disconnect: %+v", sys)
	}
}

func TestRejoinReplacesSession(t *testing.T) {
	hub := startHub(t)

	obs := NewClient("o")
	hub.RegisterClient(obs)
	join(hub, obs, "obs", "one")
	nextEvent(t, obs.Events) // own roster

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(hub, alice, "alice", "one")
	nextEvent(t, obs.Events) // alice's notice
	wantUsers(t, nextEvent(t, obs.Events), []string{"alice", "obs"})
	nextEvent(t, alice.Events) // own roster

	// Rejoin into another room: the old room gets no farewell, and alice
	// gets only the new room's roster.
	join(hub, alice, "alice", "two")
	wantUsers(t, nextEvent(t, alice.Events), []string{"alice"})

	// The old room's derived roster self-corrects on its next event.
	bob := NewClient("b")
	hub.RegisterClient(bob)
	join(hub, bob, "bob", "one")

	sys := nextEvent(t, obs.Events)
	if sys.Kind != EventSystem || sys.System != "bob joined the room" {
		t.Fatalf("old room saw unexpected event after rejoin: %+v", sys)
	}
	wantUsers(t, nextEvent(t, obs.Events), []string{"bob", "obs"})
}
