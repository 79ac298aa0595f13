package core

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil)
	go hub.Run(ctx)
	return hub
}

func join(hub *Hub, c *Client, user, room string) {
	hub.Dispatch(c, Command{Kind: CommandJoin, Username: user, Room: room})
}

// nextEvent blocks for the next event on the channel. Per-client ordering
// is guaranteed by the single hub loop, so tests can assert exact sequences.
func nextEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// mustEvent polls until an event of the wanted kind arrives, discarding
// others (join chatter, rosters).
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func wantUsers(t *testing.T, ev *Event, users []string) {
	t.Helper()

	if ev.Kind != EventRoomUsers {
		t.Fatalf("expected room-users event, got kind %v", ev.Kind)
	}
	if !reflect.DeepEqual(ev.Users, users) {
		t.Fatalf("unexpected roster: got %v, want %v", ev.Users, users)
	}
}
