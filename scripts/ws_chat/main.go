// Interactive chat client. Demonstrates the client side of the relay
// contract: it replays its join after every reconnect and emits
// stop-typing immediately when a message is sent.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/chatrelay/chatrelay-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "username")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Printf("Connecting to %s as %s in room %s\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	for {
		err := session(ctx, *addr, *user, *room, lines)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		// The server has no memory of us; reconnect and rejoin.
		log.Printf("connection lost (%v), reconnecting...", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func session(ctx context.Context, addr, user, room string, lines <-chan string) error {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	send := func(typ string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		return wsjson.Write(sctx, conn, proto.Inbound{Type: typ, Data: data})
	}

	if err := send(proto.InboundTypeJoin, proto.JoinData{Username: user, Room: room}); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(sctx, conn)
	}()

	for {
		select {
		case err := <-readErr:
			return err
		case <-sctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line == "" {
				continue
			}
			// Emit typing so peers see the indicator, then the
			// message, then stop-typing per the client contract.
			_ = send(proto.InboundTypeTyping, struct{}{})
			if err := send(proto.InboundTypeMessage, proto.MessageData{Text: line}); err != nil {
				return err
			}
			if err := send(proto.InboundTypeStopTyping, struct{}{}); err != nil {
				return err
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var outbound struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}

		switch outbound.Type {
		case proto.OutboundTypeMessage:
			var evt proto.EventMessage
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Printf("%s: %s\n", evt.Username, evt.Text)
		case proto.OutboundTypeMedia:
			var evt proto.EventMedia
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal media: %v", err)
				continue
			}
			fmt.Printf("%s shared %s (%s)\n", evt.Username, evt.URL, evt.Mimetype)
		case proto.OutboundTypeSystem:
			var evt proto.EventSystem
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal system: %v", err)
				continue
			}
			fmt.Printf("* %s\n", evt.Message)
		case proto.OutboundTypeRoomUsers:
			var evt proto.EventRoomUsers
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal room-users: %v", err)
				continue
			}
			fmt.Printf("* in room: %v\n", evt.Users)
		case proto.OutboundTypeTyping:
			var evt proto.EventTyping
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				continue
			}
			fmt.Printf("* %s is typing...\n", evt.Username)
		case proto.OutboundTypeStopTyping:
			// Quiet; the indicator simply goes away.
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Type, outbound.Data)
		}
	}
}
