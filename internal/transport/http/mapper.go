package http

import (
	"encoding/json"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. Unknown types
// map to (nil, nil) and are ignored.
func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Username: join.Username,
			Room:     join.Room,
		}, nil
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Text: msg.Text,
		}, nil
	case proto.InboundTypeMedia:
		var media proto.MediaData
		if err := json.Unmarshal(inbound.Data, &media); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:     core.CommandSendMedia,
			URL:      media.URL,
			Mimetype: media.Mimetype,
		}, nil
	case proto.InboundTypeTyping:
		return &core.Command{Kind: core.CommandTyping}, nil
	case proto.InboundTypeStopTyping:
		return &core.Command{Kind: core.CommandStopTyping}, nil
	default:
		return nil, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: proto.EventMessage{
				ID:        event.Message.ID,
				Username:  event.Message.Username,
				Text:      event.Message.Text,
				Timestamp: event.Message.Timestamp,
			},
		}
	case core.EventMedia:
		return proto.Outbound{
			Type: proto.OutboundTypeMedia,
			Data: proto.EventMedia{
				ID:        event.Message.ID,
				Username:  event.Message.Username,
				URL:       event.Message.URL,
				Mimetype:  event.Message.Mimetype,
				Timestamp: event.Message.Timestamp,
			},
		}
	case core.EventSystem:
		return proto.Outbound{
			Type: proto.OutboundTypeSystem,
			Data: proto.EventSystem{
				Message:   event.System,
				Timestamp: event.Timestamp,
			},
		}
	case core.EventRoomUsers:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomUsers,
			Data: proto.EventRoomUsers{Users: event.Users},
		}
	case core.EventTyping:
		return proto.Outbound{
			Type: proto.OutboundTypeTyping,
			Data: proto.EventTyping{Username: event.User},
		}
	case core.EventStopTyping:
		return proto.Outbound{
			Type: proto.OutboundTypeStopTyping,
			Data: proto.EventTyping{Username: event.User},
		}
	default:
		return proto.Outbound{Type: "unknown"}
	}
}
