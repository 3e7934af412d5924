package http

import (
	"bytes"
	"encoding/json"

	"github.com/vovakirdan/tutorcall-signal/internal/core"
	"github.com/vovakirdan/tutorcall-signal/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed join-room data"}
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.RoomID,
			Name: join.Name,
		}, nil
	case proto.InboundTypeOffer, proto.InboundTypeAnswer, proto.InboundTypeICECandidate:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed " + inbound.Type + " data"}
		}
		if sig.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}

		kind := core.SignalKind(inbound.Type)
		payload := signalPayload(kind, sig)
		if isNullJSON(payload) {
			if kind != core.SignalICECandidate {
				return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: inbound.Type + " payload is required"}
			}
			// a null candidate marks the end of gathering and is relayed as such
			payload = json.RawMessage("null")
		}
		return &core.Command{
			Kind:   core.CommandSignal,
			Room:   sig.RoomID,
			Signal: core.Signal{Kind: kind, Payload: payload},
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func signalPayload(kind core.SignalKind, sig proto.SignalData) json.RawMessage {
	switch kind {
	case core.SignalOffer:
		return sig.Offer
	case core.SignalAnswer:
		return sig.Answer
	default:
		return sig.Candidate
	}
}

// isNullJSON reports whether a payload is absent or the JSON null literal.
func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventCreatedRoom, core.EventJoinedRoom:
		typ := proto.OutboundTypeCreatedRoom
		if event.Kind == core.EventJoinedRoom {
			typ = proto.OutboundTypeJoinedRoom
		}
		var peers []proto.PeerInfo
		for _, p := range event.Peers {
			peers = append(peers, proto.PeerInfo{PeerID: p.ID, Name: p.Name})
		}
		return proto.Outbound{
			Type: typ,
			Data: proto.RoomAssigned{
				RoomID: event.Room,
				Role:   string(event.Role),
				PeerID: event.PeerID,
				Peers:  peers,
			},
		}
	case core.EventRoomFull:
		return proto.Outbound{
			Type:  proto.OutboundTypeRoomFull,
			Data:  proto.RoomRef{RoomID: event.Room},
			Error: protoError(event.Error),
		}
	case core.EventUserJoined, core.EventUserLeft:
		typ := proto.OutboundTypeUserJoined
		if event.Kind == core.EventUserLeft {
			typ = proto.OutboundTypeUserLeft
		}
		return proto.Outbound{
			Type: typ,
			Data: proto.PeerPresence{
				RoomID: event.Room,
				PeerID: event.PeerID,
				Name:   event.User,
			},
		}
	case core.EventSignal:
		if event.Signal == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "empty signal"}}
		}
		relayed := proto.RelayedSignal{
			RoomID: event.Room,
			From:   event.PeerID,
			Name:   event.User,
		}
		switch event.Signal.Kind {
		case core.SignalOffer:
			relayed.Offer = event.Signal.Payload
		case core.SignalAnswer:
			relayed.Answer = event.Signal.Payload
		default:
			relayed.Candidate = event.Signal.Payload
		}
		return proto.Outbound{Type: string(event.Signal.Kind), Data: relayed}
	case core.EventError:
		out := proto.Outbound{Type: proto.OutboundTypeError, Error: protoError(event.Error)}
		if event.Room != "" {
			out.Data = proto.RoomRef{RoomID: event.Room, Role: string(event.Role)}
		}
		return out
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func protoError(err *core.CoreError) *proto.Error {
	if err == nil {
		return &proto.Error{Code: "unknown", Msg: "unknown error"}
	}
	return &proto.Error{Code: err.Code, Msg: err.Message}
}
