package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tutorcall-signal/internal/core"
	"github.com/vovakirdan/tutorcall-signal/internal/proto"
)

func TestInboundToCommandJoin(t *testing.T) {
	req := require.New(t)

	cmd, protoErr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeJoinRoom,
		Data: json.RawMessage(`{"roomId":"room-42","name":"Ada"}`),
	})
	req.Nil(protoErr)
	req.Equal(core.CommandJoinRoom, cmd.Kind)
	req.Equal("room-42", cmd.Room)
	req.Equal("Ada", cmd.Name)
}

func TestInboundToCommandSignalPayloadIsUntouched(t *testing.T) {
	req := require.New(t)
	candidate := `{"candidate":"candidate:0 1 UDP 2122252543 192.168.1.2 50000 typ host","sdpMid":"0","sdpMLineIndex":0}`

	cmd, protoErr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeICECandidate,
		Data: json.RawMessage(`{"roomId":"r","candidate":` + candidate + `}`),
	})
	req.Nil(protoErr)
	req.Equal(core.CommandSignal, cmd.Kind)
	req.Equal(core.SignalICECandidate, cmd.Signal.Kind)
	req.JSONEq(candidate, string(cmd.Signal.Payload))
	req.Equal(candidate, string(cmd.Signal.Payload))
}

func TestInboundToCommandErrors(t *testing.T) {
	cases := []struct {
		name    string
		inbound proto.Inbound
		code    string
	}{
		{"unknown type", proto.Inbound{Type: "chat", Data: json.RawMessage(`{}`)}, core.ErrCodeInvalidMessage},
		{"malformed join", proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: json.RawMessage(`[1]`)}, core.ErrCodeBadRequest},
		{"join without room", proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: json.RawMessage(`{}`)}, core.ErrCodeBadRequest},
		{"offer without room", proto.Inbound{Type: proto.InboundTypeOffer, Data: json.RawMessage(`{"offer":{}}`)}, core.ErrCodeBadRequest},
		{"offer without payload", proto.Inbound{Type: proto.InboundTypeOffer, Data: json.RawMessage(`{"roomId":"r"}`)}, core.ErrCodeBadRequest},
		{"answer in offer field", proto.Inbound{Type: proto.InboundTypeAnswer, Data: json.RawMessage(`{"roomId":"r","offer":{}}`)}, core.ErrCodeBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tc.inbound)
			require.Nil(t, cmd)
			require.NotNil(t, protoErr)
			require.Equal(t, tc.code, protoErr.Code)
		})
	}
}

func TestInboundToCommandMissingCandidateBecomesNull(t *testing.T) {
	cmd, protoErr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeICECandidate,
		Data: json.RawMessage(`{"roomId":"r"}`),
	})
	require.Nil(t, protoErr)
	require.Equal(t, "null", string(cmd.Signal.Payload))
}

func TestOutboundFromEvent(t *testing.T) {
	req := require.New(t)

	out := outboundFromEvent(&core.Event{
		Kind:   core.EventSignal,
		Room:   "room-42",
		PeerID: "p1",
		User:   "tutor",
		Signal: &core.Signal{Kind: core.SignalAnswer, Payload: json.RawMessage(`{"sdp":"Y"}`)},
	})
	req.Equal(proto.OutboundTypeAnswer, out.Type)
	encoded, err := json.Marshal(out)
	req.NoError(err)
	req.JSONEq(`{"type":"answer","data":{"roomId":"room-42","from":"p1","name":"tutor","answer":{"sdp":"Y"}}}`, string(encoded))

	out = outboundFromEvent(&core.Event{
		Kind:  core.EventRoomFull,
		Room:  "room-42",
		Error: &core.CoreError{Code: core.ErrCodeRoomFull, Message: "room is full"},
	})
	req.Equal(proto.OutboundTypeRoomFull, out.Type)
	req.Equal(core.ErrCodeRoomFull, out.Error.Code)

	out = outboundFromEvent(&core.Event{Kind: core.EventUserLeft, Room: "room-42", PeerID: "p2", User: "student"})
	req.Equal(proto.OutboundTypeUserLeft, out.Type)
	req.Equal(proto.PeerPresence{RoomID: "room-42", PeerID: "p2", Name: "student"}, out.Data)

	out = outboundFromEvent(&core.Event{Kind: core.EventError})
	req.Equal(proto.OutboundTypeError, out.Type)
	req.Equal("unknown", out.Error.Code)
}

func TestInboundToCommandNullOfferOrAnswerRejected(t *testing.T) {
	for _, inbound := range []proto.Inbound{
		{Type: proto.InboundTypeOffer, Data: json.RawMessage(`{"roomId":"r","offer":null}`)},
		{Type: proto.InboundTypeAnswer, Data: json.RawMessage(`{"roomId":"r","answer": null }`)},
	} {
		cmd, protoErr := inboundToCommand(inbound)
		require.Nil(t, cmd, inbound.Type)
		require.NotNil(t, protoErr, inbound.Type)
		require.Equal(t, core.ErrCodeBadRequest, protoErr.Code)
	}
}

func TestInboundToCommandExplicitNullCandidateIsRelayed(t *testing.T) {
	cmd, protoErr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeICECandidate,
		Data: json.RawMessage(`{"roomId":"r","candidate":null}`),
	})
	require.Nil(t, protoErr)
	require.Equal(t, "null", string(cmd.Signal.Payload))
}
