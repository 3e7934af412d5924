package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the peer.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom     = "join-room"
	InboundTypeOffer        = "offer"
	InboundTypeAnswer       = "answer"
	InboundTypeICECandidate = "ice-candidate"

	OutboundTypeCreatedRoom  = "created-room"
	OutboundTypeJoinedRoom   = "joined-room"
	OutboundTypeRoomFull     = "room-full"
	OutboundTypeUserJoined   = "user-joined"
	OutboundTypeUserLeft     = "user-left"
	OutboundTypeOffer        = "offer"
	OutboundTypeAnswer       = "answer"
	OutboundTypeICECandidate = "ice-candidate"
	OutboundTypeError        = "error"
)

// JoinRoomData requests admission into a room.
type JoinRoomData struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name,omitempty"`
}

// SignalData is the union of the three handshake messages. Exactly one of
// Offer, Answer or Candidate is expected, matching the envelope type; its
// contents are relayed untouched.
type SignalData struct {
	RoomID    string          `json:"roomId"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Outbound is the envelope for messages sent to the peer.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// RoomAssigned answers a successful join-room.
type RoomAssigned struct {
	RoomID string     `json:"roomId"`
	Role   string     `json:"role"`
	PeerID string     `json:"peerId"`
	Peers  []PeerInfo `json:"peers,omitempty"`
}

// PeerInfo describes the other occupant of a room.
type PeerInfo struct {
	PeerID string `json:"peerId"`
	Name   string `json:"name,omitempty"`
}

// RoomRef names a room without further detail.
type RoomRef struct {
	RoomID string `json:"roomId"`
	Role   string `json:"role,omitempty"`
}

// PeerPresence notifies that a peer joined or left a room.
type PeerPresence struct {
	RoomID string `json:"roomId"`
	PeerID string `json:"peerId"`
	Name   string `json:"name,omitempty"`
}

// RelayedSignal is SignalData stamped with the sender.
type RelayedSignal struct {
	RoomID    string          `json:"roomId"`
	From      string          `json:"from"`
	Name      string          `json:"name,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
