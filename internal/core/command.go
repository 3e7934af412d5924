package core

import "encoding/json"

// CommandKind describes what the peer wants to do.
type CommandKind int

const (
	// CommandJoinRoom admits the peer into a room.
	CommandJoinRoom CommandKind = iota
	// CommandSignal relays a signaling payload to the other room member.
	CommandSignal
)

// SignalKind names a WebRTC handshake message.
type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
)

// Valid reports whether k is one of the relayed handshake kinds.
func (k SignalKind) Valid() bool {
	switch k {
	case SignalOffer, SignalAnswer, SignalICECandidate:
		return true
	default:
		return false
	}
}

// Signal is an opaque handshake payload. Payload is never inspected by the core.
type Signal struct {
	Kind    SignalKind
	Payload json.RawMessage
}

// Command represents an action requested by a peer.
type Command struct {
	Kind   CommandKind
	Room   string
	Name   string // optional display label sent with a join
	Signal Signal
}
