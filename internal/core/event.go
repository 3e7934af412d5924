package core

// EventKind is a notification the core emits to peers.
type EventKind int

const (
	// EventCreatedRoom tells the peer it is the first member (creator) of a room.
	EventCreatedRoom EventKind = iota
	// EventJoinedRoom tells the peer it is the second member (joiner) of a room.
	EventJoinedRoom
	// EventRoomFull rejects a join because the room is at capacity.
	EventRoomFull
	// EventUserJoined notifies the existing member that a peer joined.
	EventUserJoined
	// EventUserLeft notifies remaining members that a peer disconnected.
	EventUserLeft
	// EventSignal carries a relayed offer, answer or ICE candidate.
	EventSignal
	// EventError notifies the peer about a domain error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventCreatedRoom:
		return "created-room"
	case EventJoinedRoom:
		return "joined-room"
	case EventRoomFull:
		return "room-full"
	case EventUserJoined:
		return "user-joined"
	case EventUserLeft:
		return "user-left"
	case EventSignal:
		return "signal"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// PeerInfo describes another room member.
type PeerInfo struct {
	ID   string
	Name string
}

// Event is sent to peers to describe what happened in the system.
type Event struct {
	Kind   EventKind
	Room   string
	Role   Role       // created/joined replies and already_joined errors
	PeerID string     // subject of user-joined/user-left, sender of a signal
	User   string     // display label of PeerID
	Peers  []PeerInfo // other members, for EventJoinedRoom
	Signal *Signal
	Error  *CoreError
}

func errorEvent(room string, err *CoreError) *Event {
	return &Event{Kind: EventError, Room: room, Error: err}
}
