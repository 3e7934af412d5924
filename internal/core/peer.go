package core

import "sync"

// PeerState is the connection state machine: Connected -> Joined -> Closed.
type PeerState int

const (
	StateConnected PeerState = iota
	StateJoined
	StateClosed
)

func (s PeerState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Role is assigned by arrival order into a room.
type Role string

const (
	RoleCreator Role = "creator"
	RoleJoiner  Role = "joiner"
)

// DefaultEventBuffer is used when NewPeer is given a non-positive buffer.
const DefaultEventBuffer = 64

// Peer is one signaling connection as seen by the core layer.
// Commands is written by the transport and consumed by Relay.Serve.
// Events is written by the relay and drained by the transport; it is never closed.
type Peer struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	mu    sync.Mutex
	name  string
	state PeerState
	room  string
	role  Role

	done     chan struct{}
	doneOnce sync.Once
	doneErr  error
}

// NewPeer constructs a peer with initialized channels.
func NewPeer(id, name string, buffer int) *Peer {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Peer{
		ID:       id,
		name:     name,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}

// Name returns the display label, falling back to the handle.
func (p *Peer) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.name == "" {
		return p.ID
	}
	return p.name
}

func (p *Peer) setNameIfEmpty(name string) {
	if name == "" {
		return
	}
	p.mu.Lock()
	if p.name == "" {
		p.name = name
	}
	p.mu.Unlock()
}

// State returns the current connection state.
func (p *Peer) State() PeerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Room returns the joined room id, or "" when unjoined.
func (p *Peer) Room() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

// Role returns the role assigned at join time.
func (p *Peer) Role() Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.role
}

func (p *Peer) markJoined(room string, role Role) {
	p.mu.Lock()
	p.state = StateJoined
	p.room = room
	p.role = role
	p.mu.Unlock()
}

// markClosed moves the peer to Closed and returns the room it occupied, if any.
func (p *Peer) markClosed() (room string, wasJoined bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	wasJoined = p.state == StateJoined
	room = p.room
	p.state = StateClosed
	return room, wasJoined
}

// Done is closed when the peer must be disconnected.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Err reports why Done was closed.
func (p *Peer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doneErr
}

func (p *Peer) shutdown(err error) {
	p.doneOnce.Do(func() {
		p.mu.Lock()
		p.doneErr = err
		p.mu.Unlock()
		close(p.done)
	})
}

func (p *Peer) info() PeerInfo {
	return PeerInfo{ID: p.ID, Name: p.Name()}
}

// deliver enqueues ev without blocking. A full queue means the consumer fell
// behind; the peer is shut down instead of dropping a handshake message.
func (p *Peer) deliver(ev *Event) bool {
	select {
	case <-p.done:
		return false
	default:
	}

	select {
	case p.Events <- ev:
		return true
	default:
		p.shutdown(ErrPeerOverflow)
		return false
	}
}
