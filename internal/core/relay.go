package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Relay dispatches peer commands against the registry and forwards signaling
// payloads between room members. Each connection is driven by its own Serve
// loop; rooms are coordinated only through the Registry.
type Relay struct {
	registry    *Registry
	log         *zerolog.Logger
	joinTimeout time.Duration
}

// NewRelay builds a relay over registry. A zero joinTimeout disables the idle-join bound.
func NewRelay(registry *Registry, logger *zerolog.Logger, joinTimeout time.Duration) *Relay {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Relay{
		registry:    registry,
		log:         logger,
		joinTimeout: joinTimeout,
	}
}

// Registry exposes the room table the relay mutates.
func (r *Relay) Registry() *Registry {
	return r.registry
}

// Serve consumes p.Commands until the context ends, the channel is closed,
// the peer is shut down or the join timeout fires. The peer is closed on
// return, whatever the cause; room cleanup happens only on the first close.
func (r *Relay) Serve(ctx context.Context, p *Peer) (err error) {
	defer func() { r.close(p, err) }()

	r.log.Debug().Str("peer_id", p.ID).Msg("peer connected")

	var joinDeadline <-chan time.Time
	if r.joinTimeout > 0 {
		timer := time.NewTimer(r.joinTimeout)
		defer timer.Stop()
		joinDeadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.Done():
			return p.Err()
		case <-joinDeadline:
			if p.State() == StateConnected {
				return ErrJoinTimeout
			}
			joinDeadline = nil
		case cmd, ok := <-p.Commands:
			if !ok {
				return nil
			}
			if cmd == nil {
				continue
			}
			r.handle(p, cmd)
			if joinDeadline != nil && p.State() == StateJoined {
				joinDeadline = nil
			}
		}
	}
}

func (r *Relay) handle(p *Peer, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		r.onJoin(p, cmd)
	case CommandSignal:
		r.onSignal(p, cmd)
	default:
		p.deliver(errorEvent(cmd.Room, coreError(ErrCodeBadRequest, fmt.Sprintf("unknown command %d", cmd.Kind))))
	}
}

func (r *Relay) onJoin(p *Peer, cmd *Command) {
	logger := r.log.With().Str("peer_id", p.ID).Str("room", cmd.Room).Logger()

	switch p.State() {
	case StateJoined:
		current := p.Room()
		logger.Debug().Str("current_room", current).Msg("duplicate join rejected")
		p.deliver(&Event{
			Kind:  EventError,
			Room:  current,
			Role:  p.Role(),
			Error: coreError(ErrCodeAlreadyJoined, "already joined room "+current),
		})
		return
	case StateClosed:
		return
	}

	if cmd.Room == "" {
		p.deliver(errorEvent("", coreError(ErrCodeBadRequest, "room is required")))
		return
	}

	p.setNameIfEmpty(cmd.Name)

	res := r.registry.Admit(cmd.Room, p)
	switch res.Outcome {
	case AdmitRoomFull:
		logger.Info().Msg("join rejected: room full")
		p.deliver(&Event{
			Kind:  EventRoomFull,
			Room:  cmd.Room,
			Error: coreError(ErrCodeRoomFull, "room is full"),
		})
	case AdmitCreated:
		p.markJoined(cmd.Room, res.Role)
		logger.Info().Str("role", string(res.Role)).Msg("room created")
		p.deliver(&Event{Kind: EventCreatedRoom, Room: cmd.Room, Role: res.Role, PeerID: p.ID})
	case AdmitJoined:
		p.markJoined(cmd.Room, res.Role)
		logger.Info().Str("role", string(res.Role)).Int("others", len(res.Others)).Msg("room joined")

		peers := make([]PeerInfo, 0, len(res.Others))
		for _, other := range res.Others {
			peers = append(peers, other.info())
		}
		// The newcomer's reply is queued before anyone is told about it.
		p.deliver(&Event{Kind: EventJoinedRoom, Room: cmd.Room, Role: res.Role, PeerID: p.ID, Peers: peers})

		joined := &Event{Kind: EventUserJoined, Room: cmd.Room, PeerID: p.ID, User: p.Name()}
		for _, other := range res.Others {
			other.deliver(joined)
		}
	}
}

func (r *Relay) onSignal(p *Peer, cmd *Command) {
	if p.State() != StateJoined {
		p.deliver(errorEvent(cmd.Room, coreError(ErrCodeNotInRoom, "join a room before signaling")))
		return
	}

	current := p.Room()
	if cmd.Room != "" && cmd.Room != current {
		r.log.Debug().Str("peer_id", p.ID).Str("room", cmd.Room).Str("current_room", current).Msg("signal for foreign room rejected")
		p.deliver(errorEvent(cmd.Room, coreError(ErrCodeNotInRoom, "not a member of room "+cmd.Room)))
		return
	}

	targets := r.registry.MembersOf(current, p)
	if len(targets) == 0 {
		r.log.Debug().Str("peer_id", p.ID).Str("room", current).Str("kind", string(cmd.Signal.Kind)).Msg("no recipient, signal dropped")
		return
	}

	sig := cmd.Signal
	ev := &Event{Kind: EventSignal, Room: current, PeerID: p.ID, User: p.Name(), Signal: &sig}
	for _, target := range targets {
		if !target.deliver(ev) {
			r.log.Warn().Str("peer_id", target.ID).Str("room", current).Msg("recipient unavailable, signal dropped")
		}
	}
}

// close releases the peer's room slot and tells whoever is left.
// markClosed makes every call after the first a no-op for the room.
func (r *Relay) close(p *Peer, cause error) {
	room, wasJoined := p.markClosed()
	p.shutdown(cause)

	logger := r.log.With().Str("peer_id", p.ID).Logger()
	if cause != nil && !errors.Is(cause, context.Canceled) {
		logger.Debug().Err(cause).Msg("peer closing")
	}

	if !wasJoined {
		logger.Debug().Msg("peer disconnected before joining")
		return
	}

	remaining := r.registry.Remove(room, p)
	left := &Event{Kind: EventUserLeft, Room: room, PeerID: p.ID, User: p.Name()}
	for _, other := range remaining {
		other.deliver(left)
	}
	logger.Info().Str("room", room).Int("remaining", len(remaining)).Msg("peer left room")
}
