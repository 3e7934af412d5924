package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// expectQuiet fails if any event arrives on ch within wait.
func expectQuiet(t *testing.T, ch <-chan *Event, wait time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v: %+v", ev.Kind, ev)
	case <-time.After(wait):
	}
}

type servedPeer struct {
	*Peer
	done chan error
}

// startPeer runs relay.Serve for a fresh peer and returns it with its exit channel.
func startPeer(ctx context.Context, relay *Relay, id string) *servedPeer {
	p := NewPeer(id, id, 0)
	done := make(chan error, 1)
	go func() { done <- relay.Serve(ctx, p) }()
	return &servedPeer{Peer: p, done: done}
}

func (s *servedPeer) join(room string) {
	s.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
}

func (s *servedPeer) signal(room string, kind SignalKind, payload string) {
	s.Commands <- &Command{
		Kind:   CommandSignal,
		Room:   room,
		Signal: Signal{Kind: kind, Payload: []byte(payload)},
	}
}

func (s *servedPeer) disconnect(t *testing.T) error {
	t.Helper()
	close(s.Commands)
	select {
	case err := <-s.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("peer %s did not stop", s.ID)
		return nil
	}
}
