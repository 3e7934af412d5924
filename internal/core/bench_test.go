package core

import (
	"context"
	"testing"
)

func BenchmarkRelaySignal(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := NewRelay(NewRegistry(), nil, 0)
	sender := startPeer(ctx, relay, "sender")
	target := startPeer(ctx, relay, "target")

	sender.join("bench")
	<-sender.Events
	target.join("bench")
	<-target.Events
	<-sender.Events // user-joined

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.signal("bench", SignalICECandidate, `{"candidate":"candidate:1 1 udp 2122260223 10.0.0.1 54321 typ host"}`)
		<-target.Events
	}
}

func benchmarkRegistryAdmit(b *testing.B, rooms int) {
	registry := NewRegistry()
	peers := make([]*Peer, rooms)
	ids := make([]string, rooms)
	for i := range peers {
		peers[i] = NewPeer("p", "", 1)
		ids[i] = "room-" + string(rune('a'+i%26)) + string(rune('a'+i/26%26))
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			idx := i % rooms
			registry.Admit(ids[idx], peers[idx])
			registry.Remove(ids[idx], peers[idx])
			i++
		}
	})
}

func BenchmarkRegistryAdmit_1(b *testing.B)   { benchmarkRegistryAdmit(b, 1) }
func BenchmarkRegistryAdmit_100(b *testing.B) { benchmarkRegistryAdmit(b, 100) }
