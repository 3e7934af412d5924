package core

import (
	"sync"

	"github.com/samber/lo"
)

// RoomCapacity is the maximum number of peers in one room.
const RoomCapacity = 2

// AdmitOutcome is the result of asking the registry to admit a peer.
type AdmitOutcome int

const (
	AdmitCreated AdmitOutcome = iota
	AdmitJoined
	AdmitRoomFull
)

func (o AdmitOutcome) String() string {
	switch o {
	case AdmitCreated:
		return "created"
	case AdmitJoined:
		return "joined"
	case AdmitRoomFull:
		return "room_full"
	default:
		return "unknown"
	}
}

// AdmitResult carries the outcome, the peer's role and the other members at admission time.
type AdmitResult struct {
	Outcome AdmitOutcome
	Role    Role
	Others  []*Peer
}

// RegistryStats is a point-in-time count of rooms and peers.
type RegistryStats struct {
	Rooms int
	Peers int
}

type member struct {
	peer *Peer
	role Role
}

// room holds ordered members; index 0 is the oldest member.
// dead is set under mu once the room was emptied and is being unlinked.
type room struct {
	mu      sync.Mutex
	id      string
	members []member
	dead    bool
}

func (rm *room) others(exclude *Peer) []*Peer {
	return lo.FilterMap(rm.members, func(m member, _ int) (*Peer, bool) {
		return m.peer, m.peer != exclude
	})
}

func (rm *room) admit(p *Peer) AdmitResult {
	for _, m := range rm.members {
		if m.peer == p {
			return AdmitResult{Outcome: outcomeForRole(m.role), Role: m.role, Others: rm.others(p)}
		}
	}

	if len(rm.members) >= RoomCapacity {
		return AdmitResult{Outcome: AdmitRoomFull, Others: rm.others(p)}
	}

	others := rm.others(p)
	role := RoleCreator
	if len(rm.members) > 0 {
		role = RoleJoiner
	}
	rm.members = append(rm.members, member{peer: p, role: role})
	return AdmitResult{Outcome: outcomeForRole(role), Role: role, Others: others}
}

// remove drops p and reports whether the room became empty because of it.
func (rm *room) remove(p *Peer) (remaining []*Peer, emptied bool) {
	idx := -1
	for i, m := range rm.members {
		if m.peer == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rm.others(nil), false
	}
	rm.members = append(rm.members[:idx], rm.members[idx+1:]...)
	return rm.others(nil), len(rm.members) == 0
}

func outcomeForRole(role Role) AdmitOutcome {
	if role == RoleCreator {
		return AdmitCreated
	}
	return AdmitJoined
}

// Registry maps room ids to their members. The registry lock only guards the
// room table; membership changes are serialized per room so that unrelated
// rooms never contend.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

func (r *Registry) lookup(id string, create bool) *room {
	r.mu.RLock()
	rm, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok || !create {
		return rm
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rm, ok = r.rooms[id]; ok {
		return rm
	}
	rm = &room{id: id, members: make([]member, 0, RoomCapacity)}
	r.rooms[id] = rm
	return rm
}

// Admit adds p to the room, creating the room on first use.
// Admitting a peer that is already a member returns its original outcome unchanged.
func (r *Registry) Admit(roomID string, p *Peer) AdmitResult {
	for {
		rm := r.lookup(roomID, true)
		rm.mu.Lock()
		if rm.dead {
			// lost a race with the last member leaving; the table entry is about to go
			rm.mu.Unlock()
			continue
		}
		res := rm.admit(p)
		rm.mu.Unlock()
		return res
	}
}

// Remove drops p from the room and returns the members left behind.
// The room is deleted once empty. Removing an absent peer is a no-op.
func (r *Registry) Remove(roomID string, p *Peer) []*Peer {
	rm := r.lookup(roomID, false)
	if rm == nil {
		return nil
	}

	rm.mu.Lock()
	remaining, emptied := rm.remove(p)
	if emptied {
		rm.dead = true
	}
	rm.mu.Unlock()

	if emptied {
		r.mu.Lock()
		if r.rooms[roomID] == rm {
			delete(r.rooms, roomID)
		}
		r.mu.Unlock()
	}
	return remaining
}

// MembersOf returns the members of a room except exclude.
func (r *Registry) MembersOf(roomID string, exclude *Peer) []*Peer {
	rm := r.lookup(roomID, false)
	if rm == nil {
		return nil
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.dead {
		return nil
	}
	return rm.others(exclude)
}

// Contains reports whether p is a member of the room.
func (r *Registry) Contains(roomID string, p *Peer) bool {
	rm := r.lookup(roomID, false)
	if rm == nil {
		return false
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return lo.ContainsBy(rm.members, func(m member) bool { return m.peer == p })
}

// Occupancy returns the number of members in a room, 0 for unknown rooms.
func (r *Registry) Occupancy(roomID string) int {
	rm := r.lookup(roomID, false)
	if rm == nil {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.members)
}

// Stats counts live rooms and peers.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	rooms := lo.Values(r.rooms)
	r.mu.RUnlock()

	var stats RegistryStats
	for _, rm := range rooms {
		rm.mu.Lock()
		if !rm.dead && len(rm.members) > 0 {
			stats.Rooms++
			stats.Peers += len(rm.members)
		}
		rm.mu.Unlock()
	}
	return stats
}
