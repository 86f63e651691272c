// Package room holds the Room Store: the authoritative per-room record.
// It is a typed map, not a state machine — it does not enforce the
// serving/waiting/paused/off invariants itself (spec.md §4.1); the
// scheduler and engine are the only writers.
package room

import (
	"fmt"
	"sync"

	"hotelac/internal/hvac"
	"hotelac/internal/numeric"
)

// Room is one participant in the shared plant.
type Room struct {
	ID          int
	InitialTemp float64
	CurrentTemp float64
	Mode        hvac.Mode
	TargetTemp  float64
	Speed       hvac.Speed
	State       hvac.PowerState
	Cost        float64
}

// SnapTemp rounds CurrentTemp to three decimals and snaps it to target
// when within tolerance (spec.md §3 invariant).
func (r *Room) SnapTemp(target, tolerance float64) {
	r.CurrentTemp = numeric.Round3(r.CurrentTemp)
	if numeric.Within(r.CurrentTemp, target, tolerance) {
		r.CurrentTemp = target
	}
}

// Store is the authoritative per-room record keyed by room id.
type Store struct {
	mu    sync.RWMutex
	rooms map[int]*Room
}

// NewStore creates a Store pre-populated with n rooms (ids 1..n), each
// starting off and at initialTemp(id).
func NewStore(n int, initialTemp func(id int) float64) *Store {
	rooms := make(map[int]*Room, n)
	for id := 1; id <= n; id++ {
		t := initialTemp(id)
		rooms[id] = &Room{
			ID:          id,
			InitialTemp: t,
			CurrentTemp: t,
			Mode:        hvac.ModeCooling,
			Speed:       hvac.SpeedMedium,
			State:       hvac.PowerOff,
		}
	}
	return &Store{rooms: rooms}
}

// Get returns the room by id. A nonexistent id is a programmer error —
// panics, per spec.md §7 kind 1.
func (s *Store) Get(id int) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		panic(fmt.Sprintf("room: unknown room id %d", id))
	}
	return r
}

// IDs returns every room id, ascending.
func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	// small, fixed-size room sets: insertion sort is plenty and keeps
	// this dependency-free.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// All returns every room, ordered by id.
func (s *Store) All() []*Room {
	ids := s.IDs()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rooms[id])
	}
	return out
}
