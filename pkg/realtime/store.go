package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T, E any] struct {
	ID    string
	State T
	hub   *Broadcaster[E]
}

// RoomStore manages rooms, their broadcasters and their timing loops.
type RoomStore[T, E any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T, E]
	loops map[string]*loop
}

type loop struct {
	cancel context.CancelFunc
	wake   chan struct{}
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T, E any]() *RoomStore[T, E] {
	return &RoomStore[T, E]{
		rooms: make(map[string]*Room[T, E]),
		loops: make(map[string]*loop),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T, E]) Create(id string, state T) *Room[T, E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T, E]{ID: id, State: state, hub: NewBroadcaster[E]()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T, E]) Get(id string) (*Room[T, E], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// IDs returns the ids of all rooms.
func (s *RoomStore[T, E]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Delete stops the room's loop, closes its broadcaster and forgets it.
func (s *RoomStore[T, E]) Delete(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
	}
	if l, running := s.loops[id]; running {
		l.cancel()
	}
	s.mu.Unlock()
	if ok && r.hub != nil {
		r.hub.Close()
	}
	return ok
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are ignored.
func (s *RoomStore[T, E]) Publish(id string, event E) {
	if hub, ok := s.Broadcaster(id); ok {
		hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for an existing room.
func (s *RoomStore[T, E]) Broadcaster(id string) (*Broadcaster[E], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return r.hub, true
}

// Looping reports whether a loop is currently running for id.
func (s *RoomStore[T, E]) Looping(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loops[id]
	return ok
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// stop true means exit the loop after publishing events.
type TickFunc[T, E any] func(state T, now time.Time) (next time.Time, events []E, stop bool)

// RunLoop starts a timing loop for the room and reports whether it did. It
// does nothing when the room is missing or already has a loop; use Wake to
// nudge a running one.
func (s *RoomStore[T, E]) RunLoop(id string, tick TickFunc[T, E]) bool {
	s.mu.Lock()
	if _, ok := s.loops[id]; ok {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.rooms[id]; !ok {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{cancel: cancel, wake: make(chan struct{}, 1)}
	s.loops[id] = l
	s.mu.Unlock()

	go s.run(ctx, id, l, tick)
	return true
}

func (s *RoomStore[T, E]) run(ctx context.Context, id string, l *loop, tick TickFunc[T, E]) {
	defer l.cancel()
	for {
		room, ok := s.Get(id)
		if !ok {
			s.forget(id, l)
			return
		}
		next, events, stop := tick(room.State, time.Now().UTC())
		for _, e := range events {
			s.Publish(id, e)
		}
		if stop {
			if s.finish(id, l) {
				return
			}
			continue
		}
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.forget(id, l)
			return
		case <-timer.C:
		case <-l.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
	}
}

// finish unregisters the loop unless a wake arrived while the last tick ran.
func (s *RoomStore[T, E]) finish(id string, l *loop) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-l.wake:
		return false
	default:
	}
	if s.loops[id] == l {
		delete(s.loops, id)
	}
	return true
}

func (s *RoomStore[T, E]) forget(id string, l *loop) {
	s.mu.Lock()
	if s.loops[id] == l {
		delete(s.loops, id)
	}
	s.mu.Unlock()
}

// Wake unblocks the room's loop so it recomputes immediately. It reports
// false when no loop is registered. A loop that is about to stop sees the
// wake and keeps running.
func (s *RoomStore[T, E]) Wake(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loops[id]
	if !ok {
		return false
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}
