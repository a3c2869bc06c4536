package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"cakechase/internal/sim"
	"cakechase/pkg/realtime"
)

// EventState is published whenever a session's snapshot changes.
const EventState = "state"

// Store holds sessions and delegates to realtime.RoomStore for loops and broadcast.
type Store struct {
	r   *realtime.RoomStore[*Session, string]
	cfg sim.Config
	ttl time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customizes a Store.
type Option func(*Store)

// WithRand sets the source used to place targets.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) {
		s.rng = rng
	}
}

// NewStore creates an in-memory session store. Sessions idle for longer than
// ttl are removed by Sweep; a zero ttl keeps them forever.
func NewStore(cfg sim.Config, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		r:   realtime.NewRoomStore[*Session, string](),
		cfg: cfg,
		ttl: ttl,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the tuning used for new sessions.
func (s *Store) Config() sim.Config {
	return s.cfg
}

// CreateSession starts a new session and its tick loop.
func (s *Store) CreateSession() *Session {
	s.rngMu.Lock()
	sess := NewSession(uuid.NewString(), s.cfg, s.rng, time.Now().UTC())
	s.rngMu.Unlock()
	target := sess.Snapshot().Target
	s.r.Create(sess.ID, sess)
	s.EnsureLoop(sess.ID)
	log.Printf("session created id=%s target=(%.1f,%.1f)", sess.ID, target.X, target.Y)
	return sess
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Broadcaster returns the event broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster[string], bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string) {
	s.r.Publish(id, EventState)
}

// Move applies a key press and publishes the new state when the player moved.
func (s *Store) Move(id string, key string) error {
	sess, ok := s.GetSession(id)
	if !ok {
		return ErrSessionNotFound
	}
	moved, err := sess.Move(key, time.Now().UTC())
	if err != nil {
		return err
	}
	if moved {
		s.Publish(id)
	}
	return nil
}

// Restart resets a session and makes sure its loop is ticking again.
func (s *Store) Restart(id string) error {
	sess, ok := s.GetSession(id)
	if !ok {
		return ErrSessionNotFound
	}
	if err := sess.Restart(time.Now().UTC()); err != nil {
		return err
	}
	s.EnsureLoop(id)
	s.Publish(id)
	log.Printf("session restarted id=%s", id)
	return nil
}

// EnsureLoop wakes the session's tick loop, or starts one when none is
// running. The loop exits by itself once the session is won or lost.
func (s *Store) EnsureLoop(id string) {
	if s.r.Wake(id) {
		return
	}
	tick := func(sess *Session, now time.Time) (time.Time, []string, bool) {
		ran := sess.Advance(now)
		var events []string
		if ran > 0 {
			events = []string{EventState}
		}
		next, ok := sess.NextTimer(now)
		if !ok {
			snap := sess.Snapshot()
			log.Printf("session finished id=%s status=%s score=%d", sess.ID, snap.Status, snap.Score)
			return time.Time{}, events, true
		}
		return next, events, false
	}
	s.r.RunLoop(id, tick)
}

// Looping reports whether the session's tick loop is running.
func (s *Store) Looping(id string) bool {
	return s.r.Looping(id)
}

// Close tears a session down: the loop stops and every listener is detached.
func (s *Store) Close(id string) bool {
	sess, ok := s.GetSession(id)
	if !ok {
		return false
	}
	sess.Close()
	s.r.Delete(id)
	log.Printf("session closed id=%s", id)
	return true
}

// Sweep closes sessions idle since before now-ttl and returns how many it closed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	closed := 0
	for _, id := range s.r.IDs() {
		sess, ok := s.GetSession(id)
		if !ok {
			continue
		}
		if now.Sub(sess.IdleSince()) > s.ttl && s.Close(id) {
			closed++
		}
	}
	return closed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return len(s.r.IDs())
}
