package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"cakechase/internal/sim"
	"cakechase/pkg/realtime"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrUnknownKey      = errors.New("unknown key")
)

// Session owns one simulation and the clock that drives it.
type Session struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	Config    sim.Config

	lastActive time.Time
	clock      realtime.Interval
	state      sim.State
	closed     bool
}

// NewSession creates a playing session whose target is drawn from rng.
// The clock starts at now.
func NewSession(id string, cfg sim.Config, rng *rand.Rand, now time.Time) *Session {
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		Config:     cfg,
		lastActive: now,
		clock:      realtime.Interval{Period: cfg.TickInterval},
		state:      sim.NewState(cfg, rng),
	}
	s.clock.Start(now)
	return s
}

// Move applies the intent for key. It reports whether the player moved.
func (s *Session) Move(key string, now time.Time) (bool, error) {
	in, ok := sim.IntentForKey(key)
	if !ok {
		return false, ErrUnknownKey
	}
	return s.Apply(in, now)
}

// Apply moves the player by one intent.
func (s *Session) Apply(in sim.Intent, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	s.lastActive = now
	before := s.state.Player
	s.state = sim.ApplyIntent(s.Config, s.state, in)
	return s.state.Player != before, nil
}

// Restart resets the simulation and restarts the clock. The target stays put.
func (s *Session) Restart(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastActive = now
	s.state.Reset(s.Config)
	s.clock.Start(now)
	return nil
}

// Advance runs every tick that is due at now and returns how many ran.
// The clock stops once the session reaches a terminal status.
func (s *Session) Advance(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	due := s.clock.Advance(now)
	ran := 0
	for ; ran < due; ran++ {
		if s.state.Status.Terminal() {
			break
		}
		s.state = sim.Tick(s.Config, s.state)
	}
	if s.state.Status.Terminal() {
		s.clock.Stop()
	}
	return ran
}

// NextTimer returns when the next tick is due, and false when the session is
// finished or closed.
func (s *Session) NextTimer(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.Status.Terminal() {
		return time.Time{}, false
	}
	return s.clock.NextWake(now)
}

// Close detaches the session; later moves and restarts fail.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.clock.Stop()
	s.mu.Unlock()
}

// IdleSince returns the last time a player acted on the session.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Field describes the playfield for renderers.
type Field struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PlayerSize float64 `json:"playerSize"`
	EnemySize  float64 `json:"enemySize"`
	TargetSize float64 `json:"targetSize"`
}

// Snapshot captures the state needed by the presentation layer.
type Snapshot struct {
	ID      string         `json:"id"`
	Status  sim.Status     `json:"status"`
	Score   int            `json:"score"`
	Player  sim.Position   `json:"player"`
	Enemies []sim.Position `json:"enemies"`
	Target  sim.Position   `json:"target"`
	Field   Field          `json:"field"`
	Closed  bool           `json:"closed"`
}

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Clone()
	return Snapshot{
		ID:      s.ID,
		Status:  st.Status,
		Score:   st.Score,
		Player:  st.Player,
		Enemies: st.Enemies,
		Target:  st.Target,
		Field: Field{
			Width:      s.Config.Width,
			Height:     s.Config.Height,
			PlayerSize: s.Config.PlayerSize,
			EnemySize:  s.Config.EnemySize,
			TargetSize: s.Config.TargetSize,
		},
		Closed: s.closed,
	}
}
