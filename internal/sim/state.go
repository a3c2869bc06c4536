package sim

import "math/rand"

// Status is the session outcome.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether the simulation is frozen until Reset.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// State is the whole simulation: player, enemies, target, score and status.
type State struct {
	Player  Position   `json:"player"`
	Enemies []Position `json:"enemies"`
	Target  Position   `json:"target"`
	Score   int        `json:"score"`
	Status  Status     `json:"status"`
}

// NewState builds the initial state and draws the target once from rng.
func NewState(cfg Config, rng *rand.Rand) State {
	s := State{
		Target: Position{
			X: rng.Float64() * (cfg.Width - cfg.TargetSize),
			Y: rng.Float64() * (cfg.Height - cfg.TargetSize),
		},
	}
	s.Reset(cfg)
	return s
}

// Reset restores the player, enemies, score and status. The target is kept.
func (s *State) Reset(cfg Config) {
	s.Player = cfg.Center()
	s.Enemies = append([]Position(nil), cfg.EnemyStarts...)
	s.Score = 0
	s.Status = StatusPlaying
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	out.Enemies = append([]Position(nil), s.Enemies...)
	return out
}
