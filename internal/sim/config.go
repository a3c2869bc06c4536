package sim

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Defaults for a standard 800x600 field.
const (
	DefaultWidth        = 800.0
	DefaultHeight       = 600.0
	DefaultPlayerSize   = 50.0
	DefaultEnemySize    = 60.0
	DefaultTargetSize   = 70.0
	DefaultPlayerSpeed  = 5.0 // per intent
	DefaultEnemySpeed   = 2.0 // per tick
	DefaultEnemyInset   = 100.0
	DefaultTickInterval = 50 * time.Millisecond
)

// Config holds the fixed tuning of one session. Sizes are diameters.
type Config struct {
	Width        float64
	Height       float64
	PlayerSize   float64
	EnemySize    float64
	TargetSize   float64
	PlayerSpeed  float64
	EnemySpeed   float64
	TickInterval time.Duration
	EnemyStarts  []Position
}

// DefaultConfig returns the standard tuning with four enemies inset from the corners.
func DefaultConfig() Config {
	cfg := Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		PlayerSize:   DefaultPlayerSize,
		EnemySize:    DefaultEnemySize,
		TargetSize:   DefaultTargetSize,
		PlayerSpeed:  DefaultPlayerSpeed,
		EnemySpeed:   DefaultEnemySpeed,
		TickInterval: DefaultTickInterval,
	}
	cfg.EnemyStarts = CornerStarts(cfg.Width, cfg.Height, DefaultEnemyInset)
	return cfg
}

// CornerStarts places one enemy near each corner, inset on both axes.
func CornerStarts(width, height, inset float64) []Position {
	return []Position{
		{X: inset, Y: inset},
		{X: width - inset, Y: inset},
		{X: inset, Y: height - inset},
		{X: width - inset, Y: height - inset},
	}
}

// Validate reports the first tuning value that cannot drive a session.
func (c Config) Validate() error {
	for _, v := range []float64{c.Width, c.Height, c.PlayerSize, c.EnemySize, c.TargetSize, c.PlayerSpeed, c.EnemySpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("tuning values must be finite")
		}
	}
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.New("field dimensions must be positive")
	case c.PlayerSize <= 0 || c.EnemySize <= 0 || c.TargetSize <= 0:
		return errors.New("entity sizes must be positive")
	case c.PlayerSize > c.Width || c.PlayerSize > c.Height:
		return errors.New("player does not fit in the field")
	case c.TargetSize > c.Width || c.TargetSize > c.Height:
		return errors.New("target does not fit in the field")
	case c.PlayerSpeed <= 0:
		return errors.New("player speed must be positive")
	case c.EnemySpeed < 0:
		return errors.New("enemy speed must not be negative")
	case c.TickInterval <= 0:
		return errors.New("tick interval must be positive")
	case len(c.EnemyStarts) == 0:
		return errors.New("at least one enemy start is required")
	}
	for _, p := range c.EnemyStarts {
		if !(p.X >= 0 && p.X <= c.Width && p.Y >= 0 && p.Y <= c.Height) {
			return fmt.Errorf("enemy start (%g, %g) is outside the field", p.X, p.Y)
		}
	}
	return nil
}

// PlayerHalf is the clamping margin for the player.
func (c Config) PlayerHalf() float64 {
	return c.PlayerSize / 2
}

// LossRange is the centre distance below which an enemy catches the player.
func (c Config) LossRange() float64 {
	return (c.PlayerSize + c.EnemySize) / 2
}

// WinRange is the centre distance below which the player reaches the target.
func (c Config) WinRange() float64 {
	return (c.PlayerSize + c.TargetSize) / 2
}

// Center is the player's starting position.
func (c Config) Center() Position {
	return Position{X: c.Width / 2, Y: c.Height / 2}
}
