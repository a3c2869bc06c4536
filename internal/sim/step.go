package sim

// Move applies one intent to the player and clamps the result to the field.
func Move(cfg Config, p Position, in Intent) Position {
	half := cfg.PlayerHalf()
	return Position{
		X: clamp(p.X+in.DX*cfg.PlayerSpeed, half, cfg.Width-half),
		Y: clamp(p.Y+in.DY*cfg.PlayerSpeed, half, cfg.Height-half),
	}
}

// ApplyIntent moves the player while the session is playing.
func ApplyIntent(cfg Config, s State, in Intent) State {
	if s.Status != StatusPlaying {
		return s
	}
	next := s.Clone()
	next.Player = Move(cfg, s.Player, in)
	return next
}

// Tick advances one fixed interval: enemies pursue, the score grows, then
// loss and win are evaluated against the positions the tick started from.
// A loss beats a win reached in the same tick.
func Tick(cfg Config, s State) State {
	if s.Status != StatusPlaying {
		return s
	}

	next := s.Clone()
	for i, e := range s.Enemies {
		next.Enemies[i] = e.StepToward(s.Player, cfg.EnemySpeed)
	}
	next.Score++

	if caught(cfg, s) {
		next.Status = StatusLost
		return next
	}
	if s.Target.Distance(s.Player) < cfg.WinRange() {
		next.Status = StatusWon
	}
	return next
}

func caught(cfg Config, s State) bool {
	r := cfg.LossRange()
	for _, e := range s.Enemies {
		if e.Distance(s.Player) < r {
			return true
		}
	}
	return false
}
