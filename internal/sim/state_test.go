package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewState(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg, rand.New(rand.NewSource(1)))
	if s.Status != StatusPlaying {
		t.Errorf("Status %q, want %q", s.Status, StatusPlaying)
	}
	if s.Player != cfg.Center() {
		t.Errorf("Player %+v, want centre %+v", s.Player, cfg.Center())
	}
	if len(s.Enemies) != 4 {
		t.Fatalf("len(Enemies) %d, want 4", len(s.Enemies))
	}
	want := []Position{{100, 100}, {700, 100}, {100, 500}, {700, 500}}
	for i, e := range s.Enemies {
		if e != want[i] {
			t.Errorf("enemy %d at %+v, want %+v", i, e, want[i])
		}
	}
	if s.Score != 0 {
		t.Errorf("Score %d, want 0", s.Score)
	}
}

func TestNewState_TargetInBounds(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		s := NewState(cfg, rng)
		if s.Target.X < 0 || s.Target.X >= cfg.Width-cfg.TargetSize {
			t.Fatalf("target X %v out of [0, %v)", s.Target.X, cfg.Width-cfg.TargetSize)
		}
		if s.Target.Y < 0 || s.Target.Y >= cfg.Height-cfg.TargetSize {
			t.Fatalf("target Y %v out of [0, %v)", s.Target.Y, cfg.Height-cfg.TargetSize)
		}
	}
}

func TestState_ResetRestoresInitialValues(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg, rand.New(rand.NewSource(3)))
	initial := s.Clone()

	s = ApplyIntent(cfg, s, IntentLeft)
	for i := 0; i < 400 && s.Status == StatusPlaying; i++ {
		s = Tick(cfg, s)
	}
	if !s.Status.Terminal() {
		t.Fatalf("Status %q, want a terminal status before reset", s.Status)
	}

	s.Reset(cfg)
	if s.Status != StatusPlaying {
		t.Errorf("Status %q, want playing", s.Status)
	}
	if s.Score != 0 {
		t.Errorf("Score %d, want 0", s.Score)
	}
	if s.Player != initial.Player {
		t.Errorf("Player %+v, want %+v", s.Player, initial.Player)
	}
	for i := range initial.Enemies {
		if s.Enemies[i] != initial.Enemies[i] {
			t.Errorf("enemy %d at %+v, want %+v", i, s.Enemies[i], initial.Enemies[i])
		}
	}
	if s.Target != initial.Target {
		t.Errorf("Target %+v changed on reset, want %+v", s.Target, initial.Target)
	}
}

func TestState_ResetDoesNotAliasConfig(t *testing.T) {
	cfg := DefaultConfig()
	s := quietState(cfg)
	s.Enemies[0].X = -1
	if cfg.EnemyStarts[0].X == -1 {
		t.Error("state enemies share memory with the config")
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPlaying.Terminal() {
		t.Error("playing should not be terminal")
	}
	if !StatusWon.Terminal() || !StatusLost.Terminal() {
		t.Error("won and lost should be terminal")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.TickInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero tick interval should be rejected")
	}

	cfg = DefaultConfig()
	cfg.PlayerSize = cfg.Height + 1
	if err := cfg.Validate(); err == nil {
		t.Error("oversized player should be rejected")
	}

	cfg = DefaultConfig()
	cfg.EnemyStarts = nil
	if err := cfg.Validate(); err == nil {
		t.Error("missing enemies should be rejected")
	}

	cfg = DefaultConfig()
	cfg.EnemySpeed = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("stationary enemies should be allowed: %v", err)
	}
}

func TestConfig_ValidateRejectsNonFinite(t *testing.T) {
	cases := map[string]func(*Config){
		"NaN width":         func(c *Config) { c.Width = math.NaN() },
		"Inf height":        func(c *Config) { c.Height = math.Inf(1) },
		"NaN enemy size":    func(c *Config) { c.EnemySize = math.NaN() },
		"Inf player speed":  func(c *Config) { c.PlayerSpeed = math.Inf(1) },
		"-Inf enemy speed":  func(c *Config) { c.EnemySpeed = math.Inf(-1) },
		"NaN enemy start":   func(c *Config) { c.EnemyStarts = []Position{{X: math.NaN(), Y: 10}} },
		"NaN target size":   func(c *Config) { c.TargetSize = math.NaN() },
		"Inf player size":   func(c *Config) { c.PlayerSize = math.Inf(1) },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestConfig_ValidateEnemyStartsInField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnemyStarts = CornerStarts(cfg.Width, cfg.Height, 700)
	if err := cfg.Validate(); err == nil {
		t.Error("enemy starts outside the field should be rejected")
	}

	cfg.EnemyStarts = CornerStarts(cfg.Width, cfg.Height, 0)
	if err := cfg.Validate(); err != nil {
		t.Errorf("starts on the field edge should be allowed: %v", err)
	}
}

func TestIntentForKey(t *testing.T) {
	cases := map[string]Intent{
		"ArrowUp":    IntentUp,
		"ArrowDown":  IntentDown,
		"ArrowLeft":  IntentLeft,
		"ArrowRight": IntentRight,
		"up":         IntentUp,
		" Right ":    IntentRight,
	}
	for key, want := range cases {
		got, ok := IntentForKey(key)
		if !ok {
			t.Errorf("IntentForKey(%q) not recognised", key)
			continue
		}
		if got != want {
			t.Errorf("IntentForKey(%q) = %+v, want %+v", key, got, want)
		}
	}

	for _, key := range []string{"", "w", "Enter", "arrowup"} {
		if _, ok := IntentForKey(key); ok {
			t.Errorf("IntentForKey(%q) should be ignored", key)
		}
	}
}
