package config

import (
	"errors"
	"io/fs"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cakechase/internal/sim"
)

// Config holds server settings and the game tuning, loaded from the environment.
type Config struct {
	Addr        string
	BaseURL     string
	CORSOrigins []string
	SessionTTL  time.Duration
	Game        sim.Config
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		present = append(present, f)
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return err
	}
	log.Printf("loaded environment from %s", strings.Join(present, ", "))
	return nil
}

// Load reads the configuration from environment variables. Values that do
// not parse or fail validation fall back to defaults with a warning.
func Load() Config {
	def := sim.DefaultConfig()
	game := sim.Config{
		Width:        getFloat("FIELD_WIDTH", def.Width),
		Height:       getFloat("FIELD_HEIGHT", def.Height),
		PlayerSize:   getFloat("PLAYER_SIZE", def.PlayerSize),
		EnemySize:    getFloat("ENEMY_SIZE", def.EnemySize),
		TargetSize:   getFloat("TARGET_SIZE", def.TargetSize),
		PlayerSpeed:  getFloat("PLAYER_SPEED", def.PlayerSpeed),
		EnemySpeed:   getFloat("ENEMY_SPEED", def.EnemySpeed),
		TickInterval: parseDuration(getEnv("TICK_INTERVAL", def.TickInterval.String()), def.TickInterval),
	}
	inset := getFloat("ENEMY_INSET", sim.DefaultEnemyInset)
	game.EnemyStarts = sim.CornerStarts(game.Width, game.Height, inset)
	if err := game.Validate(); err != nil {
		log.Printf("[WARN] invalid game tuning (%v); using defaults", err)
		game = def
	}

	cfg := Config{
		Addr:        ":" + getEnv("PORT", "8080"),
		BaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_URL")), "/"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		SessionTTL:  parseDuration(getEnv("SESSION_TTL", "30m"), 30*time.Minute),
		Game:        game,
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		log.Printf("[WARN] %s=%q is not a finite number; using %v", key, v, def)
		return def
	}
	return f
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("[WARN] %q is not a duration; using %v", s, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
