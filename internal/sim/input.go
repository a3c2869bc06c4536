package sim

import "strings"

// Intent is a unit step requested by one key press.
type Intent struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

var (
	IntentUp    = Intent{DX: 0, DY: -1}
	IntentDown  = Intent{DX: 0, DY: 1}
	IntentLeft  = Intent{DX: -1, DY: 0}
	IntentRight = Intent{DX: 1, DY: 0}
)

// IntentForKey maps a DOM key name (or its short form) to an intent.
// Keys outside the four directions report false and are ignored.
func IntentForKey(key string) (Intent, bool) {
	switch key {
	case "ArrowUp":
		return IntentUp, true
	case "ArrowDown":
		return IntentDown, true
	case "ArrowLeft":
		return IntentLeft, true
	case "ArrowRight":
		return IntentRight, true
	}
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "up":
		return IntentUp, true
	case "down":
		return IntentDown, true
	case "left":
		return IntentLeft, true
	case "right":
		return IntentRight, true
	}
	return Intent{}, false
}
