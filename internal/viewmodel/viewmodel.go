package viewmodel

// HomePage holds data for the landing page.
type HomePage struct {
	Title    string
	Sessions int
}

// GamePage holds data for the main game page template.
type GamePage struct {
	Title        string
	SessionID    string
	ShareURL     string
	StreamURL    string
	SocketURL    string
	Width        float64
	Height       float64
	PlayerSize   float64
	EnemySize    float64
	TargetSize   float64
	TickMs       int64
	InitialState any // snapshot, embedded as a JSON script
}

// Scoreboard holds data for the score/status fragment.
type Scoreboard struct {
	SessionID string
	Score     int
	Status    string
	Message   string
}
