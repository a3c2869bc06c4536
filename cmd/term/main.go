// Command term plays one session in the terminal.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"cakechase/internal/config"
	"cakechase/internal/game"
	"cakechase/internal/sim"
)

var (
	styleField  = tcell.StyleDefault.Background(tcell.ColorBlack)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorPink).Background(tcell.ColorBlack)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
)

// tcellKeys maps the terminal's arrow keys onto the browser key names the
// simulation understands.
var tcellKeys = map[tcell.Key]string{
	tcell.KeyUp:    "ArrowUp",
	tcell.KeyDown:  "ArrowDown",
	tcell.KeyLeft:  "ArrowLeft",
	tcell.KeyRight: "ArrowRight",
}

type Term struct {
	screen  tcell.Screen
	session *game.Session
	cfg     sim.Config
}

func NewTerm(cfg sim.Config) (*Term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(styleField)
	screen.HideCursor()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Term{
		screen:  screen,
		session: game.NewSession("term", cfg, rng, time.Now()),
		cfg:     cfg,
	}, nil
}

// handleInput returns false when the player quits.
func (t *Term) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				_ = t.session.Restart(time.Now())
			}
			return true
		}
		if key, ok := tcellKeys[ev.Key()]; ok {
			_, _ = t.session.Move(key, time.Now())
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// cell scales a field position to a screen cell, leaving the top row for status.
func (t *Term) cell(p sim.Position) (int, int) {
	w, h := t.screen.Size()
	rows := h - 1
	if w < 1 || rows < 1 {
		return 0, 0
	}
	x := int(p.X / t.cfg.Width * float64(w))
	y := int(p.Y/t.cfg.Height*float64(rows)) + 1
	return min(max(x, 0), w-1), min(max(y, 1), h-1)
}

func (t *Term) draw() {
	snap := t.session.Snapshot()
	t.screen.Clear()

	w, _ := t.screen.Size()
	status := fmt.Sprintf(" Score: %d  ", snap.Score)
	switch snap.Status {
	case sim.StatusWon:
		status += "You got the cake! r: restart  q: quit"
	case sim.StatusLost:
		status += "Caught! r: restart  q: quit"
	default:
		status += "arrows: move  q: quit"
	}
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, 0, ' ', nil, styleStatus)
	}
	for i, r := range status {
		if i >= w {
			break
		}
		t.screen.SetContent(i, 0, r, nil, styleStatus)
	}

	tx, ty := t.cell(snap.Target)
	t.screen.SetContent(tx, ty, '◆', nil, styleTarget)
	for _, e := range snap.Enemies {
		ex, ey := t.cell(e)
		t.screen.SetContent(ex, ey, 'X', nil, styleEnemy)
	}
	px, py := t.cell(snap.Player)
	t.screen.SetContent(px, py, '@', nil, stylePlayer)
	t.screen.Show()
}

// run drives input and ticks from one goroutine, so the session only ever
// sees one caller at a time.
func (t *Term) run() {
	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// Fini was called.
				return
			}
			eventChan <- ev
		}
	}()

	t.draw()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleInput(ev) {
				return
			}
			t.draw()
		case now := <-ticker.C:
			if t.session.Advance(now) > 0 {
				t.draw()
			}
		}
	}
}

func (t *Term) cleanup() {
	t.session.Close()
	t.screen.Fini()
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("loading .env: %v", err)
	}
	cfg := config.Load()

	term, err := NewTerm(cfg.Game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer term.cleanup()

	term.run()
}
