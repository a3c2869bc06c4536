package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cakechase/internal/viewmodel"
)

func render(t *testing.T, data viewmodel.Scoreboard) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Scoreboard(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestScoreboard_Playing(t *testing.T) {
	html := render(t, viewmodel.Scoreboard{SessionID: "s1", Score: 12, Status: "playing", Message: Message("playing")})
	if !strings.Contains(html, "Score: 12") {
		t.Errorf("missing score in %q", html)
	}
	if strings.Contains(html, "banner") {
		t.Errorf("banner shown while playing: %q", html)
	}
}

func TestScoreboard_Finished(t *testing.T) {
	html := render(t, viewmodel.Scoreboard{SessionID: "s1", Score: 40, Status: "lost", Message: Message("lost")})
	for _, want := range []string{
		`data-status="lost"`,
		`data-outcome="lost"`,
		"Caught! Game over.",
		`action="/session/s1/restart"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("scoreboard missing %q in %q", want, html)
		}
	}
}

func TestScoreboard_EscapesSessionID(t *testing.T) {
	html := render(t, viewmodel.Scoreboard{SessionID: `"><x`, Status: "won", Message: Message("won")})
	if strings.Contains(html, `"><x`) {
		t.Errorf("session id not escaped: %q", html)
	}
}

func TestMessage(t *testing.T) {
	if Message("won") == "" || Message("lost") == "" {
		t.Error("terminal statuses need a message")
	}
	if Message("playing") != "" {
		t.Error("playing should have no message")
	}
}
