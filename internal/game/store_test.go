package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"cakechase/internal/sim"
)

func fastConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.TickInterval = time.Millisecond
	return cfg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewStore(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute)
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestStore_CreateSession_GetSession(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute)
	sess := s.CreateSession()
	defer s.Close(sess.ID)
	if sess.ID == "" {
		t.Fatal("session ID is empty")
	}

	got, ok := s.GetSession(sess.ID)
	if !ok {
		t.Fatal("GetSession returned false for existing session")
	}
	if got != sess {
		t.Error("GetSession returned different pointer")
	}
	if _, ok := s.GetSession("nonexistent"); ok {
		t.Error("GetSession should return false for missing ID")
	}
	if !s.Looping(sess.ID) {
		t.Error("tick loop should start with the session")
	}

	other := s.CreateSession()
	defer s.Close(other.ID)
	if other.ID == sess.ID {
		t.Error("sessions should get distinct IDs")
	}
}

func TestStore_LoopPublishesAndStopsOnFinish(t *testing.T) {
	s := NewStore(fastConfig(), time.Minute)
	sess := s.CreateSession()
	defer s.Close(sess.ID)

	hub, ok := s.Broadcaster(sess.ID)
	if !ok {
		t.Fatal("Broadcaster missing for new session")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	select {
	case ev := <-ch:
		if ev != EventState {
			t.Errorf("event %q, want %q", ev, EventState)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no state event from the tick loop")
	}

	waitFor(t, func() bool { return sess.Snapshot().Status.Terminal() })
	waitFor(t, func() bool { return !s.Looping(sess.ID) })

	score := sess.Snapshot().Score
	time.Sleep(10 * time.Millisecond)
	if got := sess.Snapshot().Score; got != score {
		t.Errorf("score moved from %d to %d after the session finished", score, got)
	}
}

func TestStore_RestartRestartsLoop(t *testing.T) {
	s := NewStore(fastConfig(), time.Minute)
	sess := s.CreateSession()
	defer s.Close(sess.ID)

	waitFor(t, func() bool { return !s.Looping(sess.ID) })

	if err := s.Restart(sess.ID); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if sess.Snapshot().Closed {
		t.Fatal("session closed by restart")
	}
	waitFor(t, func() bool { return sess.Snapshot().Status.Terminal() })
	waitFor(t, func() bool { return !s.Looping(sess.ID) })
}

func TestStore_Move(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute)
	sess := s.CreateSession()
	defer s.Close(sess.ID)

	if err := s.Move(sess.ID, "ArrowLeft"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := s.Move(sess.ID, "Space"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("err %v, want ErrUnknownKey", err)
	}
	if err := s.Move("missing", "ArrowLeft"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err %v, want ErrSessionNotFound", err)
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute)
	sess := s.CreateSession()
	hub, _ := s.Broadcaster(sess.ID)
	ch := hub.Subscribe()

	if !s.Close(sess.ID) {
		t.Fatal("Close returned false for existing session")
	}
	if _, open := <-ch; open {
		t.Error("listeners should be detached on Close")
	}
	if !sess.Snapshot().Closed {
		t.Error("session should be marked closed")
	}
	if _, ok := s.GetSession(sess.ID); ok {
		t.Error("session should be removed from the store")
	}
	waitFor(t, func() bool { return !s.Looping(sess.ID) })
	if s.Close(sess.ID) {
		t.Error("second Close should return false")
	}
}

func TestStore_Sweep(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute)
	idle := s.CreateSession()
	fresh := s.CreateSession()
	defer s.Close(fresh.ID)

	now := time.Now().UTC()
	idle.mu.Lock()
	idle.lastActive = now.Add(-2 * time.Minute)
	idle.mu.Unlock()

	if n := s.Sweep(now); n != 1 {
		t.Errorf("Sweep closed %d sessions, want 1", n)
	}
	if _, ok := s.GetSession(idle.ID); ok {
		t.Error("idle session should be swept")
	}
	if _, ok := s.GetSession(fresh.ID); !ok {
		t.Error("fresh session should survive the sweep")
	}
}

type cornerSource struct{}

func (cornerSource) Int63() int64 { return 0 }
func (cornerSource) Seed(int64)   {}

func TestStore_WithRand(t *testing.T) {
	s := NewStore(sim.DefaultConfig(), time.Minute, WithRand(rand.New(cornerSource{})))
	sess := s.CreateSession()
	defer s.Close(sess.ID)
	if got := sess.Snapshot().Target; got != (sim.Position{}) {
		t.Errorf("Target %+v, want the corner", got)
	}
}
