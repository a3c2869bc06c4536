package realtime

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string, string]()
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}

	s.Publish("missing", "ignored")
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	if !s.Delete("r1") {
		t.Fatal("Delete returned false for existing room")
	}
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed by Delete")
	}
	if _, ok := s.Get("r1"); ok {
		t.Error("room should be gone after Delete")
	}
	if s.Delete("r1") {
		t.Error("second Delete should return false")
	}
}

func TestRoomStore_RunLoop_StopsWhenTold(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	var calls atomic.Int32
	s.RunLoop("r1", func(state string, now time.Time) (time.Time, []string, bool) {
		n := calls.Add(1)
		return now.Add(time.Millisecond), []string{"tick"}, n >= 3
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}
	deadline := time.Now().Add(time.Second)
	for s.Looping("r1") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Looping("r1") {
		t.Error("loop should have stopped")
	}
}

func TestRoomStore_RunLoop_IgnoresMissingRoom(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.RunLoop("missing", func(string, time.Time) (time.Time, []string, bool) {
		t.Error("tick should not run for a missing room")
		return time.Time{}, nil, true
	})
	if s.Looping("missing") {
		t.Error("no loop should be registered for a missing room")
	}
}

func TestRoomStore_DeleteCancelsLoop(t *testing.T) {
	s := NewRoomStore[string, string]()
	s.Create("r1", "x")
	s.RunLoop("r1", func(state string, now time.Time) (time.Time, []string, bool) {
		return now.Add(time.Hour), nil, false
	})
	if !s.Looping("r1") {
		t.Fatal("loop should be running")
	}
	s.Delete("r1")

	deadline := time.Now().Add(time.Second)
	for s.Looping("r1") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Looping("r1") {
		t.Error("Delete should cancel the loop")
	}
}

func TestRoomStore_Wake(t *testing.T) {
	s := NewRoomStore[string, string]()
	if s.Wake("nonexistent") {
		t.Error("Wake should report false without a loop")
	}

	s.Create("r1", "x")
	defer s.Delete("r1")
	calls := make(chan struct{}, 4)
	tick := func(state string, now time.Time) (time.Time, []string, bool) {
		calls <- struct{}{}
		return now.Add(time.Hour), nil, false
	}
	if !s.RunLoop("r1", tick) {
		t.Fatal("RunLoop should start a loop")
	}
	if s.RunLoop("r1", tick) {
		t.Error("second RunLoop should not start another loop")
	}
	<-calls

	if !s.Wake("r1") {
		t.Fatal("Wake should find the running loop")
	}
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("Wake did not re-run the tick")
	}
}
