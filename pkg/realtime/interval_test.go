package realtime

import (
	"testing"
	"time"
)

func TestInterval_NotStarted(t *testing.T) {
	iv := Interval{Period: 50 * time.Millisecond}
	if _, ok := iv.NextWake(time.Now()); ok {
		t.Error("NextWake should return false before Start")
	}
	if n := iv.Advance(time.Now()); n != 0 {
		t.Errorf("Advance %d, want 0", n)
	}
}

func TestInterval_NextWake(t *testing.T) {
	now := time.Now().UTC()
	iv := Interval{Period: 50 * time.Millisecond}
	iv.Start(now)

	next, ok := iv.NextWake(now)
	if !ok {
		t.Fatal("NextWake should return true when running")
	}
	if want := now.Add(50 * time.Millisecond); !next.Equal(want) {
		t.Errorf("next %v, want %v", next, want)
	}

	late := now.Add(time.Second)
	next, _ = iv.NextWake(late)
	if !next.Equal(late) {
		t.Errorf("overdue next %v, want now %v", next, late)
	}
}

func TestInterval_Advance(t *testing.T) {
	now := time.Now().UTC()
	iv := Interval{Period: 50 * time.Millisecond}
	iv.Start(now)

	if n := iv.Advance(now.Add(49 * time.Millisecond)); n != 0 {
		t.Errorf("Advance before period = %d, want 0", n)
	}
	if n := iv.Advance(now.Add(50 * time.Millisecond)); n != 1 {
		t.Errorf("Advance at period = %d, want 1", n)
	}
	if n := iv.Advance(now.Add(160 * time.Millisecond)); n != 2 {
		t.Errorf("Advance after two more periods = %d, want 2", n)
	}
	if want := now.Add(150 * time.Millisecond); !iv.Last.Equal(want) {
		t.Errorf("Last %v, want %v", iv.Last, want)
	}
}

func TestInterval_AdvanceCapsBacklog(t *testing.T) {
	now := time.Now().UTC()
	iv := Interval{Period: 50 * time.Millisecond}
	iv.Start(now)

	later := now.Add(10 * time.Second)
	if n := iv.Advance(later); n != MaxCatchUp {
		t.Errorf("Advance = %d, want %d", n, MaxCatchUp)
	}
	if !iv.Last.Equal(later) {
		t.Errorf("Last %v, want %v", iv.Last, later)
	}
}

func TestInterval_Stop(t *testing.T) {
	iv := Interval{Period: time.Second}
	iv.Start(time.Now())
	iv.Stop()
	if iv.Running() {
		t.Error("Running should be false after Stop")
	}
}
