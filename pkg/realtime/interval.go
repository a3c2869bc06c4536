package realtime

import "time"

// MaxCatchUp bounds how many missed periods Advance reports at once, so a
// stalled loop resumes instead of replaying a long backlog.
const MaxCatchUp = 5

// Interval is a fixed-period schedule. The zero value is stopped.
type Interval struct {
	Period time.Duration
	Last   time.Time
}

// Start anchors the schedule at now.
func (iv *Interval) Start(now time.Time) {
	iv.Last = now
}

// Stop clears the schedule.
func (iv *Interval) Stop() {
	iv.Last = time.Time{}
}

// Running reports whether the schedule has been started.
func (iv *Interval) Running() bool {
	return !iv.Last.IsZero() && iv.Period > 0
}

// NextWake returns when the next period elapses, and false when stopped.
func (iv *Interval) NextWake(now time.Time) (time.Time, bool) {
	if !iv.Running() {
		return time.Time{}, false
	}
	next := iv.Last.Add(iv.Period)
	if next.Before(now) {
		return now, true
	}
	return next, true
}

// Advance returns the number of whole periods elapsed since the last call
// (at most MaxCatchUp) and moves the anchor forward.
func (iv *Interval) Advance(now time.Time) int {
	if !iv.Running() || now.Before(iv.Last.Add(iv.Period)) {
		return 0
	}
	n := int(now.Sub(iv.Last) / iv.Period)
	if n > MaxCatchUp {
		iv.Last = now
		return MaxCatchUp
	}
	iv.Last = iv.Last.Add(time.Duration(n) * iv.Period)
	return n
}
