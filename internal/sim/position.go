package sim

import "math"

// Position is a point on the playfield.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// StepToward moves p a fixed distance toward q. When p and q coincide the
// direction is undefined and p is returned unchanged.
func (p Position) StepToward(q Position, step float64) Position {
	dx := q.X - p.X
	dy := q.Y - p.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return p
	}
	return Position{
		X: p.X + dx/dist*step,
		Y: p.Y + dy/dist*step,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
