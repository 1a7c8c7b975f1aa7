package tactical

import "math"

// Vec2 is a 2-D world-space position or displacement.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the vector's magnitude.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned obstacle footprint (world coords, top-left origin).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// rayRectHitT returns the first segment parameter t in [0,1] where the line
// from a to b enters the rectangle. The bool is false when no hit exists.
func rayRectHitT(a, b Vec2, r Rect) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if a.X < r.X || a.X > r.X+r.W {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.X - a.X) * invD
		t2 := (r.X + r.W - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if a.Y < r.Y || a.Y > r.Y+r.H {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (r.Y - a.Y) * invD
		t2 := (r.Y + r.H - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

// BlockingObstacle returns the index of the first obstacle intersected by the
// segment a->b (nearest to a), or -1 when the segment is clear.
func BlockingObstacle(a, b Vec2, obstacles []Rect) int {
	best := -1
	bestT := math.MaxFloat64
	for i, r := range obstacles {
		if t, hit := rayRectHitT(a, b, r); hit && t < bestT {
			bestT = t
			best = i
		}
	}
	return best
}

// HasLineOfSight reports whether the straight line from a to b is clear of
// every obstacle.
func HasLineOfSight(a, b Vec2, obstacles []Rect) bool {
	return BlockingObstacle(a, b, obstacles) == -1
}

// clamp01 clamps x into [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
