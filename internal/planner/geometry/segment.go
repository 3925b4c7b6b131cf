package geometry

import "math"

// Segment is a directed line segment A→B.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

func (s Segment) Length() float64 {
	return Distance(s.A, s.B)
}

func (s Segment) Midpoint() Point {
	return Midpoint(s.A, s.B)
}

// Angle returns the direction of the segment in radians.
func (s Segment) Angle() float64 {
	return Angle(s.A, s.B)
}

func (s Segment) Direction() Point {
	return s.B.Sub(s.A)
}

// Degenerate reports whether the segment is shorter than Epsilon.
func (s Segment) Degenerate() bool {
	return s.Length() < Epsilon
}

func (s Segment) Reversed() Segment {
	return Segment{A: s.B, B: s.A}
}

// ClosestPointOnSegment projects p onto segment ab, clamping the parameter
// to [0, 1]. It returns the projected point and its distance to p.
func ClosestPointOnSegment(p, a, b Point) (Point, float64) {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < Epsilon*Epsilon {
		return a, Distance(p, a)
	}
	t := p.Sub(a).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	c := a.Add(d.Mul(t))
	return c, Distance(p, c)
}

// DistanceToSegment returns the distance from p to the segment ab.
func DistanceToSegment(p, a, b Point) float64 {
	_, d := ClosestPointOnSegment(p, a, b)
	return d
}

// ClosestPointOnLine projects p onto the infinite line through a and b.
// A degenerate line returns a.
func ClosestPointOnLine(p, a, b Point) Point {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < Epsilon*Epsilon {
		return a
	}
	t := p.Sub(a).Dot(d) / lenSq
	return a.Add(d.Mul(t))
}

// ProjectParam returns the unclamped parameter t of p projected on ab,
// where t=0 is a and t=1 is b.
func ProjectParam(p, a, b Point) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < Epsilon*Epsilon {
		return 0
	}
	return p.Sub(a).Dot(d) / lenSq
}

// LineIntersection intersects the infinite lines through (p1, p2) and (p3, p4).
// It reports false for parallel or degenerate lines.
func LineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	a1 := p2.Y - p1.Y
	b1 := p1.X - p2.X
	c1 := a1*p1.X + b1*p1.Y

	a2 := p4.Y - p3.Y
	b2 := p3.X - p4.X
	c2 := a2*p3.X + b2*p3.Y

	det := a1*b2 - a2*b1
	if math.Abs(det) < Epsilon {
		return Point{}, false
	}
	return Point{
		X: (b2*c1 - b1*c2) / det,
		Y: (a1*c2 - a2*c1) / det,
	}, true
}

// SegmentIntersection intersects two finite segments. Touching endpoints count.
func SegmentIntersection(s, t Segment, tol float64) (Point, bool) {
	p, ok := LineIntersection(s.A, s.B, t.A, t.B)
	if !ok {
		return Point{}, false
	}
	if !IsPointOnSegment(p, s.A, s.B, tol) || !IsPointOnSegment(p, t.A, t.B, tol) {
		return Point{}, false
	}
	return p, true
}

// IsPointOnSegment reports whether p lies on segment ab using the triangle
// inequality |ap| + |pb| ≈ |ab|. A non-positive tol means PointTolerance.
func IsPointOnSegment(p, a, b Point, tol float64) bool {
	if tol <= 0 {
		tol = PointTolerance
	}
	return math.Abs(Distance(a, p)+Distance(p, b)-Distance(a, b)) < tol
}

// Side returns the cross product sign of p relative to the directed line ab:
// positive on the left, negative on the right, zero on the line.
func Side(p, a, b Point) float64 {
	return b.Sub(a).Cross(p.Sub(a))
}

// PerpendicularDistance is the distance from p to the infinite line through a and b.
func PerpendicularDistance(p, a, b Point) float64 {
	l := Distance(a, b)
	if l < Epsilon {
		return Distance(p, a)
	}
	return math.Abs(Side(p, a, b)) / l
}
