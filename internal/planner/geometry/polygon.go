package geometry

import "math"

// ============================================================
// Cyclic indexing
// ============================================================

// Next returns the index after i in a cyclic sequence of n items.
func Next(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

// Prev returns the index before i in a cyclic sequence of n items.
func Prev(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i - 1 + n) % n
}

// EdgeCount is the number of edges of a path: n for a closed loop, n-1 otherwise.
func EdgeCount(n int, closed bool) int {
	if n < 2 {
		return 0
	}
	if closed {
		return n
	}
	return n - 1
}

// Edge returns edge i of a path. For closed paths the last edge wraps to 0.
func Edge(points []Point, i int) Segment {
	return Segment{A: points[i], B: points[Next(i, len(points))]}
}

// Edges lists the edges of a path in drawing order.
func Edges(points []Point, closed bool) []Segment {
	n := EdgeCount(len(points), closed)
	out := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Edge(points, i))
	}
	return out
}

// ============================================================
// Polygon measures
// ============================================================

// SignedAreaTwice returns twice the signed (shoelace) area. Positive means
// counter-clockwise in a y-up frame.
func SignedAreaTwice(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		j := Next(i, n)
		s += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return s
}

func SignedArea(points []Point) float64 {
	return SignedAreaTwice(points) / 2
}

// PolygonArea is the absolute area enclosed by the loop.
func PolygonArea(points []Point) float64 {
	return math.Abs(SignedArea(points))
}

// IsCCW reports whether the loop has positive signed area.
func IsCCW(points []Point) bool {
	return SignedAreaTwice(points) > 0
}

// Centroid returns the area-weighted centroid. Fewer than three points or a
// degenerate area fall back to the arithmetic mean.
func Centroid(points []Point) Point {
	n := len(points)
	if n == 0 {
		return Point{}
	}
	a2 := SignedAreaTwice(points)
	if n < 3 || math.Abs(a2) < Epsilon {
		var c Point
		for _, p := range points {
			c = c.Add(p)
		}
		return c.Mul(1 / float64(n))
	}
	var cx, cy float64
	for i := 0; i < n; i++ {
		j := Next(i, n)
		f := points[i].X*points[j].Y - points[j].X*points[i].Y
		cx += (points[i].X + points[j].X) * f
		cy += (points[i].Y + points[j].Y) * f
	}
	return Point{X: cx / (3 * a2), Y: cy / (3 * a2)}
}

// PointInPolygon tests p against the loop by ray-casting parity.
// Points exactly on the boundary are unspecified.
func PointInPolygon(p Point, poly []Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// ============================================================
// Point list helpers
// ============================================================

// Clone copies a point slice; nil stays nil.
func Clone(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Reverse returns a reversed copy.
func Reverse(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// Translate returns a copy moved by d.
func Translate(points []Point, d Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(d)
	}
	return out
}

// EnsureCCW returns the loop with positive winding (a copy).
func EnsureCCW(points []Point) []Point {
	if SignedAreaTwice(points) < 0 {
		return Reverse(points)
	}
	return Clone(points)
}

// EnsureCW returns the loop with negative winding (a copy).
func EnsureCW(points []Point) []Point {
	if SignedAreaTwice(points) > 0 {
		return Reverse(points)
	}
	return Clone(points)
}

// EdgeMidpoints returns the midpoint of every edge.
func EdgeMidpoints(points []Point, closed bool) []Point {
	edges := Edges(points, closed)
	out := make([]Point, len(edges))
	for i, e := range edges {
		out[i] = e.Midpoint()
	}
	return out
}

// Dedupe drops consecutive points closer than tol. When closed is set a
// trailing point equal to the first one is dropped too.
func Dedupe(points []Point, tol float64, closed bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && Distance(out[len(out)-1], p) < tol {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && Distance(out[0], out[len(out)-1]) < tol {
		out = out[:len(out)-1]
	}
	return out
}

// ClosestPointOnPath finds the nearest point on any edge of the path and the
// index of that edge. ok is false for paths with fewer than two points.
func ClosestPointOnPath(p Point, path []Point, closed bool) (pt Point, edge int, dist float64, ok bool) {
	dist = math.Inf(1)
	for i, e := range Edges(path, closed) {
		c, d := ClosestPointOnSegment(p, e.A, e.B)
		if d < dist {
			pt, edge, dist, ok = c, i, d, true
		}
	}
	return pt, edge, dist, ok
}
