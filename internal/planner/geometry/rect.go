package geometry

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Bounds returns the bounding box of the points; ok is false when empty.
func Bounds(points ...Point) (r Rect, ok bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	r = Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, true
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Point {
	return Midpoint(r.Min, r.Max)
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - m, Y: r.Min.Y - m},
		Max: Point{X: r.Max.X + m, Y: r.Max.Y + m},
	}
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ClipLineToRect extends the infinite line through a and b to the rectangle
// and returns the two boundary points (Liang–Barsky with an unbounded
// parameter range). ok is false when the line misses the rectangle or a == b.
func ClipLineToRect(a, b Point, r Rect) (Point, Point, bool) {
	d := b.Sub(a)
	if d.Length() < Epsilon {
		return Point{}, Point{}, false
	}
	t0, t1 := math.Inf(-1), math.Inf(1)
	clip := func(p, q float64) bool {
		if math.Abs(p) < Epsilon {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		return true
	}
	if !clip(-d.X, a.X-r.Min.X) || !clip(d.X, r.Max.X-a.X) ||
		!clip(-d.Y, a.Y-r.Min.Y) || !clip(d.Y, r.Max.Y-a.Y) {
		return Point{}, Point{}, false
	}
	if t0 > t1 || math.IsInf(t0, 0) || math.IsInf(t1, 0) {
		return Point{}, Point{}, false
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}
