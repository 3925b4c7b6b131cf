package geometry

// ============================================================
// Path offset with miter joins
// ============================================================

// OffsetPath returns a copy of the path pushed sideways by offset.
//
// A positive offset moves to the right of the travel direction, which is the
// outside of a loop with positive signed area. Interior vertices get a miter
// join: the intersection of the two adjacent offset segments. When the
// segments are parallel the outgoing segment's offset point is used instead.
// Open paths keep the single-segment offset at their ends.
//
// The result has near-duplicate points removed; closed results never repeat
// the first point at the end.
func OffsetPath(points []Point, offset float64, closed bool) []Point {
	n := len(points)
	if n < 2 || offset == 0 {
		return Clone(points)
	}

	if n == 2 && !closed {
		d := points[1].Sub(points[0]).RightNormal().Mul(offset)
		return []Point{points[0].Add(d), points[1].Add(d)}
	}

	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		cur := points[i]

		if !closed && i == 0 {
			out = append(out, cur.Add(points[1].Sub(cur).RightNormal().Mul(offset)))
			continue
		}
		if !closed && i == n-1 {
			out = append(out, cur.Add(cur.Sub(points[n-2]).RightNormal().Mul(offset)))
			continue
		}

		out = append(out, miterPoint(points[Prev(i, n)], cur, points[Next(i, n)], offset))
	}

	return Dedupe(out, PointTolerance, closed)
}

// miterPoint offsets the corner prev→cur→next.
func miterPoint(prev, cur, next Point, offset float64) Point {
	in := cur.Sub(prev)
	outDir := next.Sub(cur)
	inDegenerate := in.Length() < Epsilon
	outDegenerate := outDir.Length() < Epsilon

	switch {
	case inDegenerate && outDegenerate:
		return cur
	case inDegenerate:
		return cur.Add(outDir.RightNormal().Mul(offset))
	case outDegenerate:
		return cur.Add(in.RightNormal().Mul(offset))
	}

	inN := in.RightNormal().Mul(offset)
	outN := outDir.RightNormal().Mul(offset)

	p, ok := LineIntersection(prev.Add(inN), cur.Add(inN), cur.Add(outN), next.Add(outN))
	if !ok {
		return cur.Add(outN)
	}
	return p
}
