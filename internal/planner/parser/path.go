package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"floorplanner/internal/planner/geometry"
)

var ErrEmptyPath = errors.New("empty path")

var (
	commandRe = regexp.MustCompile(`([MmLlHhVvZzCcSsQqTtAa])([^MmLlHhVvZzCcSsQqTtAa]*)`)
	numberRe  = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ============================================================
// Path Parser
// ============================================================

// ParsePath парсит SVG path (M, L, H, V, Z в абсолютной и относительной
// форме) в список точек. closed выставляется, если путь заканчивается Z;
// замыкающая точка в список не добавляется. Кривые (C, S, Q, T, A)
// заменяются отрезком до своей конечной точки.
func ParsePath(d string) (points []geometry.Point, closed bool, err error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, false, ErrEmptyPath
	}

	var cur, start geometry.Point
	push := func(p geometry.Point) {
		cur = p
		points = append(points, p)
	}

	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		args := parseCoords(match[2])
		relative := strings.ToLower(cmd) == cmd

		switch strings.ToUpper(cmd) {
		case "M", "L":
			// Extra pairs after a moveto are implicit linetos.
			for i := 0; i+1 < len(args); i += 2 {
				p := geometry.Pt(args[i], args[i+1])
				if relative {
					p = cur.Add(p)
				}
				push(p)
				if i == 0 && (cmd == "M" || cmd == "m") {
					start = p
				}
			}
		case "H":
			for _, x := range args {
				if relative {
					x += cur.X
				}
				push(geometry.Pt(x, cur.Y))
			}
		case "V":
			for _, y := range args {
				if relative {
					y += cur.Y
				}
				push(geometry.Pt(cur.X, y))
			}
		case "Z":
			closed = true
			cur = start
		default:
			if n := len(args); n >= 2 {
				p := geometry.Pt(args[n-2], args[n-1])
				if relative {
					p = cur.Add(p)
				}
				push(p)
			}
		}
	}

	if closed && len(points) > 1 && points[len(points)-1].Equal(points[0], geometry.PointTolerance) {
		points = points[:len(points)-1]
	}
	if len(points) == 0 {
		return nil, false, ErrEmptyPath
	}
	return points, closed, nil
}

func parseCoords(s string) []float64 {
	var coords []float64
	for _, part := range numberRe.FindAllString(s, -1) {
		if val, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
