package scene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrBadPath is returned for malformed SVG path data.
var ErrBadPath = errors.New("malformed path data")

// Segment is one absolute path command: M/L (x y), C (x1 y1 x2 y2 x y),
// Q (x1 y1 x y) or Z.
type Segment struct {
	Op   byte
	Args []float64
}

// ParsePath parses SVG path data into absolute M, L, C, Q and Z segments.
// H and V become L, S and T are expanded with reflected control points and
// elliptical arcs are reduced to a line to their end point.
func ParsePath(d string) ([]Segment, error) {
	l := &pathLexer{s: d}

	var (
		segs           []Segment
		cmd            byte
		cx, cy         float64
		startX, startY float64
		ctrlX, ctrlY   float64
		lastCurve      byte
	)

	for {
		l.skip()
		if l.done() {
			break
		}
		if c := l.s[l.i]; isPathCommand(c) {
			cmd = c
			l.i++
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrBadPath, c, l.i)
		}

		var ox, oy float64
		if cmd >= 'a' {
			ox, oy = cx, cy
		}

		curve := byte(0)
		switch cmd | 0x20 {
		case 'm':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			cx, cy = ox+v[0], oy+v[1]
			startX, startY = cx, cy
			segs = append(segs, Segment{Op: 'M', Args: []float64{cx, cy}})
			// Coordinate pairs after a moveto are implicit linetos.
			if cmd == 'm' {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'l':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			cx, cy = ox+v[0], oy+v[1]
			segs = append(segs, Segment{Op: 'L', Args: []float64{cx, cy}})
		case 'h':
			v, err := l.numbers(1)
			if err != nil {
				return nil, err
			}
			cx = ox + v[0]
			segs = append(segs, Segment{Op: 'L', Args: []float64{cx, cy}})
		case 'v':
			v, err := l.numbers(1)
			if err != nil {
				return nil, err
			}
			cy = oy + v[0]
			segs = append(segs, Segment{Op: 'L', Args: []float64{cx, cy}})
		case 'c':
			v, err := l.numbers(6)
			if err != nil {
				return nil, err
			}
			x1, y1 := ox+v[0], oy+v[1]
			ctrlX, ctrlY = ox+v[2], oy+v[3]
			cx, cy = ox+v[4], oy+v[5]
			segs = append(segs, Segment{Op: 'C', Args: []float64{x1, y1, ctrlX, ctrlY, cx, cy}})
			curve = 'C'
		case 's':
			v, err := l.numbers(4)
			if err != nil {
				return nil, err
			}
			x1, y1 := cx, cy
			if lastCurve == 'C' {
				x1, y1 = 2*cx-ctrlX, 2*cy-ctrlY
			}
			ctrlX, ctrlY = ox+v[0], oy+v[1]
			cx, cy = ox+v[2], oy+v[3]
			segs = append(segs, Segment{Op: 'C', Args: []float64{x1, y1, ctrlX, ctrlY, cx, cy}})
			curve = 'C'
		case 'q':
			v, err := l.numbers(4)
			if err != nil {
				return nil, err
			}
			ctrlX, ctrlY = ox+v[0], oy+v[1]
			cx, cy = ox+v[2], oy+v[3]
			segs = append(segs, Segment{Op: 'Q', Args: []float64{ctrlX, ctrlY, cx, cy}})
			curve = 'Q'
		case 't':
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			if lastCurve == 'Q' {
				ctrlX, ctrlY = 2*cx-ctrlX, 2*cy-ctrlY
			} else {
				ctrlX, ctrlY = cx, cy
			}
			cx, cy = ox+v[0], oy+v[1]
			segs = append(segs, Segment{Op: 'Q', Args: []float64{ctrlX, ctrlY, cx, cy}})
			curve = 'Q'
		case 'a':
			if _, err := l.numbers(3); err != nil {
				return nil, err
			}
			if err := l.flags(2); err != nil {
				return nil, err
			}
			v, err := l.numbers(2)
			if err != nil {
				return nil, err
			}
			cx, cy = ox+v[0], oy+v[1]
			segs = append(segs, Segment{Op: 'L', Args: []float64{cx, cy}})
		case 'z':
			cx, cy = startX, startY
			segs = append(segs, Segment{Op: 'Z'})
		}
		lastCurve = curve
	}

	return segs, nil
}

// SegmentsBounds returns the bounding box of all points and control points.
func SegmentsBounds(segs []Segment) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	seen := false
	for _, s := range segs {
		for i := 0; i+1 < len(s.Args); i += 2 {
			seen = true
			minX = math.Min(minX, s.Args[i])
			maxX = math.Max(maxX, s.Args[i])
			minY = math.Min(minY, s.Args[i+1])
			maxY = math.Max(maxY, s.Args[i+1])
		}
	}
	if !seen {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func isPathCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

type pathLexer struct {
	s string
	i int
}

func (l *pathLexer) done() bool { return l.i >= len(l.s) }

func (l *pathLexer) skip() {
	for l.i < len(l.s) {
		switch l.s[l.i] {
		case ' ', ',', '\t', '\n', '\r':
			l.i++
		default:
			return
		}
	}
}

func (l *pathLexer) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range out {
		v, ok := l.number()
		if !ok {
			return nil, fmt.Errorf("%w: expected number at offset %d", ErrBadPath, l.i)
		}
		out[k] = v
	}
	return out, nil
}

// flags reads arc flags, which may be written without separators ("a1 1 0 01 5 5").
func (l *pathLexer) flags(n int) error {
	for range n {
		l.skip()
		if l.done() || (l.s[l.i] != '0' && l.s[l.i] != '1') {
			return fmt.Errorf("%w: expected arc flag at offset %d", ErrBadPath, l.i)
		}
		l.i++
	}
	return nil
}

func (l *pathLexer) number() (float64, bool) {
	l.skip()
	start := l.i
	i := l.i
	if i < len(l.s) && (l.s[i] == '+' || l.s[i] == '-') {
		i++
	}
	digits, dot := false, false
	for i < len(l.s) {
		c := l.s[i]
		if c >= '0' && c <= '9' {
			digits = true
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		i++
	}
	if !digits {
		return 0, false
	}
	if i < len(l.s) && (l.s[i] == 'e' || l.s[i] == 'E') {
		j := i + 1
		if j < len(l.s) && (l.s[j] == '+' || l.s[j] == '-') {
			j++
		}
		k := j
		for k < len(l.s) && l.s[k] >= '0' && l.s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	v, err := strconv.ParseFloat(l.s[start:i], 64)
	if err != nil {
		return 0, false
	}
	l.i = i
	return v, true
}
