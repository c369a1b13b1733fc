package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedPoint is returned when a point is not encoded as a [x, y] pair.
var ErrMalformedPoint = errors.New("point must be a [x, y] pair of numbers")

// Point is an immutable pair of coordinates. Two points are equal when both
// coordinates are equal, so the struct can be compared with ==.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// IsFinite reports whether both coordinates are finite. Sums of large
// coordinates overflow to ±Inf, which JSON cannot carry.
func (p Point) IsFinite() bool {
	return !math.IsInf(p.X, 0) && !math.IsNaN(p.X) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.Y)
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts exactly two numbers in an array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPoint, err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: got %d values", ErrMalformedPoint, len(raw))
	}
	p.X, p.Y = raw[0], raw[1]
	return nil
}

// Add returns the coordinatewise sum of a and b.
func Add(a, b Point) Point {
	return Point{X: a.X + b.X, Y: a.Y + b.Y}
}

// Distance is the Euclidean distance between a and b. Nearest-neighbour ties
// depend on this exact formula, so it is not replaced by math.Hypot.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Nearest finds the point closest to target among the points that are not
// equal to it. Duplicates of target are skipped as well. On equal distances
// the earliest point wins. ok is false when no candidate is left.
func Nearest(target Point, points []Point) (nearest Point, ok bool) {
	if len(points) <= 1 {
		return Point{}, false
	}
	best := math.Inf(1)
	for _, p := range points {
		if p == target {
			continue
		}
		if d := Distance(target, p); !ok || d < best {
			nearest, best, ok = p, d, true
		}
	}
	return nearest, ok
}
