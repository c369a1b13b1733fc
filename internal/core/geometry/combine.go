package geometry

import (
	"errors"
	"fmt"
)

// Method names one of the point-combination algorithms.
type Method string

const (
	// MethodOriginal adds to each point its nearest neighbour.
	MethodOriginal Method = "original"
	// MethodSequential adds to each point the one after it, wrapping around.
	MethodSequential Method = "sequential"
	// MethodMinSum adds to every point the point with the smallest x+y.
	MethodMinSum Method = "min_sum"
	// MethodMinX adds to every point the point with the smallest x, then y.
	MethodMinX Method = "min_x"
)

// Methods lists every supported method in a stable order.
var Methods = []Method{MethodOriginal, MethodSequential, MethodMinSum, MethodMinX}

var (
	ErrInvalidMethod = errors.New("invalid method")
	ErrEmptyPointSet = errors.New("empty point set")
	ErrNoReference   = errors.New("method has no single reference point")
	ErrOutOfRange    = errors.New("result out of range")
)

// ParseMethod validates s against the known methods.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

// Combine pairs every point with a partner chosen by m and returns the sums.
// The result is index-aligned with points. original and sequential return an
// empty result for empty input; min_sum and min_x need at least one point.
func Combine(points []Point, m Method) ([]Point, error) {
	switch m {
	case MethodOriginal:
		return combineNearest(points), nil
	case MethodSequential:
		return combineSequential(points), nil
	case MethodMinSum, MethodMinX:
		ref, err := Reference(points, m)
		if err != nil {
			return nil, err
		}
		out := make([]Point, len(points))
		for i, p := range points {
			out[i] = Add(p, ref)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
	}
}

// Reference returns the single point min_sum or min_x adds to every element.
func Reference(points []Point, m Method) (Point, error) {
	var less func(a, b Point) bool
	switch m {
	case MethodMinSum:
		less = func(a, b Point) bool { return a.X+a.Y < b.X+b.Y }
	case MethodMinX:
		less = func(a, b Point) bool {
			if a.X != b.X {
				return a.X < b.X
			}
			return a.Y < b.Y
		}
	case MethodOriginal, MethodSequential:
		return Point{}, fmt.Errorf("%w: %s", ErrNoReference, m)
	default:
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
	}
	if len(points) == 0 {
		return Point{}, fmt.Errorf("%s: %w", m, ErrEmptyPointSet)
	}

	// strict comparison keeps the first occurrence among equals
	ref := points[0]
	for _, p := range points[1:] {
		if less(p, ref) {
			ref = p
		}
	}
	return ref, nil
}

// O(n²): every point scans the whole set.
func combineNearest(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		if q, ok := Nearest(p, points); ok {
			out[i] = Add(p, q)
		} else {
			out[i] = p
		}
	}
	return out
}

func combineSequential(points []Point) []Point {
	n := len(points)
	out := make([]Point, n)
	for i := range points {
		out[i] = Add(points[i], points[(i+1)%n])
	}
	return out
}
