// Package geometry implements the point-combination algorithms served by the
// compute server.
//
// Every function here is pure: no I/O, no shared state, no randomness.
// Calling Combine twice with the same input yields the same output.
//
// # Methods
//
//   - original: each point plus its nearest other point (Euclidean), O(n²).
//     Points with identical coordinates never pair with each other. A point
//     with no partner is returned unchanged.
//   - sequential: points[i] + points[(i+1) % n].
//   - min_sum: every point plus the first point minimizing x+y.
//   - min_x: every point plus the minimum by x, then by y.
//
// # Errors
//
// Unknown methods fail with ErrInvalidMethod. min_sum and min_x over an empty
// set fail with ErrEmptyPointSet; original and sequential return an empty
// result instead.
package geometry
