package geometry

import (
	"github.com/df07/go-resolution-raycaster/pkg/core"
)

// Epsilon is the machine epsilon for float64. Determinants and hit distances
// within Epsilon of zero are treated as misses.
const Epsilon = 0x1p-52

// Intersect reports whether the ray hits the triangle p1, p2, p3 using the
// Möller-Trumbore algorithm. Only hits strictly in front of the ray origin count.
// Both windings are accepted.
func Intersect(p1, p2, p3 core.Vec3, ray core.Ray) bool {
	// Calculate two edge vectors sharing p1
	edge1 := p2.Subtract(p1)
	edge2 := p3.Subtract(p1)

	// Calculate determinant
	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)

	// If determinant is near zero, ray lies in plane of triangle
	if det > -Epsilon && det < Epsilon {
		return false
	}

	invDet := 1.0 / det
	t := ray.Origin.Subtract(p1)
	u := t.Dot(p) * invDet

	// Check if intersection is outside triangle
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := t.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet

	if v < 0.0 || u+v > 1.0 {
		return false
	}

	// Signed distance along the ray must be strictly positive
	return edge2.Dot(q)*invDet > Epsilon
}
