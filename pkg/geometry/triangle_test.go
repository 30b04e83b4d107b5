package geometry

import (
	"testing"

	"github.com/df07/go-resolution-raycaster/pkg/core"
)

func TestIntersect(t *testing.T) {
	// Triangle in the XY plane
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
	}{
		{
			name:      "Ray hits triangle interior",
			ray:       core.NewRay(core.NewVec3(0.2, 0.2, 5), core.NewVec3(0, 0, -1)),
			shouldHit: true,
		},
		{
			name:      "Ray misses triangle",
			ray:       core.NewRay(core.NewVec3(2, 2, 5), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Ray hits triangle edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, 5), core.NewVec3(0, 0, -1)),
			shouldHit: true,
		},
		{
			name:      "Ray from below hits",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
		},
		{
			name:      "Unnormalized direction hits",
			ray:       core.NewRay(core.NewVec3(0.1, 0.3, 2), core.NewVec3(0, 0, -40)),
			shouldHit: true,
		},
		{
			name:      "Triangle behind ray origin",
			ray:       core.NewRay(core.NewVec3(0.2, 0.2, 5), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray origin on triangle plane",
			ray:       core.NewRay(core.NewVec3(0.2, 0.2, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersect(v0, v1, v2, tt.ray); got != tt.shouldHit {
				t.Errorf("Expected hit=%v, got hit=%v", tt.shouldHit, got)
			}
		})
	}
}

func TestIntersect_ParallelRayAlwaysMisses(t *testing.T) {
	v0 := core.NewVec3(0, 0, 0)
	v1 := core.NewVec3(1, 0, 0)
	v2 := core.NewVec3(0, 1, 0)

	origins := []core.Vec3{
		core.NewVec3(0.25, 0.25, 0), // in the triangle plane
		core.NewVec3(-1, 0.25, 0),   // in the plane, pointing across the triangle
		core.NewVec3(0.25, 0.25, 1), // above the plane
		core.NewVec3(5, -3, -2),     // below the plane
	}
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 0),
	}

	for _, origin := range origins {
		for _, direction := range directions {
			if Intersect(v0, v1, v2, core.NewRay(origin, direction)) {
				t.Errorf("Expected parallel ray from %v along %v to miss", origin, direction)
			}
		}
	}
}

// Reversing the winding flips the sign of the determinant, which cancels in
// u, v and the hit distance: both windings hit, there is no backface culling.
func TestIntersect_Windings(t *testing.T) {
	a := core.NewVec3(-1, -1, -3)
	b := core.NewVec3(1, -1, -3)
	c := core.NewVec3(0, 1, -3)

	front := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	back := core.NewRay(core.NewVec3(0, 0, -6), core.NewVec3(0, 0, 1))
	away := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	orders := []struct {
		name       string
		p1, p2, p3 core.Vec3
	}{
		{"counter-clockwise abc", a, b, c},
		{"counter-clockwise bca", b, c, a},
		{"counter-clockwise cab", c, a, b},
		{"clockwise acb", a, c, b},
		{"clockwise cba", c, b, a},
		{"clockwise bac", b, a, c},
	}

	for _, order := range orders {
		t.Run(order.name, func(t *testing.T) {
			if !Intersect(order.p1, order.p2, order.p3, front) {
				t.Error("Expected hit from the front")
			}
			if !Intersect(order.p1, order.p2, order.p3, back) {
				t.Error("Expected hit from the back")
			}
			if Intersect(order.p1, order.p2, order.p3, away) {
				t.Error("Expected miss for a ray pointing away from the triangle")
			}
		})
	}
}

func TestIntersect_DegenerateTriangle(t *testing.T) {
	// Collinear vertices have a zero determinant for every ray
	p1 := core.NewVec3(0, 0, 0)
	p2 := core.NewVec3(1, 1, 0)
	p3 := core.NewVec3(2, 2, 0)

	ray := core.NewRay(core.NewVec3(1, 1, 5), core.NewVec3(0, 0, -1))
	if Intersect(p1, p2, p3, ray) {
		t.Error("Expected degenerate triangle to never be hit")
	}
}
