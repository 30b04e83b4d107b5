package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-resolution-raycaster/pkg/core"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Transform places a mesh in the world: scale, then rotate around X, Y and Z
// (in that order), then translate. Rotation angles are in degrees.
type Transform struct {
	Position core.Vec3
	Rotation core.Vec3
	Scale    core.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged
func IdentityTransform() Transform {
	return Transform{Scale: core.NewVec3(1, 1, 1)}
}

// TransformPoint maps a local-space point into world space.
// A zero Scale is treated as unit scale.
func (t Transform) TransformPoint(p core.Vec3) core.Vec3 {
	scale := t.Scale
	if scale == (core.Vec3{}) {
		scale = core.NewVec3(1, 1, 1)
	}

	v := r3.Vec{X: p.X * scale.X, Y: p.Y * scale.Y, Z: p.Z * scale.Z}
	if t.Rotation.X != 0 {
		v = r3.NewRotation(radians(t.Rotation.X), axisX).Rotate(v)
	}
	if t.Rotation.Y != 0 {
		v = r3.NewRotation(radians(t.Rotation.Y), axisY).Rotate(v)
	}
	if t.Rotation.Z != 0 {
		v = r3.NewRotation(radians(t.Rotation.Z), axisZ).Rotate(v)
	}

	v = r3.Add(v, r3.Vec{X: t.Position.X, Y: t.Position.Y, Z: t.Position.Z})
	return core.NewVec3(v.X, v.Y, v.Z)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
