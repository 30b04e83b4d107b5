package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-resolution-raycaster/pkg/core"
)

var (
	ErrInvalidFaces    = errors.New("geometry: face indices must be a multiple of 3")
	ErrIndexOutOfRange = errors.New("geometry: face index out of range")
	ErrNonFinite       = errors.New("geometry: vertex data must be finite")
)

// Mesh is a triangle mesh in local space.
// Faces holds vertex index triples, one triple per triangle.
// TexCoords is optional; when present it is index-aligned with Vertices.
type Mesh struct {
	Vertices  []core.Vec3
	Faces     []int
	TexCoords []core.Vec2
}

// NewMesh creates a mesh and validates its face indices
func NewMesh(vertices []core.Vec3, faces []int, texCoords []core.Vec2) (*Mesh, error) {
	m := &Mesh{
		Vertices:  vertices,
		Faces:     faces,
		TexCoords: texCoords,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that every face index references a vertex and that
// positions and texture coordinates are finite
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if !isFinite(v.X) || !isFinite(v.Y) || !isFinite(v.Z) {
			return fmt.Errorf("%w: vertex %d is %v", ErrNonFinite, i, v)
		}
	}
	for i, uv := range m.TexCoords {
		if !isFinite(uv.X) || !isFinite(uv.Y) {
			return fmt.Errorf("%w: texture coordinate %d is %v", ErrNonFinite, i, uv)
		}
	}

	if len(m.Faces)%3 != 0 {
		return fmt.Errorf("%w: got %d indices", ErrInvalidFaces, len(m.Faces))
	}
	for i, index := range m.Faces {
		if index < 0 || index >= len(m.Vertices) {
			return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i/3, index, len(m.Vertices))
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// HasTexCoords reports whether every vertex has a texture coordinate
func (m *Mesh) HasTexCoords() bool {
	return len(m.Vertices) > 0 && len(m.TexCoords) == len(m.Vertices)
}

// Bounds returns the local-space axis-aligned bounds of the vertices
func (m *Mesh) Bounds() (lo, hi core.Vec3) {
	if len(m.Vertices) == 0 {
		return core.Vec3{}, core.Vec3{}
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// ToWorld transforms every vertex into world space. Texture coordinates are
// shared, not copied, since the transform does not affect them.
func (m *Mesh) ToWorld(transform Transform) *WorldMesh {
	numTriangles := m.TriangleCount()

	world := make([]core.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		world[i] = transform.TransformPoint(v)
	}

	triangles := make([][3]core.Vec3, numTriangles)
	for i := range triangles {
		triangles[i] = [3]core.Vec3{
			world[m.Faces[i*3]],
			world[m.Faces[i*3+1]],
			world[m.Faces[i*3+2]],
		}
	}

	wm := &WorldMesh{triangles: triangles}
	if m.HasTexCoords() {
		wm.uvs = make([][3]core.Vec2, numTriangles)
		for i := range wm.uvs {
			wm.uvs[i] = [3]core.Vec2{
				m.TexCoords[m.Faces[i*3]],
				m.TexCoords[m.Faces[i*3+1]],
				m.TexCoords[m.Faces[i*3+2]],
			}
		}
	}
	return wm
}

// WorldMesh is a mesh with its vertices pre-transformed into world space.
// It is immutable once created and safe for concurrent reads.
type WorldMesh struct {
	triangles [][3]core.Vec3
	uvs       [][3]core.Vec2
}

// NewWorldMesh creates a world mesh from triangles that are already in world space.
// uvs may be nil.
func NewWorldMesh(triangles [][3]core.Vec3, uvs [][3]core.Vec2) *WorldMesh {
	return &WorldMesh{triangles: triangles, uvs: uvs}
}

// TriangleCount returns the number of triangles
func (w *WorldMesh) TriangleCount() int {
	return len(w.triangles)
}

// Triangle returns the world-space vertices of triangle i
func (w *WorldMesh) Triangle(i int) (p1, p2, p3 core.Vec3) {
	t := &w.triangles[i]
	return t[0], t[1], t[2]
}

// HasTexCoords reports whether every triangle has texture coordinates
func (w *WorldMesh) HasTexCoords() bool {
	return len(w.uvs) == len(w.triangles)
}

// TriangleUV returns the texture coordinates of triangle i
func (w *WorldMesh) TriangleUV(i int) (uv1, uv2, uv3 core.Vec2) {
	t := &w.uvs[i]
	return t[0], t[1], t[2]
}

// FirstHit scans triangles in ascending index order and returns the index of
// the first one the ray intersects, or -1. This is not a nearest-hit query.
func (w *WorldMesh) FirstHit(ray core.Ray) int {
	for i := range w.triangles {
		t := &w.triangles[i]
		if Intersect(t[0], t[1], t[2], ray) {
			return i
		}
	}
	return -1
}
