package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-resolution-raycaster/pkg/core"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// ErrInvalidOBJ is returned for malformed Wavefront OBJ statements
var ErrInvalidOBJ = errors.New("loaders: invalid OBJ file")

// LoadOBJ loads the geometry of a Wavefront OBJ file into a mesh
func LoadOBJ(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	return readOBJ(file, filename)
}

// ReadOBJ reads Wavefront OBJ geometry. Only v, vt and f statements are used.
// Every distinct position/texture pair referenced by a face becomes one mesh
// vertex, so texture coordinates stay index-aligned with vertices. If any face
// corner lacks a texture coordinate the mesh has none.
func ReadOBJ(r io.Reader) (*geometry.Mesh, error) {
	return readOBJ(r, "")
}

type objCorner struct {
	position int
	uv       int // -1 if the corner has no texture coordinate
}

type objReader struct {
	file string

	positions []core.Vec3
	uvs       []core.Vec2

	cornerIndex map[objCorner]int
	vertices    []core.Vec3
	texCoords   []core.Vec2
	faces       []int
	missingUV   bool
}

func readOBJ(r io.Reader, file string) (*geometry.Mesh, error) {
	reader := &objReader{
		file:        file,
		cornerIndex: make(map[objCorner]int),
	}

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseOBJFloats(lineTokens, 3)
			if err != nil {
				return nil, reader.emitError(lineNum, err)
			}
			reader.positions = append(reader.positions, core.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseOBJFloats(lineTokens, 2)
			if err != nil {
				return nil, reader.emitError(lineNum, err)
			}
			reader.uvs = append(reader.uvs, core.NewVec2(v[0], v[1]))
		case "f":
			if err := reader.parseFace(lineTokens); err != nil {
				return nil, reader.emitError(lineNum, err)
			}
		default:
			// Normals, groups, smoothing and materials do not affect the first-hit geometry
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	var texCoords []core.Vec2
	if !reader.missingUV {
		texCoords = reader.texCoords
	}
	return geometry.NewMesh(reader.vertices, reader.faces, texCoords)
}

// emitError prefixes err with the file and line it was found on
func (r *objReader) emitError(line int, err error) error {
	if r.file != "" {
		return fmt.Errorf("[%s: %d] %w", r.file, line, err)
	}
	return fmt.Errorf("[line %d] %w", line, err)
}

// parseFace reads a polygon and fans it into triangles around its first corner
func (r *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("%w: face needs at least 3 corners; got %d", ErrInvalidOBJ, len(lineTokens)-1)
	}

	corners := make([]int, len(lineTokens)-1)
	for i, token := range lineTokens[1:] {
		corner, err := r.parseCorner(token)
		if err != nil {
			return err
		}
		corners[i] = r.vertexFor(corner)
	}

	for k := 1; k+1 < len(corners); k++ {
		r.faces = append(r.faces, corners[0], corners[k], corners[k+1])
	}
	return nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn
func (r *objReader) parseCorner(token string) (objCorner, error) {
	parts := strings.Split(token, "/")

	position, err := selectFaceCoordIndex(parts[0], len(r.positions))
	if err != nil {
		return objCorner{}, fmt.Errorf("%w: vertex index %q: %v", ErrInvalidOBJ, parts[0], err)
	}

	corner := objCorner{position: position, uv: -1}
	if len(parts) > 1 && parts[1] != "" {
		if corner.uv, err = selectFaceCoordIndex(parts[1], len(r.uvs)); err != nil {
			return objCorner{}, fmt.Errorf("%w: texture index %q: %v", ErrInvalidOBJ, parts[1], err)
		}
	}
	return corner, nil
}

// vertexFor returns the mesh vertex of a corner, adding it on first use
func (r *objReader) vertexFor(corner objCorner) int {
	if index, ok := r.cornerIndex[corner]; ok {
		return index
	}

	index := len(r.vertices)
	r.cornerIndex[corner] = index
	r.vertices = append(r.vertices, r.positions[corner.position])
	if corner.uv >= 0 {
		r.texCoords = append(r.texCoords, r.uvs[corner.uv])
	} else {
		r.texCoords = append(r.texCoords, core.Vec2{})
		r.missingUV = true
	}
	return index
}

// selectFaceCoordIndex resolves a 1-based or negative (relative) OBJ index
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

// parseOBJFloats parses the first n arguments of a statement
func parseOBJFloats(lineTokens []string, n int) ([]float64, error) {
	if len(lineTokens) < n+1 {
		return nil, fmt.Errorf(`%w: unsupported syntax for "%s"; expected %d arguments; got %d`, ErrInvalidOBJ, lineTokens[0], n, len(lineTokens)-1)
	}

	values := make([]float64, n)
	for i := range values {
		value, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
		}
		values[i] = value
	}
	return values, nil
}
