package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// ErrUnsupportedMeshFormat is returned for mesh files that are neither PLY nor OBJ
var ErrUnsupportedMeshFormat = errors.New("loaders: unsupported mesh format")

// LoadMesh loads a .ply or .obj file
func LoadMesh(filename string) (*geometry.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".ply":
		return LoadPLY(filename)
	case ".obj":
		return LoadOBJ(filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMeshFormat, ext)
	}
}
