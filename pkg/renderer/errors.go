package renderer

import "errors"

var (
	ErrNoMesh             = errors.New("renderer: no mesh defined")
	ErrNoCamera           = errors.New("renderer: no camera defined")
	ErrInvalidCamera      = errors.New("renderer: invalid camera")
	ErrInvalidDimensions  = errors.New("renderer: pixel dimensions must be positive")
	ErrMissingTexCoords   = errors.New("renderer: mesh has no texture coordinates")
	ErrInvalidTextureSize = errors.New("renderer: texture dimensions must be positive")
)
