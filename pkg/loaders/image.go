package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// JPEGQuality is the quality used when writing JPEG output
const JPEGQuality = 95

// ErrUnsupportedImageFormat is returned for output paths with an unknown extension
var ErrUnsupportedImageFormat = errors.New("loaders: unsupported image format")

// TextureSize reads only the header of a PNG, JPEG or BMP image and returns
// its dimensions in texels.
func TextureSize(filename string) (width, height int, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is auto-detected from the file header
	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header of %s: %w", filename, err)
	}
	return config.Width, config.Height, nil
}

// SaveImage writes img to filename, choosing PNG, JPEG or BMP from the extension
func SaveImage(filename string, img image.Image) error {
	encode, err := encoderFor(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

type imageEncoder func(file *os.File, img image.Image) error

func encoderFor(filename string) (imageEncoder, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		return func(file *os.File, img image.Image) error {
			return png.Encode(file, img)
		}, nil
	case ".jpg", ".jpeg":
		return func(file *os.File, img image.Image) error {
			return jpeg.Encode(file, img, &jpeg.Options{Quality: JPEGQuality})
		}, nil
	case ".bmp":
		return func(file *os.File, img image.Image) error {
			return bmp.Encode(file, img)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, ext)
	}
}
