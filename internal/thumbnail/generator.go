// Package thumbnail produces and caches downscaled JPEG previews of
// persisted screenshots.
package thumbnail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"math"
	"os"
	"path/filepath"

	"github.com/sunshineplan/imgconv"

	"github.com/bnema/snipp/internal/config"
)

const (
	dirPerm  = 0755
	filePerm = 0644

	jpegQuality = 85
)

// Generator caches thumbnails on disk, keyed by source filename and
// requested size. Regeneration is idempotent: an existing cache file is
// reused without revalidating against the source.
type Generator struct {
	cacheDir string
}

// NewGenerator creates a generator backed by the default thumbnail cache
// directory under the user's cache dir.
func NewGenerator() (*Generator, error) {
	cacheDir, err := config.GetThumbnailCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache directory: %w", err)
	}
	return NewGeneratorAt(cacheDir)
}

// NewGeneratorAt creates a generator with an explicit cache directory.
func NewGeneratorAt(cacheDir string) (*Generator, error) {
	if err := os.MkdirAll(cacheDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail cache directory: %w", err)
	}
	return &Generator{cacheDir: cacheDir}, nil
}

// CachePath returns the cache file path for the given source and size.
// The key is derived from the source's base filename only; two sources
// sharing a base name collide. Callers use unique generated filenames.
func (g *Generator) CachePath(sourcePath string, maxSize int) (string, error) {
	filename := filepath.Base(sourcePath)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return "", errors.New("invalid filename")
	}
	return filepath.Join(g.cacheDir, fmt.Sprintf("thumb_%d_%s.jpg", maxSize, filename)), nil
}

// Generate returns the path of the cached thumbnail for sourcePath,
// producing it on first request. An existing cache file short-circuits
// without re-decoding the source; staleness after source mutation is
// accepted behavior.
func (g *Generator) Generate(sourcePath string, maxSize int) (string, error) {
	thumbnailPath, err := g.CachePath(sourcePath, maxSize)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(thumbnailPath); err == nil {
		return thumbnailPath, nil
	}

	src, err := imgconv.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize(src, maxSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	tempPath := thumbnailPath + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	if err := os.Rename(tempPath, thumbnailPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return thumbnailPath, nil
}

// Base64 generates (or reuses) the thumbnail and returns it as a
// data:image/jpeg;base64 URI.
func (g *Generator) Base64(sourcePath string, maxSize int) (string, error) {
	thumbnailPath, err := g.Generate(sourcePath, maxSize)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(thumbnailPath)
	if err != nil {
		return "", fmt.Errorf("failed to read thumbnail: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Remove deletes the cached thumbnail for the derived key if it exists.
// Absence is not an error.
func (g *Generator) Remove(sourcePath string, maxSize int) error {
	thumbnailPath, err := g.CachePath(sourcePath, maxSize)
	if err != nil {
		return err
	}

	if err := os.Remove(thumbnailPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove thumbnail: %w", err)
	}
	return nil
}

// CacheDir returns the cache directory backing this generator.
func (g *Generator) CacheDir() string {
	return g.cacheDir
}

// resize downscales img so its longer side equals maxSize, preserving
// aspect ratio. Sources already within bounds are returned unchanged
// (no upscaling); the JPEG re-encode still happens in Generate.
func resize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(math.Round(float64(maxSize) * float64(height) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = int(math.Round(float64(maxSize) * float64(width) / float64(height)))
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	return imgconv.Resize(img, &imgconv.ResizeOption{
		Width:  newWidth,
		Height: newHeight,
	})
}
