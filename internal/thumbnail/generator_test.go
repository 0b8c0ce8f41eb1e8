package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()

	gen, err := NewGeneratorAt(filepath.Join(t.TempDir(), "thumbnails"))
	require.NoError(t, err)
	return gen
}

// writeTestPNG writes a solid-color PNG of the given size and returns its path.
func writeTestPNG(t *testing.T, dir string, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func decodeDimensions(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func TestGenerator_Generate(t *testing.T) {
	gen := newTestGenerator(t)
	src := writeTestPNG(t, t.TempDir(), "screenshot.png", 200, 100)

	thumbPath, err := gen.Generate(src, 50)
	require.NoError(t, err)
	assert.Equal(t, "thumb_50_screenshot.png.jpg", filepath.Base(thumbPath))

	width, height := decodeDimensions(t, thumbPath)
	assert.LessOrEqual(t, width, 50)
	assert.LessOrEqual(t, height, 50)
	assert.True(t, width == 50 || height == 50)
}

func TestGenerator_Generate_AspectRatio(t *testing.T) {
	gen := newTestGenerator(t)

	t.Run("landscape", func(t *testing.T) {
		src := writeTestPNG(t, t.TempDir(), "wide.png", 400, 100)

		thumbPath, err := gen.Generate(src, 50)
		require.NoError(t, err)

		width, height := decodeDimensions(t, thumbPath)
		assert.Equal(t, 50, width)
		// round(50 * 100 / 400)
		assert.InDelta(t, 13, height, 1)
	})

	t.Run("portrait", func(t *testing.T) {
		src := writeTestPNG(t, t.TempDir(), "tall.png", 100, 400)

		thumbPath, err := gen.Generate(src, 50)
		require.NoError(t, err)

		width, height := decodeDimensions(t, thumbPath)
		assert.Equal(t, 50, height)
		assert.InDelta(t, 13, width, 1)
	})
}

func TestGenerator_Generate_NoUpscale(t *testing.T) {
	gen := newTestGenerator(t)
	src := writeTestPNG(t, t.TempDir(), "small.png", 30, 20)

	thumbPath, err := gen.Generate(src, 64)
	require.NoError(t, err)

	// Small sources keep their dimensions; only the format changes.
	width, height := decodeDimensions(t, thumbPath)
	assert.Equal(t, 30, width)
	assert.Equal(t, 20, height)
}

func TestGenerator_Generate_Idempotent(t *testing.T) {
	gen := newTestGenerator(t)
	src := writeTestPNG(t, t.TempDir(), "screenshot.png", 200, 100)

	first, err := gen.Generate(src, 50)
	require.NoError(t, err)

	info, err := os.Stat(first)
	require.NoError(t, err)
	modTime := info.ModTime()

	second, err := gen.Generate(src, 50)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The second call reuses the cache file without rewriting it.
	info, err = os.Stat(second)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(modTime))
}

func TestGenerator_Generate_StaleCacheAccepted(t *testing.T) {
	gen := newTestGenerator(t)
	dir := t.TempDir()
	src := writeTestPNG(t, dir, "screenshot.png", 200, 100)

	first, err := gen.Generate(src, 50)
	require.NoError(t, err)

	// Replace the source; the cached thumbnail is reused as-is.
	writeTestPNG(t, dir, "screenshot.png", 100, 200)

	second, err := gen.Generate(src, 50)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	width, height := decodeDimensions(t, second)
	assert.Equal(t, 50, width)
	assert.Greater(t, width, height)
}

func TestGenerator_Generate_Errors(t *testing.T) {
	gen := newTestGenerator(t)

	t.Run("missing source", func(t *testing.T) {
		_, err := gen.Generate(filepath.Join(t.TempDir(), "absent.png"), 50)
		require.Error(t, err)
	})

	t.Run("undecodable source", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.png")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

		_, err := gen.Generate(path, 50)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})

	t.Run("invalid filename", func(t *testing.T) {
		_, err := gen.Generate("/", 50)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid filename")
	})
}

func TestGenerator_Base64(t *testing.T) {
	gen := newTestGenerator(t)
	src := writeTestPNG(t, t.TempDir(), "screenshot.png", 200, 100)

	uri, err := gen.Base64(src, 50)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	assert.Greater(t, len(uri), len("data:image/jpeg;base64,"))
}

func TestGenerator_Remove(t *testing.T) {
	gen := newTestGenerator(t)
	src := writeTestPNG(t, t.TempDir(), "screenshot.png", 200, 100)

	thumbPath, err := gen.Generate(src, 50)
	require.NoError(t, err)

	require.NoError(t, gen.Remove(src, 50))
	_, err = os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(err))

	// Removing an absent thumbnail is not an error.
	require.NoError(t, gen.Remove(src, 50))
}
