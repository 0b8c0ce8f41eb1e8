package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bnema/snipp/internal/logging"
)

// Screencap invokes the macOS screencapture tool and returns the raw PNG
// bytes. The tool writes to a temp file that is removed after the read.
type Screencap struct {
	cmdPath string
}

// NewScreencap locates the screencapture binary.
func NewScreencap() *Screencap {
	s := &Screencap{}
	if path, err := exec.LookPath("screencapture"); err == nil {
		s.cmdPath = path
	}
	return s
}

// Available reports whether the screencapture tool was found.
func (s *Screencap) Available() bool {
	return s.cmdPath != ""
}

// Capture runs an interactive region capture (the user draws a selection).
// Returns the captured PNG bytes, or an error when the user cancels.
func (s *Screencap) Capture(ctx context.Context, key string) ([]byte, error) {
	return s.run(ctx, key, true)
}

// CaptureFullScreen captures the entire screen without interaction.
func (s *Screencap) CaptureFullScreen(ctx context.Context, key string) ([]byte, error) {
	return s.run(ctx, key, false)
}

func (s *Screencap) run(ctx context.Context, key string, interactive bool) ([]byte, error) {
	log := logging.FromContext(ctx)

	if s.cmdPath == "" {
		err := errors.New("screencapture tool not available")
		log.Error().Err(err).Msg("capture failed")
		return nil, err
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("snipp_capture_%s.png", key))
	defer func() { _ = os.Remove(tempPath) }()

	args := []string{"-t", "png", tempPath}
	if interactive {
		args = append([]string{"-i"}, args...)
	}

	cmd := exec.CommandContext(ctx, s.cmdPath, args...)
	if err := cmd.Run(); err != nil {
		log.Debug().Err(err).Bool("interactive", interactive).Msg("screencapture exited non-zero")
		return nil, errors.New("screenshot capture was cancelled or failed")
	}

	data, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read captured screenshot: %w", err)
	}

	if len(data) == 0 {
		return nil, errors.New("no image data captured")
	}

	log.Debug().Int("bytes", len(data)).Msg("captured screenshot")
	return data, nil
}
