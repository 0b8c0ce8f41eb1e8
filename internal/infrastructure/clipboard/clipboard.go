// Package clipboard provides a clipboard adapter backed by the macOS
// system tools (osascript for image data, pbcopy for text).
package clipboard

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/snipp/internal/logging"
)

// Adapter copies screenshot data to the system clipboard.
type Adapter struct {
	osascriptCmd string
	pbcopyCmd    string
}

// New creates a new clipboard adapter, detecting the available tools.
func New() *Adapter {
	a := &Adapter{}

	if path, err := exec.LookPath("osascript"); err == nil {
		a.osascriptCmd = path
	}
	if path, err := exec.LookPath("pbcopy"); err == nil {
		a.pbcopyCmd = path
	}

	return a
}

// Available reports whether image copying is supported on this system.
func (a *Adapter) Available() bool {
	return a.osascriptCmd != ""
}

// WriteImageFile places the PNG file at path onto the clipboard as image data.
func (a *Adapter) WriteImageFile(ctx context.Context, path string) error {
	log := logging.FromContext(ctx)

	if a.osascriptCmd == "" {
		err := fmt.Errorf("no clipboard tool available (osascript not found)")
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}

	// AppleScript string literals escape backslashes and double quotes.
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	script := fmt.Sprintf(`set the clipboard to (read (POSIX file "%s") as «class PNGf»)`, escaped)

	cmd := exec.CommandContext(ctx, a.osascriptCmd, "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Error().Err(err).Str("path", path).Str("output", strings.TrimSpace(string(out))).Msg("clipboard write failed")
		return fmt.Errorf("failed to copy image to clipboard: %w", err)
	}

	log.Debug().Str("path", path).Msg("clipboard write success")
	return nil
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if a.pbcopyCmd == "" {
		err := fmt.Errorf("no clipboard tool available (pbcopy not found)")
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}

	cmd := exec.CommandContext(ctx, a.pbcopyCmd)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}

	log.Debug().Int("len", len(text)).Msg("clipboard write success")
	return nil
}
