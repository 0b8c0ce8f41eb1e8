package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/snipp/internal/capture"
	"github.com/bnema/snipp/internal/config"
	"github.com/bnema/snipp/internal/history"
	"github.com/bnema/snipp/internal/logging"
	"github.com/bnema/snipp/internal/thumbnail"
)

// thumbnailWorkers bounds the concurrent thumbnail generations in Recent.
const thumbnailWorkers = 4

// Capturer produces raw PNG bytes from the screen.
type Capturer interface {
	Capture(ctx context.Context, key string) ([]byte, error)
	CaptureFullScreen(ctx context.Context, key string) ([]byte, error)
}

// Clipboard places a PNG file onto the system clipboard.
type Clipboard interface {
	WriteImageFile(ctx context.Context, path string) error
}

// ScreenshotData is the result of a capture, handed to the UI layer.
type ScreenshotData struct {
	Base64Image string  `json:"base64_image"`
	Filename    string  `json:"filename"`
	Timestamp   int64   `json:"timestamp"`
	FilePath    *string `json:"file_path"`
}

// HistoryItem is a history record decorated with a thumbnail data URI.
// Thumbnail is empty when the screenshot file no longer exists or the
// thumbnail could not be generated.
type HistoryItem struct {
	history.Record
	Thumbnail string `json:"thumbnail"`
}

// ScreenshotService orchestrates captures and their dispositions across
// the capture cache, the history store and the thumbnail generator.
type ScreenshotService struct {
	manager   *config.Manager
	cache     *capture.Cache
	capturer  Capturer
	clipboard Clipboard
	history   *history.Store
	thumbs    *thumbnail.Generator

	now func() time.Time
}

// NewScreenshotService creates a new ScreenshotService instance.
func NewScreenshotService(
	manager *config.Manager,
	cache *capture.Cache,
	capturer Capturer,
	clipboard Clipboard,
	hist *history.Store,
	thumbs *thumbnail.Generator,
) *ScreenshotService {
	return &ScreenshotService{
		manager:   manager,
		cache:     cache,
		capturer:  capturer,
		clipboard: clipboard,
		history:   hist,
		thumbs:    thumbs,
		now:       time.Now,
	}
}

// Capture grabs a screenshot, caches the bytes under a fresh timestamp key
// and returns the data for the UI. With fullscreen false the user draws a
// selection; cancelling the selection returns an error.
func (s *ScreenshotService) Capture(ctx context.Context, fullscreen bool) (*ScreenshotData, error) {
	ts := s.now()
	key := capture.Key(ts)

	ctx = logging.WithCaptureKey(ctx, key)
	log := logging.FromContext(ctx)

	var (
		data []byte
		err  error
	)
	if fullscreen {
		data, err = s.capturer.CaptureFullScreen(ctx, key)
	} else {
		data, err = s.capturer.Capture(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, data)
	log.Debug().Int("bytes", len(data)).Msg("screenshot cached")

	if s.manager.Get().Capture.AutoCopyAfterCapture {
		if copyErr := s.CopyToClipboard(ctx, key); copyErr != nil {
			log.Warn().Err(copyErr).Msg("auto-copy after capture failed")
		}
	}

	return &ScreenshotData{
		Base64Image: base64.StdEncoding.EncodeToString(data),
		Filename:    capture.BuildFilename(ts.Unix()),
		Timestamp:   ts.Unix(),
	}, nil
}

// CopyToClipboard copies the cached screenshot identified by key to the
// system clipboard.
func (s *ScreenshotService) CopyToClipboard(ctx context.Context, key string) error {
	data, err := s.cache.Get(key)
	if err != nil {
		return err
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("snipp_clip_%s.png", key))
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write clipboard temp file: %w", err)
	}
	defer func() { _ = os.Remove(tempPath) }()

	return s.clipboard.WriteImageFile(ctx, tempPath)
}

// SaveToDisk writes the cached screenshot identified by key into the
// configured save location and records it in history. A history failure
// is logged but does not undo the save.
func (s *ScreenshotService) SaveToDisk(ctx context.Context, key string) (string, error) {
	log := logging.FromContext(ctx)

	data, err := s.cache.Get(key)
	if err != nil {
		return "", err
	}

	path, err := s.targetPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	if err := s.history.Add(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record screenshot in history")
	}

	log.Info().Str("path", path).Msg("screenshot saved")
	return path, nil
}

// SaveEdited decodes an edited screenshot from base64, saves it to disk,
// records it in history and drops the original cache entry.
func (s *ScreenshotService) SaveEdited(ctx context.Context, base64Image, key string) (string, error) {
	log := logging.FromContext(ctx)

	payload := base64Image
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode edited screenshot: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("no image data captured")
	}

	path, err := s.targetPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	if err := s.history.Add(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record screenshot in history")
	}

	if s.manager.Get().Capture.AutoCopyAfterEdit {
		if copyErr := s.clipboard.WriteImageFile(ctx, path); copyErr != nil {
			log.Warn().Err(copyErr).Str("path", path).Msg("auto-copy after edit failed")
		}
	}

	s.cache.Remove(key)
	log.Info().Str("path", path).Msg("edited screenshot saved")
	return path, nil
}

// Discard drops the cached screenshot identified by key.
func (s *ScreenshotService) Discard(key string) {
	s.cache.Remove(key)
}

// CopyFromPath copies an already-saved screenshot file to the clipboard.
func (s *ScreenshotService) CopyFromPath(ctx context.Context, filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("failed to read screenshot file: %w", err)
	}
	return s.clipboard.WriteImageFile(ctx, filePath)
}

// Delete removes a saved screenshot from disk and cleans up its history
// record and cached thumbnail. Cleanup failures are logged; only the file
// deletion itself decides the outcome.
func (s *ScreenshotService) Delete(ctx context.Context, filePath string) error {
	ctx = logging.WithFilePath(ctx, filePath)
	log := logging.FromContext(ctx)

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete screenshot: %w", err)
	}

	if err := s.history.Remove(filePath); err != nil {
		log.Warn().Err(err).Msg("failed to remove history record")
	}
	if err := s.thumbs.Remove(filePath, s.thumbnailSize()); err != nil {
		log.Warn().Err(err).Msg("failed to remove cached thumbnail")
	}

	log.Info().Msg("screenshot deleted")
	return nil
}

// Recent returns up to limit history items newest-first, attaching a
// base64 thumbnail for every record whose file still exists. Thumbnail
// failures leave the item's Thumbnail empty and never fail the listing.
func (s *ScreenshotService) Recent(ctx context.Context, limit int) ([]HistoryItem, error) {
	log := logging.FromContext(ctx)

	records := s.history.Recent(limit)
	items := make([]HistoryItem, len(records))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(thumbnailWorkers)

	for i, rec := range records {
		items[i].Record = rec
		g.Go(func() error {
			if _, err := os.Stat(rec.FilePath); err != nil {
				return nil
			}
			uri, err := s.thumbs.Base64(rec.FilePath, s.thumbnailSize())
			if err != nil {
				log.Debug().Err(err).Str("path", rec.FilePath).Msg("thumbnail generation failed")
				return nil
			}
			items[i].Thumbnail = uri
			return nil
		})
	}

	_ = g.Wait()
	return items, nil
}

// PrepareDragFile exports the cached screenshot identified by key to a
// temp file for drag-and-drop and returns its path.
func (s *ScreenshotService) PrepareDragFile(key string) (string, error) {
	data, err := s.cache.Get(key)
	if err != nil {
		return "", err
	}

	ts, err := capture.ParseKey(key)
	if err != nil {
		ts = s.now()
	}
	path := filepath.Join(os.TempDir(), "snipp_drag_"+key, capture.BuildFilename(ts.Unix()))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create drag directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write drag file: %w", err)
	}
	return path, nil
}

// CleanupDragFile removes the drag-and-drop export for key, if any.
func (s *ScreenshotService) CleanupDragFile(key string) error {
	dir := filepath.Join(os.TempDir(), "snipp_drag_"+key)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clean up drag file: %w", err)
	}
	return nil
}

// History exposes the underlying store for CLI listing commands.
func (s *ScreenshotService) History() *history.Store {
	return s.history
}

func (s *ScreenshotService) targetPath(key string) (string, error) {
	ts, err := capture.ParseKey(key)
	if err != nil {
		ts = s.now()
	}

	dir := s.manager.Get().Capture.DefaultSaveLocation
	if dir == "" {
		dir, err = config.GetDefaultSaveDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve save location: %w", err)
		}
	}
	return filepath.Join(dir, capture.BuildFilename(ts.Unix())), nil
}

func (s *ScreenshotService) thumbnailSize() int {
	size := s.manager.Get().Thumbnails.MaxSize
	if size <= 0 {
		size = config.DefaultThumbnailMaxSize
	}
	return size
}
