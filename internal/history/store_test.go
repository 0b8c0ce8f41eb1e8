package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.json")
	store, err := NewStoreAt(path)
	require.NoError(t, err)
	return store
}

func TestNewStoreAt_InitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	store, err := NewStoreAt(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	// The file is established on first load so later loads always succeed.
	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := NewStoreAt(path)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}

func TestNewStoreAt_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStoreAt(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse history document")

	// The malformed file is left untouched, never silently reset.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestStore_Add(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("/test/path/screenshot.png"))

	records := store.Recent(10)
	require.Len(t, records, 1)
	assert.Equal(t, "/test/path/screenshot.png", records[0].FilePath)
	assert.Equal(t, "screenshot.png", records[0].Filename)
	assert.Nil(t, records[0].ThumbnailPath)
	assert.WithinDuration(t, time.Now().UTC(), records[0].Timestamp, 5*time.Second)

	// Reload from disk: the persisted document matches memory.
	reloaded, err := NewStoreAt(store.Path())
	require.NoError(t, err)
	got := reloaded.Recent(10)
	require.Len(t, got, 1)
	assert.Equal(t, "/test/path/screenshot.png", got[0].FilePath)
}

func TestStore_Add_NewestFirst(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("/test/path/screenshot_%d.png", i)))
		records := store.Recent(1)
		require.Len(t, records, 1)
		assert.Equal(t, fmt.Sprintf("screenshot_%d.png", i), records[0].Filename)
	}
}

func TestStore_Add_FallbackFilename(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("/"))

	records := store.Recent(1)
	require.Len(t, records, 1)
	assert.Equal(t, "unknown.png", records[0].Filename)
}

func TestStore_TruncatesToLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 60; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("/test/path/screenshot_%d.png", i)))
		want := i + 1
		if want > MaxEntries {
			want = MaxEntries
		}
		assert.Equal(t, want, store.Len())
	}

	assert.Equal(t, MaxEntries, store.Len())

	recent := store.Recent(5)
	require.Len(t, recent, 5)
	for i, want := range []string{
		"screenshot_59.png",
		"screenshot_58.png",
		"screenshot_57.png",
		"screenshot_56.png",
		"screenshot_55.png",
	} {
		assert.Equal(t, want, recent[i].Filename)
	}

	// Persisted document honors the cap too.
	reloaded, err := NewStoreAt(store.Path())
	require.NoError(t, err)
	assert.Equal(t, MaxEntries, reloaded.Len())
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("/test/path/screenshot.png"))
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Remove("/test/path/screenshot.png"))
	assert.Equal(t, 0, store.Len())

	// Removing again is a no-op with no error.
	require.NoError(t, store.Remove("/test/path/screenshot.png"))
	assert.Equal(t, 0, store.Len())

	reloaded, err := NewStoreAt(store.Path())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}

func TestStore_Remove_ExactMatchOnly(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("/test/path/screenshot.png"))
	require.NoError(t, store.Add("/test/path/screenshot_2.png"))

	require.NoError(t, store.Remove("/test/path/screenshot"))
	assert.Equal(t, 2, store.Len())
}

func TestStore_Recent(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("/test/path/screenshot_%d.png", i)))
	}

	t.Run("shorter than limit", func(t *testing.T) {
		assert.Len(t, store.Recent(10), 3)
	})

	t.Run("exact limit", func(t *testing.T) {
		records := store.Recent(2)
		require.Len(t, records, 2)
		assert.Equal(t, "screenshot_2.png", records[0].Filename)
		assert.Equal(t, "screenshot_1.png", records[1].Filename)
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Len(t, store.Recent(0), 0)
	})
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add("/test/path/screenshot.png"))
	require.NoError(t, store.Clear())
	assert.Equal(t, 0, store.Len())

	reloaded, err := NewStoreAt(store.Path())
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Len())
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("/test/path/screenshot_%d.png", i)))
	}
	before := store.Recent(MaxEntries)

	reloaded, err := NewStoreAt(store.Path())
	require.NoError(t, err)
	after := reloaded.Recent(MaxEntries)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].FilePath, after[i].FilePath)
		assert.Equal(t, before[i].Filename, after[i].Filename)
		assert.True(t, before[i].Timestamp.Equal(after[i].Timestamp))
	}
}

func TestStore_DocumentFormat(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add("/test/path/screenshot.png"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	screenshots, ok := doc["screenshots"].([]any)
	require.True(t, ok)
	require.Len(t, screenshots, 1)

	entry, ok := screenshots[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/test/path/screenshot.png", entry["file_path"])
	assert.Equal(t, "screenshot.png", entry["filename"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "thumbnail_path")
}
