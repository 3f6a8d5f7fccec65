package triage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photo-triage/review"
	"photo-triage/storage"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	base := t.TempDir()
	return Config{
		StorageBackend: "memory",
		DataDir:        filepath.Join(base, "data"),
		SQLitePath:     filepath.Join(base, "data", "photos.db"),
		LibraryDir:     filepath.Join(base, "library"),
		ThumbDir:       filepath.Join(base, "thumbs"),
		ThumbSize:      64,
	}
}

func TestAppPersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = "file"

	app, err := NewWithLogger(cfg, zap.NewNop())
	require.NoError(t, err)
	app.Store.Add("file://keep.jpg")
	require.NoError(t, app.Close())

	reopened, err := NewWithLogger(cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	photos := reopened.Store.Photos()
	require.Len(t, photos, 1)
	assert.Equal(t, "file://keep.jpg", photos[0].URI)
}

func TestAppFallsBackToMemoryProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "missing", "deep", "photos.db")

	app, err := NewWithLogger(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &storage.MemoryProvider{}, app.Provider)

	// The fallback still behaves like a working backend for the session.
	app.Store.Add("file://a.jpg")
	assert.Equal(t, 1, app.Store.Len())
}

func TestAppSessionRoundTrip(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewWithLogger(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	app.Store.Add("file://a.jpg")
	app.Store.Add("file://b.jpg")

	session := app.NewSession()
	defer session.Close()

	require.True(t, session.EnterSwipe(0))
	session.CommitLeft()

	assert.Equal(t, 1, app.Store.Len())
	assert.Equal(t, review.ModeSwipe, session.Mode())

	current, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, "file://a.jpg", current.URI)
}

func TestAppGateExportsIntoLibraryDir(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewWithLogger(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	src := filepath.Join(t.TempDir(), "src.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg-bytes"), 0o644))

	assert.True(t, app.Gate.Export(context.Background(), "file://"+src))

	copied, err := os.ReadFile(filepath.Join(cfg.LibraryDir, "src.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), copied)
}
