package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLibrarySaveCopiesFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "img.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg bytes"), 0o644))

	destDir := t.TempDir()
	lib := &DirLibrary{Directory: destDir}
	require.NoError(t, lib.Save(context.Background(), "file://"+src))

	got, err := os.ReadFile(filepath.Join(destDir, "img.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), got)
}

func TestDirLibrarySaveNeverOverwrites(t *testing.T) {
	src := filepath.Join(t.TempDir(), "img.jpg")
	require.NoError(t, os.WriteFile(src, []byte("first"), 0o644))

	destDir := t.TempDir()
	lib := &DirLibrary{Directory: destDir}
	require.NoError(t, lib.Save(context.Background(), src))

	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	require.NoError(t, lib.Save(context.Background(), src))

	first, err := os.ReadFile(filepath.Join(destDir, "img.jpg"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(destDir, "img-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), first)
	assert.Equal(t, []byte("second"), second)
}

func TestDirLibrarySaveMissingSource(t *testing.T) {
	lib := &DirLibrary{Directory: t.TempDir()}
	assert.Error(t, lib.Save(context.Background(), "/does/not/exist.jpg"))
}

func TestDirPermissionGate(t *testing.T) {
	t.Run("writable dir is granted", func(t *testing.T) {
		g := &DirPermissionGate{Dir: t.TempDir()}

		st, err := g.Query(context.Background())
		require.NoError(t, err)
		assert.True(t, st.Granted)
	})

	t.Run("missing dir denied until requested", func(t *testing.T) {
		g := &DirPermissionGate{Dir: filepath.Join(t.TempDir(), "library")}

		st, err := g.Query(context.Background())
		require.NoError(t, err)
		assert.False(t, st.Granted)
		assert.True(t, st.CanRetry)

		granted, err := g.Request(context.Background())
		require.NoError(t, err)
		assert.True(t, granted)

		st, err = g.Query(context.Background())
		require.NoError(t, err)
		assert.True(t, st.Granted)
	})
}

func TestGateExportEndToEnd(t *testing.T) {
	src := filepath.Join(t.TempDir(), "keep.jpg")
	require.NoError(t, os.WriteFile(src, []byte("kept"), 0o644))

	libDir := filepath.Join(t.TempDir(), "library")
	gate := NewGate(
		&DirPermissionGate{Dir: libDir},
		&DirLibrary{Directory: libDir},
	)

	// First export has to request its way in (directory does not exist yet).
	assert.True(t, gate.Export(context.Background(), src))

	got, err := os.ReadFile(filepath.Join(libDir, "keep.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), got)
}
