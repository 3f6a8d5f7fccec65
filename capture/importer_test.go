package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-triage/model"
	"photo-triage/storage"
)

func newImportStore(t *testing.T) *storage.Store {
	t.Helper()

	store := storage.NewStore(storage.NewMemoryProvider())
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

// writeTestImage drops a small png at dir/name and returns its path. PNGs
// carry no EXIF, which the capture-time fallback tests rely on.
func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestCaptureNoPhotoLeavesCollectionAlone(t *testing.T) {
	tests := []struct {
		name   string
		device Device
	}{
		{"device error", DeviceFunc(func(ctx context.Context) (string, error) {
			return "", errors.New("camera busy")
		})},
		{"user cancel", DeviceFunc(func(ctx context.Context) (string, error) {
			return "", nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newImportStore(t)
			importer := &Importer{Store: store, Device: tt.device}

			_, ok := importer.Capture(context.Background())

			assert.False(t, ok)
			assert.Zero(t, store.Len())
		})
	}
}

func TestCaptureImportsFromDevice(t *testing.T) {
	store := newImportStore(t)
	path := writeTestImage(t, t.TempDir(), "shot.png")
	importer := &Importer{
		Store: store,
		Device: DeviceFunc(func(ctx context.Context) (string, error) {
			return path, nil
		}),
	}

	photo, ok := importer.Capture(context.Background())

	require.True(t, ok)
	assert.Equal(t, path, photo.URI)
	assert.NotEmpty(t, photo.ID)

	photos := store.Photos()
	require.Len(t, photos, 1)
	assert.Equal(t, photo, photos[0])
}

func TestImportFileFallsBackToModTime(t *testing.T) {
	store := newImportStore(t)
	path := writeTestImage(t, t.TempDir(), "old.png")

	taken := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, taken, taken))

	importer := &Importer{Store: store}
	photo := importer.ImportFile(context.Background(), path)

	assert.Equal(t, taken.UnixMilli(), photo.Timestamp)
}

func TestThumbnailerGenerate(t *testing.T) {
	src := writeTestImage(t, t.TempDir(), "full.png")
	thumbs := &Thumbnailer{Dir: filepath.Join(t.TempDir(), "thumbs"), Size: 4}

	photo := model.NewPhoto("file://"+src, time.Now())
	out, err := thumbs.Generate(photo)
	require.NoError(t, err)
	assert.Equal(t, thumbs.PathFor(photo.ID), out)

	thumb, err := imaging.Open(out)
	require.NoError(t, err)
	bounds := thumb.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 4)
	assert.LessOrEqual(t, bounds.Dy(), 4)
}

func TestTakenAtWithoutExif(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "plain.png")

	_, err := TakenAt(path)
	assert.Error(t, err, "png has no exif block")
}
