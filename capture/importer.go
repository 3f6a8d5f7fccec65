package capture

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"photo-triage/model"
	"photo-triage/storage"
)

// Importer brings freshly captured files into the collection: it resolves
// the capture time, records the photo, and renders the thumbnail off the
// critical path.
type Importer struct {
	Store  *storage.Store
	Device Device
	Thumbs *Thumbnailer
	Log    *zap.Logger
}

// Capture asks the device for a photo and imports it. False means the
// attempt produced nothing; the collection is untouched and no error
// reaches the user.
func (i *Importer) Capture(ctx context.Context) (model.Photo, bool) {
	path, err := i.Device.RequestCapture(ctx)
	if err != nil {
		i.logger().Info("capture produced no photo", zap.Error(err))
		return model.Photo{}, false
	}
	if path == "" {
		i.logger().Debug("capture cancelled")
		return model.Photo{}, false
	}
	return i.ImportFile(ctx, path), true
}

// ImportFile records an existing file as a new photo. The capture time comes
// from EXIF when present, else the file's mtime, else now.
func (i *Importer) ImportFile(ctx context.Context, path string) model.Photo {
	photo := i.Store.Add(path, storage.WithTimestamp(i.takenAt(path)))

	if i.Thumbs != nil {
		go i.generateThumbnail(photo)
	}
	return photo
}

func (i *Importer) generateThumbnail(photo model.Photo) {
	defer func() {
		if r := recover(); r != nil {
			i.logger().Error("panic recovered during thumbnail generation",
				zap.Any("error", r),
				zap.String("id", photo.ID),
			)
		}
	}()

	if _, err := i.Thumbs.Generate(photo); err != nil {
		i.logger().Warn("failed to generate thumbnail",
			zap.Error(err),
			zap.String("id", photo.ID),
		)
	}
}

func (i *Importer) takenAt(path string) time.Time {
	if ts, err := TakenAt(path); err == nil {
		return ts
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}

func (i *Importer) logger() *zap.Logger {
	if i.Log == nil {
		return zap.NewNop()
	}
	return i.Log
}
