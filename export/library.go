package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Library is the copy-into-library primitive: Save persists the image behind
// uri into the OS-managed photo library, independent of the app's own
// collection.
type Library interface {
	Save(ctx context.Context, uri string) error
}

// DirLibrary writes library copies into a local directory. An existing file
// is never overwritten; name collisions get a numeric suffix.
type DirLibrary struct {
	Directory string
}

func (l *DirLibrary) Save(ctx context.Context, uri string) error {
	src, err := os.Open(filePath(uri))
	if err != nil {
		return fmt.Errorf("open source image: %w", err)
	}
	defer src.Close()

	dest, err := l.create(filepath.Base(filePath(uri)))
	if err != nil {
		return fmt.Errorf("create library file: %w", err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(dest.Name())
		return fmt.Errorf("copy into library: %w", err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(dest.Name())
		return fmt.Errorf("close library file: %w", err)
	}
	return nil
}

// create opens the destination exclusively, suffixing the name until it
// finds one that does not exist yet.
func (l *DirLibrary) create(base string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(l.Directory, base), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil || !os.IsExist(err) {
		return f, err
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; i < 1000; i++ {
		name := fmt.Sprintf("%s-%d%s", stem, i, ext)
		f, err := os.OpenFile(filepath.Join(l.Directory, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !os.IsExist(err) {
			return f, err
		}
	}
	return nil, fmt.Errorf("no free library name for %s", base)
}

// filePath strips an optional file:// scheme from a photo uri.
func filePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
