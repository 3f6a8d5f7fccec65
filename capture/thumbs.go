package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"photo-triage/model"
)

// Thumbnailer renders grid previews for the working set, one jpeg per photo
// id, fitted into a Size by Size box.
type Thumbnailer struct {
	Dir  string
	Size int
}

func (t *Thumbnailer) Generate(photo model.Photo) (string, error) {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail directory: %w", err)
	}

	img, err := imaging.Open(strings.TrimPrefix(photo.URI, "file://"))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	size := t.Size
	if size <= 0 {
		size = 300
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	out := t.PathFor(photo.ID)
	if err := imaging.Save(thumb, out, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return out, nil
}

// PathFor returns where the photo's thumbnail lives once generated.
func (t *Thumbnailer) PathFor(id string) string {
	return filepath.Join(t.Dir, id+".jpg")
}
