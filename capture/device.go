// Package capture brings photos from the camera seam into the collection:
// capture-time resolution, the import itself, and grid thumbnails.
package capture

import "context"

// Device is the camera seam. RequestCapture returns the path of the file the
// platform produced, or "" when the attempt produced no photo (device not
// ready, user cancel). Callers treat errors the same way: no photo.
type Device interface {
	RequestCapture(ctx context.Context) (string, error)
}

// DeviceFunc adapts a plain function to Device.
type DeviceFunc func(ctx context.Context) (string, error)

func (f DeviceFunc) RequestCapture(ctx context.Context) (string, error) {
	return f(ctx)
}
