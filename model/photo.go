package model

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a single captured image in the triage collection.
type Photo struct {
	ID        string `json:"id"`
	URI       string `json:"uri"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// NewPhoto builds the record for a freshly captured image. The id is
// generated here and stays stable for the record's lifetime.
func NewPhoto(uri string, takenAt time.Time) Photo {
	return Photo{
		ID:        uuid.NewString(),
		URI:       uri,
		Timestamp: takenAt.UnixMilli(),
	}
}

// Time converts the stored capture time back into a time.Time.
func (p Photo) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}
