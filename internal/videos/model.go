package videos

import "time"

// Video is an uploaded presentation recording awaiting (or already under)
// analysis.
type Video struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
