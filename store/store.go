// Package store persists rendered chart images so a companion HTTP endpoint
// can serve them to the end user.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when no chart exists for a key.
var ErrNotFound = errors.New("chart not found")

// Chart is a rendered, content-addressed image.
type Chart struct {
	// Key is the content address of the image.
	Key string `json:"key"`
	// ContentType is the MIME type of the image.
	ContentType string `json:"content_type"`
	// Data is the image payload.
	Data []byte `json:"data"`
	// CreatedAt is the render time.
	CreatedAt time.Time `json:"created_at"`
}

// ChartStore stores rendered charts.
type ChartStore interface {
	// Save persists the chart. Saving the same key again is a no-op overwrite,
	// keys are content-addressed so the payload is identical.
	Save(ctx context.Context, chart *Chart) error
	// Get returns the chart for the key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Chart, error)
	// Exists reports whether a chart is stored for the key.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the chart for the key, missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
