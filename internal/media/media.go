// Package media stores uploaded payment screenshots. Two backends are
// provided: local disk for development and Cloudinary for hosted
// deployments.
package media

import (
	"context"
	"io"
)

// Upload is the stored location of a screenshot. PublicID is the backend's
// handle for later deletion; URL is what gets persisted on the registration.
type Upload struct {
	URL      string
	PublicID string
}

// Store persists screenshot bytes.
type Store interface {
	Upload(ctx context.Context, name string, contentType string, r io.Reader) (*Upload, error)
	Delete(ctx context.Context, publicID string) error
}
