package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	dErrors "fundrace/pkg/domain-errors"
)

// CloudinaryStore hosts screenshots on Cloudinary.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to configure cloudinary")
	}
	return &CloudinaryStore{client: client, folder: "payment-screenshots"}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, _ string, _ string, r io.Reader) (*Upload, error) {
	result, err := s.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to upload screenshot")
	}
	return &Upload{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete screenshot")
	}
	return nil
}
