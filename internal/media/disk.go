package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	dErrors "fundrace/pkg/domain-errors"
)

// DiskStore writes screenshots under a local directory and serves them at
// /media/<file>. Suitable for development and single-node deployments.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create media directory")
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the backing directory, for mounting a file server.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Upload(_ context.Context, name string, _ string, r io.Reader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(name))
	publicID := fmt.Sprintf("%s%s", uuid.NewString(), ext)

	f, err := os.Create(filepath.Join(s.dir, publicID))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store screenshot")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store screenshot")
	}

	return &Upload{URL: "/media/" + publicID, PublicID: publicID}, nil
}

func (s *DiskStore) Delete(_ context.Context, publicID string) error {
	// publicID is a generated file name; reject anything path-like.
	if publicID == "" || publicID != filepath.Base(publicID) {
		return dErrors.New(dErrors.CodeValidation, "invalid screenshot id")
	}
	if err := os.Remove(filepath.Join(s.dir, publicID)); err != nil && !os.IsNotExist(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete screenshot")
	}
	return nil
}
