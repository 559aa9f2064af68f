package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/logging"
)

// ImageStore abstracts the blob backend behind the upload endpoint. The
// default writes to local disk; an object store can slot in unchanged.
type ImageStore interface {
	Store(ctx context.Context, ownerID string, data []byte, contentType string) (string, error)
}

const imageStoreTimeout = 10 * time.Second

// DiskImageStore writes blobs under a local directory served at
// /static/images/.
type DiskImageStore struct {
	dir     string
	baseURL string
}

// NewDiskImageStore ensures the directory exists. baseURL may be empty, in
// which case returned URLs are host-relative.
func NewDiskImageStore(dir, baseURL string) (*DiskImageStore, error) {
	if dir == "" {
		dir = "./data/images"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.Config("image store dir unavailable: " + err.Error())
	}
	return &DiskImageStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Store persists the blob under a fresh uuid name and returns its serving
// URL. The write runs under a bounded timeout; hitting it surfaces as a
// retryable store error, the same contract a remote blob store would have.
func (s *DiskImageStore) Store(ctx context.Context, ownerID string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, imageStoreTimeout)
	defer cancel()

	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	done := make(chan error, 1)
	go func() {
		done <- os.WriteFile(path, data, 0o644)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", domain.Transient("store image", err)
		}
	case <-ctx.Done():
		return "", domain.Transient("store image", ctx.Err())
	}

	logging.Info("image stored", "owner_id", ownerID, "file", name, "bytes", len(data))
	return s.baseURL + "/static/images/" + name, nil
}
