package migration

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MediaUploader uploads local image files to the target media library,
// memoized by absolute path for the lifetime of one run so the same
// physical file referenced by multiple products transfers exactly once.
// Upload failures are logged and mean "no image for this slot"; they never
// fail the owning product.
type MediaUploader struct {
	api   MediaAPI
	log   *zap.Logger
	cache map[string]int64
}

// NewMediaUploader creates an uploader with an empty per-run cache.
func NewMediaUploader(api MediaAPI, log *zap.Logger) *MediaUploader {
	return &MediaUploader{
		api:   api,
		log:   log,
		cache: make(map[string]int64),
	}
}

// Upload returns the target media id for a local file path. ok is false
// when the file is missing or the upload failed.
func (u *MediaUploader) Upload(ctx context.Context, path string) (int64, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if id, hit := u.cache[abs]; hit {
		return id, true
	}

	if _, err := os.Stat(abs); err != nil {
		u.log.Warn("image file missing, skipping", zap.String("path", abs), zap.Error(err))
		return 0, false
	}

	media, err := u.api.UploadMedia(ctx, abs)
	if err != nil {
		u.log.Warn("media upload failed, skipping", zap.String("path", abs), zap.Error(err))
		return 0, false
	}
	u.cache[abs] = media.ID
	return media.ID, true
}

// CacheSize returns the number of successfully uploaded distinct files.
func (u *MediaUploader) CacheSize() int {
	return len(u.cache)
}
