package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// BundleUploader installs captured plugin/theme bundle directories on the
// target. Bundles are a side workflow: any failure is logged and skipped,
// never fatal to the run.
type BundleUploader struct {
	api      BundleAPI
	log      *zap.Logger
	progress replication.ProgressFunc
}

// NewBundleUploader creates a bundle uploader.
func NewBundleUploader(api BundleAPI, log *zap.Logger, progress replication.ProgressFunc) *BundleUploader {
	return &BundleUploader{api: api, log: log, progress: progress}
}

// bundleManifest is the subset of manifest.json the uploader reads.
type bundleManifest struct {
	Kind string `json:"kind"`
}

// UploadAll installs every bundle directory, best effort.
func (u *BundleUploader) UploadAll(ctx context.Context, dirs []string) {
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return
		}
		u.upload(ctx, dir)
	}
}

func (u *BundleUploader) upload(ctx context.Context, dir string) {
	files, manifestPath := collectBundleArtifacts(dir)
	if len(files) == 0 {
		u.log.Warn("bundle directory has no artifacts, skipping", zap.String("dir", dir))
		return
	}

	kind := bundleKind(dir, manifestPath)
	if err := u.api.InstallBundle(ctx, kind, files); err != nil {
		u.log.Warn("bundle install failed, skipping",
			zap.String("dir", dir),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}
	u.progress.Emit("%s bundle %s installed", kind, filepath.Base(dir))
}

// collectBundleArtifacts gathers the manifest, options and archive files
// present in a bundle directory. Any subset is acceptable.
func collectBundleArtifacts(dir string) (files map[string]string, manifestPath string) {
	files = make(map[string]string)
	if path := filepath.Join(dir, "manifest.json"); fileExists(path) {
		files["manifest"] = path
		manifestPath = path
	}
	if path := filepath.Join(dir, "options.json"); fileExists(path) {
		files["options"] = path
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return files, manifestPath
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		files["archive"] = filepath.Join(dir, entry.Name())
		break
	}
	return files, manifestPath
}

// bundleKind reads the manifest's kind when available and falls back to
// the directory name; plugin is the default.
func bundleKind(dir, manifestPath string) target.BundleKind {
	if manifestPath != "" {
		if data, err := os.ReadFile(manifestPath); err == nil {
			var m bundleManifest
			if json.Unmarshal(data, &m) == nil && m.Kind == string(target.BundleTheme) {
				return target.BundleTheme
			}
		}
	}
	if strings.Contains(strings.ToLower(filepath.Base(dir)), "theme") {
		return target.BundleTheme
	}
	return target.BundlePlugin
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
