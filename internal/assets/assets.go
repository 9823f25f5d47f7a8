// Package assets persists captured parcelle photos. Two configurations of
// the same capability exist: copy into an app-owned directory, or register
// with the shared media gallery behind a permission prompt. Deletion is
// best-effort everywhere: a failed cleanup never fails the record
// operation that triggered it.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diewo77/go-parcelles/internal/models"
)

// SaveMode selects the photo persistence variant.
type SaveMode string

const (
	SaveToAppDir  SaveMode = "file"
	SaveToGallery SaveMode = "gallery"
)

// ErrPermissionDenied is returned when the user refuses gallery access.
// The caller treats it as soft: the record is saved without a photo.
var ErrPermissionDenied = errors.New("assets: gallery permission denied")

// AssetError wraps a failure on the save-photo path. Unlike cleanup
// failures it is fatal: a record must not reference a missing image.
type AssetError struct {
	Op  string
	Err error
}

func (e *AssetError) Error() string { return fmt.Sprintf("assets: %s: %v", e.Op, e.Err) }
func (e *AssetError) Unwrap() error { return e.Err }

// Permissions is the device permission prompt.
type Permissions interface {
	RequestGalleryWrite(ctx context.Context) (bool, error)
}

// Library is the shared media gallery. RegisterImage deliberately returns
// no asset handle: the underlying platform call never did, so gallery
// references end up without an asset id (a known gap, kept as-is).
type Library interface {
	RegisterImage(ctx context.Context, path string) error
	DeleteAsset(ctx context.Context, assetID string) error
}

// Manager saves and cleans up parcelle photos.
type Manager struct {
	photosDir string
	cacheDir  string
	mode      SaveMode
	perms     Permissions
	library   Library
	log       zerolog.Logger

	now func() time.Time
}

func NewManager(photosDir, cacheDir string, mode SaveMode, perms Permissions, library Library, log zerolog.Logger) *Manager {
	return &Manager{
		photosDir: photosDir,
		cacheDir:  cacheDir,
		mode:      mode,
		perms:     perms,
		library:   library,
		log:       log,
		now:       time.Now,
	}
}

// SavePhoto persists a captured photo from its transient location and
// returns the reference to store on the record.
func (m *Manager) SavePhoto(ctx context.Context, capturePath string) (models.ImageRef, error) {
	switch m.mode {
	case SaveToGallery:
		return m.saveToGallery(ctx, capturePath)
	default:
		return m.saveToAppDir(capturePath)
	}
}

// saveToAppDir copies the capture into the photos directory under a
// timestamp-prefixed name. The directory is created on first use.
func (m *Manager) saveToAppDir(capturePath string) (models.ImageRef, error) {
	if err := os.MkdirAll(m.photosDir, 0o755); err != nil {
		return models.ImageRef{}, &AssetError{Op: "create photos dir", Err: err}
	}
	name := fmt.Sprintf("%d_%s", m.now().UnixMilli(), filepath.Base(capturePath))
	dst := filepath.Join(m.photosDir, name)
	if err := copyFile(capturePath, dst); err != nil {
		return models.ImageRef{}, &AssetError{Op: "copy photo", Err: err}
	}
	return models.ImageRef{Kind: models.ImageFile, URI: dst, Name: name}, nil
}

// saveToGallery registers the capture with the media library through a
// temporary cache copy. The returned reference keeps the original capture
// URI and carries no asset id.
func (m *Manager) saveToGallery(ctx context.Context, capturePath string) (models.ImageRef, error) {
	granted, err := m.perms.RequestGalleryWrite(ctx)
	if err != nil {
		return models.ImageRef{}, &AssetError{Op: "request permission", Err: err}
	}
	if !granted {
		return models.ImageRef{}, ErrPermissionDenied
	}
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return models.ImageRef{}, &AssetError{Op: "create cache dir", Err: err}
	}
	name := filepath.Base(capturePath)
	cachePath := filepath.Join(m.cacheDir, uuid.NewString()+filepath.Ext(name))
	if err := copyFile(capturePath, cachePath); err != nil {
		return models.ImageRef{}, &AssetError{Op: "copy to cache", Err: err}
	}
	if err := m.library.RegisterImage(ctx, cachePath); err != nil {
		os.Remove(cachePath)
		return models.ImageRef{}, &AssetError{Op: "register with gallery", Err: err}
	}
	if err := os.Remove(cachePath); err != nil {
		m.log.Warn().Err(err).Str("path", cachePath).Msg("cache copy not removed")
	}
	return models.ImageRef{Kind: models.ImageGallery, URI: capturePath, Name: name}, nil
}

// Cleanup removes whatever backs the reference. Every failure is logged
// and swallowed.
func (m *Manager) Cleanup(ctx context.Context, ref models.ImageRef) {
	switch ref.Kind {
	case models.ImageFile:
		if err := os.Remove(ref.URI); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.log.Warn().Err(err).Str("path", ref.URI).Msg("photo file not removed")
		}
	case models.ImageGallery:
		if ref.AssetID == "" {
			// Gallery registration never yielded a handle; nothing to delete.
			return
		}
		granted, err := m.perms.RequestGalleryWrite(ctx)
		if err != nil || !granted {
			m.log.Warn().Err(err).Str("assetId", ref.AssetID).Msg("gallery permission unavailable, asset kept")
			return
		}
		if err := m.library.DeleteAsset(ctx, ref.AssetID); err != nil {
			m.log.Warn().Err(err).Str("assetId", ref.AssetID).Msg("gallery asset not deleted")
		}
	}
}

// CleanupAll is the bulk variant used when the whole collection is cleared.
func (m *Manager) CleanupAll(ctx context.Context, refs []models.ImageRef) {
	for _, ref := range refs {
		m.Cleanup(ctx, ref)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
