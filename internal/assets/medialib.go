package assets

import (
	"context"
	"os"
	"path/filepath"
)

// DirLibrary is a directory-backed media gallery, standing in for the
// device's shared library. Registered images are copied under its root;
// assets are addressed by file name.
type DirLibrary struct {
	root string
}

var _ Library = (*DirLibrary)(nil)

func NewDirLibrary(root string) *DirLibrary { return &DirLibrary{root: root} }

func (l *DirLibrary) RegisterImage(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return err
	}
	return copyFile(path, filepath.Join(l.root, filepath.Base(path)))
}

func (l *DirLibrary) DeleteAsset(ctx context.Context, assetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(filepath.Join(l.root, assetID))
}

// StaticPermissions answers every prompt with a configured verdict. The
// real device prompt lives outside this repository; configuration decides
// whether the gallery path is allowed.
type StaticPermissions struct {
	Granted bool
}

var _ Permissions = StaticPermissions{}

func (p StaticPermissions) RequestGalleryWrite(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.Granted, nil
}
