package iofs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olimci/shiori/pkg/utils/fileutils"
)

// FromFS wraps any fs.FS, reading content below root.
func FromFS(fsys fs.FS, root string) *FS {
	return &FS{fs: fsys, root: root}
}

type FS struct {
	fs   fs.FS
	root string
}

func (f *FS) Open(ctx context.Context) (fs.FS, error) {
	return f.fs, nil
}

func (f *FS) Root() string {
	return f.root
}

// FromOS wraps a directory on disk. It serves as both source and output.
func FromOS(path string) *OSFS {
	return &OSFS{path: path}
}

type OSFS struct {
	path string
}

func (o *OSFS) Open(ctx context.Context) (fs.FS, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.DirFS(o.path), nil
}

func (o *OSFS) Root() string {
	return "."
}

func (o *OSFS) EnsureRoot() error {
	info, err := os.Stat(o.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(o.path, 0o755); err != nil {
				return fmt.Errorf("failed to create output dir %q: %w", o.path, err)
			}
			return nil
		}
		return fmt.Errorf("failed to stat output dir %q: %w", o.path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output dir %q is not a directory", o.path)
	}
	return nil
}

func (o *OSFS) MkdirAll(rel string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(o.path, filepath.FromSlash(rel)), perm)
}

// Write replaces rel atomically. Existing files whose content would not
// change are left untouched, so the host tool's watcher sees no event.
func (o *OSFS) Write(rel string, gen WriterFunc) error {
	full := filepath.Join(o.path, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err == nil {
		return fileutils.AtomicEdit(full, gen)
	}
	return fileutils.AtomicWrite(full, gen)
}

func (o *OSFS) DisplayPath(rel string) string {
	return filepath.Join(o.path, filepath.FromSlash(rel))
}
