// Package iofs abstracts where site content is read from and where
// generated files are written.
package iofs

import (
	"context"
	"io"
	"io/fs"
)

// Readable is a content source: a filesystem and the directory within it
// holding the site.
type Readable interface {
	Open(ctx context.Context) (fs.FS, error)
	Root() string
}

// WriterFunc produces the content of one output file.
type WriterFunc func(w io.Writer) error

// Writable is the output directory. It is shared with the host tool, so
// files are only ever created or replaced.
// Implementations must be safe for concurrent Write calls.
type Writable interface {
	EnsureRoot() error
	MkdirAll(rel string, perm fs.FileMode) error
	Write(rel string, gen WriterFunc) error
	DisplayPath(rel string) string
}

var (
	_ Readable = (*FS)(nil)
	_ Readable = (*OSFS)(nil)
	_ Writable = (*OSFS)(nil)
)
